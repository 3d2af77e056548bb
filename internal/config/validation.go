// Package config provides configuration management for the pick engine.
package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/pick-engine/internal/models"
)

const weightSumTolerance = 1e-6

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("sport", validateSport)
	_ = v.RegisterValidation("market", validateMarket)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateSport validates a sport label against the closed sport set
func validateSport(fl validator.FieldLevel) bool {
	_, err := models.ParseSport(fl.Field().String())
	return err == nil
}

// validateMarket validates a market label against the closed market set
func validateMarket(fl validator.FieldLevel) bool {
	_, err := models.ParseMarket(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Backtest.StartSeason >= cfg.Backtest.EndSeason {
		return fmt.Errorf("backtest start_season must be before end_season")
	}

	if cfg.Backtest.PicksPerWeekMin > cfg.Backtest.PicksPerWeekMax {
		return fmt.Errorf("picks_per_week_min cannot exceed picks_per_week_max")
	}

	if err := validateScoring(&cfg.Scoring); err != nil {
		return err
	}

	for _, set := range cfg.Sweep.ThresholdSets {
		if err := validateThresholds(set); err != nil {
			return fmt.Errorf("sweep threshold set invalid: %w", err)
		}
	}

	if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	return nil
}

// validateScoring checks every weight table and threshold block. Weight
// tables must sum to 1.0 within tolerance; an explicit zero entry is a legal
// way to silence a category and still counts toward the sum.
func validateScoring(scoring *ScoringConfig) error {
	known := map[string]bool{}
	for _, cat := range models.SignalCategories() {
		known[string(cat)] = true
	}

	for sport, markets := range scoring.Sports {
		if _, err := models.ParseSport(sport); err != nil {
			return fmt.Errorf("scoring config: %w", err)
		}
		for market, ms := range markets {
			if _, err := models.ParseMarket(market); err != nil {
				return fmt.Errorf("scoring config for sport %q: %w", sport, err)
			}

			sum := 0.0
			for category, weight := range ms.Weights {
				if !known[category] {
					return fmt.Errorf("scoring config %s/%s: unknown signal category %q", sport, market, category)
				}
				if weight < 0 || weight > 1 {
					return fmt.Errorf("scoring config %s/%s: weight for %q out of range [0,1]: %v", sport, market, category, weight)
				}
				sum += weight
			}
			if math.Abs(sum-1.0) > weightSumTolerance {
				return fmt.Errorf("scoring config %s/%s: weights sum to %.6f, want 1.0", sport, market, sum)
			}

			if err := validateThresholds(ms.Thresholds); err != nil {
				return fmt.Errorf("scoring config %s/%s: %w", sport, market, err)
			}
		}
	}

	return nil
}

// validateThresholds checks that tier boundaries are strictly decreasing
func validateThresholds(t TierThresholds) error {
	if !(t.Top > t.Mid && t.Mid > t.Low && t.Low > 0) {
		return fmt.Errorf("tier thresholds must satisfy top > mid > low > 0, got top=%v mid=%v low=%v", t.Top, t.Mid, t.Low)
	}
	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "sport":
			errMsg += fmt.Sprintf("- Field '%s' must be a supported sport\n", field)
		case "market":
			errMsg += fmt.Sprintf("- Field '%s' must be a supported market\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
