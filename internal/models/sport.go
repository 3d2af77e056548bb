package models

import "fmt"

// Sport identifies a supported sport. The set is closed: every switch over
// Sport must handle all constants and reject anything else, so adding a sport
// is a compile-time-visible change.
type Sport string

const (
	SportBasketball Sport = "basketball"
	SportFootball   Sport = "football"
)

// Sports lists every supported sport.
func Sports() []Sport {
	return []Sport{SportBasketball, SportFootball}
}

// ParseSport converts a raw label into a Sport.
func ParseSport(raw string) (Sport, error) {
	switch Sport(raw) {
	case SportBasketball:
		return SportBasketball, nil
	case SportFootball:
		return SportFootball, nil
	default:
		return "", fmt.Errorf("unsupported sport %q", raw)
	}
}

// Validate checks that the sport is one of the supported constants.
func (s Sport) Validate() error {
	switch s {
	case SportBasketball, SportFootball:
		return nil
	default:
		return fmt.Errorf("unsupported sport %q", string(s))
	}
}

// Market identifies a bettable market for a game.
type Market string

const (
	MarketSpread Market = "spread"
	MarketTotal  Market = "total"
)

// Markets lists every supported market.
func Markets() []Market {
	return []Market{MarketSpread, MarketTotal}
}

// ParseMarket converts a raw label into a Market.
func ParseMarket(raw string) (Market, error) {
	switch Market(raw) {
	case MarketSpread:
		return MarketSpread, nil
	case MarketTotal:
		return MarketTotal, nil
	default:
		return "", fmt.Errorf("unsupported market %q", raw)
	}
}

// Validate checks that the market is one of the supported constants.
func (m Market) Validate() error {
	switch m {
	case MarketSpread, MarketTotal:
		return nil
	default:
		return fmt.Errorf("unsupported market %q", string(m))
	}
}
