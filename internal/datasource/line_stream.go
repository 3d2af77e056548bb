package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/pick-engine/internal/models"
)

// LineHandler is called for each line update received from the stream.
type LineHandler func(line LineData) error

// ReconnectConfig controls stream reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// LineStreamClient holds a WebSocket connection to the line provider's push
// stream. Closing lines move fast on game days; polling misses the capture
// the backtest calibrated on.
type LineStreamClient struct {
	conn            *websocket.Conn
	streamURL       string
	apiKey          string
	sport           models.Sport
	mu              sync.RWMutex
	isConnected     bool
	handlers        []LineHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *logrus.Logger
}

// lineMessage is the provider's stream payload.
type lineMessage struct {
	Op       string   `json:"op"`
	Date     string   `json:"date,omitempty"`
	HomeTeam string   `json:"home_team,omitempty"`
	AwayTeam string   `json:"away_team,omitempty"`
	Spread   *float64 `json:"spread,omitempty"`
	Total    *float64 `json:"total,omitempty"`
}

// NewLineStreamClient creates a line stream client
func NewLineStreamClient(streamURL, apiKey string, sport models.Sport, logger *logrus.Logger) *LineStreamClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &LineStreamClient{
		streamURL:       streamURL,
		apiKey:          apiKey,
		sport:           sport,
		handlers:        make([]LineHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Connect establishes the stream connection and starts the read loop
func (s *LineStreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.streamURL).Info("Connecting to line stream")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to line stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	go s.readMessages()
	return nil
}

// Subscribe authenticates and subscribes to the sport's line channel
func (s *LineStreamClient) Subscribe(ctx context.Context) error {
	_ = ctx
	return s.sendMessage(map[string]interface{}{
		"op":     "subscribe",
		"apiKey": s.apiKey,
		"sport":  string(s.sport),
	})
}

// AddHandler registers a line update handler
func (s *LineStreamClient) AddHandler(handler LineHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *LineStreamClient) readMessages() {
	defer s.Close()

	for {
		var msg lineMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			s.logger.WithError(err).Warn("Line stream read failed")
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		if msg.Op != "line" {
			continue
		}
		line, err := s.toLineData(msg)
		if err != nil {
			s.logger.WithError(err).Warn("Dropping malformed line update")
			continue
		}

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()
		for _, handler := range handlers {
			if err := handler(line); err != nil {
				s.logger.WithError(err).Warn("Line handler failed")
			}
		}
	}
}

func (s *LineStreamClient) toLineData(msg lineMessage) (LineData, error) {
	day, err := time.Parse("2006-01-02", msg.Date)
	if err != nil {
		return LineData{}, fmt.Errorf("bad line date %q: %w", msg.Date, err)
	}
	return LineData{
		Sport:        s.sport,
		Date:         day,
		HomeTeamName: msg.HomeTeam,
		AwayTeamName: msg.AwayTeam,
		Spread:       msg.Spread,
		Total:        msg.Total,
	}, nil
}

func (s *LineStreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// IsConnected returns whether the stream is connected
func (s *LineStreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *LineStreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the stream connection
func (s *LineStreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	s.isConnected = false
	return s.conn.Close()
}
