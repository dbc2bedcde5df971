package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"cems-client/internal/model"
	"cems-client/internal/session"
)

// Status describes the transport's connection state. Failures never
// surface as errors; the worst the UI sees is StatusDegraded.
type Status int

const (
	StatusConnected Status = iota
	StatusReconnecting
	StatusDegraded
	StatusStopped
)

// Config tunes reconnect behavior. Zero values fall back to the
// defaults below.
type Config struct {
	// ReconnectBase is the delay before the first reconnect attempt.
	ReconnectBase time.Duration

	// ReconnectMax caps the exponential backoff between attempts.
	ReconnectMax time.Duration

	// DegradedAfter is the number of consecutive failures before
	// StatusDegraded is reported.
	DegradedAfter int
}

func (c Config) withDefaults() Config {
	if c.ReconnectBase <= 0 {
		c.ReconnectBase = 5 * time.Second
	}
	if c.ReconnectMax <= 0 {
		c.ReconnectMax = time.Minute
	}
	if c.DegradedAfter <= 0 {
		c.DegradedAfter = 5
	}
	return c
}

// Stream maintains one live server-sent-event connection per instance,
// delivering each decoded notification to a callback. Transport errors
// are never returned to the caller; the stream reconnects on its own,
// backing off between attempts, until Stop is called.
type Stream struct {
	baseURL    string
	session    *session.Session
	httpClient *http.Client
	logger     *zap.Logger
	cfg        Config

	// OnStatus, when set before Start, receives connection state
	// changes. It is invoked from the stream goroutine.
	OnStatus func(Status)

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a stream against the given backend. The session supplies
// the token carried in the stream URL's query string.
func New(baseURL string, sess *session.Session, cfg Config, logger *zap.Logger) *Stream {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stream{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: sess,
		// No client timeout: the connection is supposed to stay open.
		httpClient: &http.Client{},
		logger:     logger,
		cfg:        cfg.withDefaults(),
	}
}

// Start opens the event stream for userID and delivers decoded
// notifications to onEvent. If this instance already has an open
// stream, it is closed first; at most one stream is active per
// instance.
func (s *Stream) Start(userID int, onEvent func(model.Notification)) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(ctx, userID, onEvent)
}

// Stop closes the active stream, if any. Calling Stop with no active
// stream is a no-op.
func (s *Stream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// run owns the connect/consume/reconnect loop for one Start call.
// Each dropped connection schedules exactly one reconnect attempt;
// there is no retry limit, only growing delays.
func (s *Stream) run(ctx context.Context, userID int, onEvent func(model.Notification)) {
	failures := 0

	for {
		err := s.consume(ctx, userID, onEvent, func() {
			failures = 0
			s.notify(StatusConnected)
		})

		if ctx.Err() != nil {
			s.notify(StatusStopped)
			return
		}

		failures++
		delay := s.backoffDelay(failures)
		s.logger.Warn("notification stream dropped, reconnecting",
			zap.Int("user_id", userID),
			zap.Int("consecutive_failures", failures),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if failures >= s.cfg.DegradedAfter {
			s.notify(StatusDegraded)
		} else {
			s.notify(StatusReconnecting)
		}

		select {
		case <-ctx.Done():
			s.notify(StatusStopped)
			return
		case <-time.After(delay):
		}
	}
}

// backoffDelay computes the wait before reconnect attempt n (1-based):
// base, then doubling up to the cap, plus up to 25% jitter.
func (s *Stream) backoffDelay(n int) time.Duration {
	delay := s.cfg.ReconnectBase
	for i := 1; i < n; i++ {
		delay *= 2
		if delay >= s.cfg.ReconnectMax {
			delay = s.cfg.ReconnectMax
			break
		}
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}

// heartbeatProbe is decoded first to filter keepalive frames before
// the full record is parsed.
type heartbeatProbe struct {
	Type string `json:"type"`
}

// eventWire mirrors the backend's SSE payload. CreatedAt is parsed
// defensively; see model.ParseTimestamp.
type eventWire struct {
	ID        int    `json:"ID"`
	UserID    int    `json:"UserID"`
	Message   string `json:"Message"`
	Type      string `json:"Type"`
	IsRead    bool   `json:"IsRead"`
	CreatedAt string `json:"CreatedAt"`
}

// consume opens one connection and reads frames until it fails or ctx
// is cancelled. onConnected runs once after the server accepts the
// stream.
func (s *Stream) consume(
	ctx context.Context,
	userID int,
	onEvent func(model.Notification),
	onConnected func(),
) error {
	streamURL := fmt.Sprintf(
		"%s/notifications/%d/stream?token=%s",
		s.baseURL, userID, url.QueryEscape(s.session.Token),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return fmt.Errorf("creating stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream rejected with status %d", resp.StatusCode)
	}

	onConnected()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			// Blank keepalive lines and SSE field names we do not
			// use (event:, id:, retry:).
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var probe heartbeatProbe
		if err := json.Unmarshal([]byte(payload), &probe); err != nil {
			s.logger.Warn("discarding undecodable stream frame",
				zap.String("payload", payload),
				zap.Error(err),
			)
			continue
		}
		if probe.Type == "heartbeat" {
			continue
		}

		var wire eventWire
		if err := json.Unmarshal([]byte(payload), &wire); err != nil {
			s.logger.Warn("discarding malformed notification frame",
				zap.String("payload", payload),
				zap.Error(err),
			)
			continue
		}

		ts, tsErr := model.ParseTimestamp(wire.CreatedAt)
		if tsErr != nil {
			s.logger.Warn("falling back on malformed notification timestamp",
				zap.Int("id", wire.ID),
				zap.String("created_at", wire.CreatedAt),
				zap.Error(tsErr),
			)
		}

		onEvent(model.Notification{
			ID:        wire.ID,
			UserID:    wire.UserID,
			Message:   wire.Message,
			Type:      wire.Type,
			IsRead:    wire.IsRead,
			CreatedAt: ts,
		})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return fmt.Errorf("stream closed by server")
}

// notify invokes the status callback when one is registered.
func (s *Stream) notify(status Status) {
	if s.OnStatus != nil {
		s.OnStatus(status)
	}
}
