package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/tenpin/tenpin/pkg/types"
	"github.com/tenpin/tenpin/scorer/internal/config"
)

const (
	backoffInitial    = 200 * time.Millisecond
	backoffMax        = 5 * time.Second
	backoffMultiplier = 2.0
	sendTimeout       = 10 * time.Second
	maxAttempts       = 5
)

// ErrGameChanged is returned when the lane's game ID differs from the one the
// replay started.
var ErrGameChanged = errors.New("replay: lane game changed during replay")

// StatusError is a non-2xx answer from the lane server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("replay: lane returned HTTP %d: %s", e.Code, e.Message)
}

// Client talks to one lane server.
type Client struct {
	endpoint string
	header   string
	key      string
	http     *http.Client
	sleep    func(ctx context.Context, d time.Duration) error // injectable for tests
}

// New creates a Client for the lane described by cfg.
func New(cfg config.LaneConfig) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		header:   cfg.Auth.EffectiveHeader(),
		key:      cfg.Auth.Key(),
		http:     &http.Client{Timeout: sendTimeout},
		sleep:    sleepCtx,
	}
}

// Replay resets the lane and records rolls on it, returning the lane's game
// after the last roll.
func (c *Client) Replay(ctx context.Context, rolls []int) (types.GameSnapshot, error) {
	var snap types.GameSnapshot
	err := c.retry(ctx, "reset", func() error {
		var err error
		snap, err = c.do(ctx, http.MethodPost, "/api/v1/reset", nil)
		return err
	})
	if err != nil {
		return snap, err
	}
	gameID := snap.GameID
	slog.Info("replay: lane reset", "endpoint", c.endpoint, "game_id", gameID, "rolls", len(rolls))

	for i, pins := range rolls {
		snap, err = c.roll(ctx, gameID, i+1, pins)
		if err != nil {
			return snap, fmt.Errorf("roll %d: %w", i+1, err)
		}
	}

	slog.Info("replay: done", "game_id", gameID, "score", snap.Score, "complete", snap.Complete)
	return snap, nil
}

// roll records the n-th roll of game gameID.
func (c *Client) roll(ctx context.Context, gameID string, n, pins int) (types.GameSnapshot, error) {
	var snap types.GameSnapshot
	attempt := 0
	err := c.retry(ctx, "roll", func() error {
		attempt++
		if attempt > 1 {
			// A lost response may hide a roll the lane already recorded.
			cur, err := c.do(ctx, http.MethodGet, "/api/v1/game", nil)
			if err != nil {
				return err
			}
			if cur.GameID != gameID {
				return ErrGameChanged
			}
			if len(cur.Rolls) >= n {
				snap = cur
				return nil
			}
		}

		var err error
		snap, err = c.do(ctx, http.MethodPost, "/api/v1/rolls", map[string]int{"pins": pins})
		if err == nil && snap.GameID != gameID {
			return ErrGameChanged
		}
		return err
	})
	return snap, err
}

// retry calls fn until it succeeds, fails permanently, or maxAttempts is
// reached, backing off between attempts.
func (c *Client) retry(ctx context.Context, op string, fn func() error) error {
	bo := newBackoff()
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || ctx.Err() != nil || isPermanentError(err) || attempt == maxAttempts {
			return err
		}

		wait := bo.next()
		slog.Warn("replay: request failed, will retry",
			"op", op,
			"endpoint", c.endpoint,
			"attempt", attempt,
			"err", err,
			"retry_in", wait)
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// do sends one request and decodes the game snapshot in the response.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (types.GameSnapshot, error) {
	var snap types.GameSnapshot

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return snap, fmt.Errorf("replay: encode body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, rd)
	if err != nil {
		return snap, fmt.Errorf("replay: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set(c.header, c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return snap, fmt.Errorf("replay: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return snap, &StatusError{Code: resp.StatusCode, Message: e.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return snap, fmt.Errorf("replay: decode %s response: %w", path, err)
	}
	return snap, nil
}

// isPermanentError returns true for errors that retrying cannot fix.
func isPermanentError(err error) bool {
	if errors.Is(err, ErrGameChanged) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code < 500
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoff implements truncated exponential backoff with jitter.
type backoff struct {
	current time.Duration
}

func newBackoff() *backoff {
	return &backoff{current: backoffInitial}
}

// next returns the current backoff duration and advances the internal state.
func (b *backoff) next() time.Duration {
	d := b.current
	// Apply ±25 % jitter.
	jitter := time.Duration(float64(b.current) * 0.25 * (rand.Float64()*2 - 1)) //nolint:gosec // not crypto
	d += jitter
	if d < 0 {
		d = 0
	}

	b.current = time.Duration(float64(b.current) * backoffMultiplier)
	if b.current > backoffMax {
		b.current = backoffMax
	}
	return d
}
