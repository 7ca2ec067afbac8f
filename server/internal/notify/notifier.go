package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tenpin/tenpin/pkg/types"
	"github.com/tenpin/tenpin/server/internal/config"
	"github.com/tenpin/tenpin/server/internal/lane"
)

// KindGameComplete is the only event kind today.
const KindGameComplete = "game_complete"

// perfectScore is twelve strikes.
const perfectScore = 300

// Event is one notification produced by the Notifier.
type Event struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	GameID  string    `json:"game_id"`
	Score   int       `json:"score"`
	Rolls   []int     `json:"rolls"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier watches a lane and delivers an Event to every webhook when a game
// completes.
//
// Notifier is safe for concurrent use.
type Notifier struct {
	lane     *lane.Lane
	webhooks []config.WebhookConfig
	client   *http.Client

	mu       sync.Mutex
	notified string // game ID of the last completed game
	wg       sync.WaitGroup
}

// New creates a Notifier. A Notifier with no webhooks still tracks
// completions and logs them.
func New(l *lane.Lane, webhooks []config.WebhookConfig) *Notifier {
	return &Notifier{
		lane:     l,
		webhooks: webhooks,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Run evaluates every game the lane completes until ctx is cancelled, then
// waits for in-flight deliveries. The lane hands over each completed game's
// final snapshot, so a Reset right after the last roll still notifies.
func (n *Notifier) Run(ctx context.Context) {
	stop := n.lane.OnComplete(func(snap types.GameSnapshot) { n.Evaluate(snap) })
	defer n.wg.Wait()
	defer stop()

	// A game completed before Run started.
	n.Evaluate(n.lane.Snapshot())
	<-ctx.Done()
}

// Evaluate fires a KindGameComplete event the first time it sees snap's game
// complete. It reports whether an event fired.
func (n *Notifier) Evaluate(snap types.GameSnapshot) bool {
	if !snap.Complete {
		return false
	}

	n.mu.Lock()
	if n.notified == snap.GameID {
		n.mu.Unlock()
		return false
	}
	n.notified = snap.GameID
	n.mu.Unlock()

	ev := newEvent(snap)
	slog.Info("game complete", "game_id", ev.GameID, "score", ev.Score)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(&ev)
	}()
	return true
}

// Wait blocks until all deliveries started so far have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func newEvent(snap types.GameSnapshot) Event {
	msg := fmt.Sprintf("Game %s complete: %d", snap.GameID, snap.Score)
	if snap.Score == perfectScore {
		msg += " (perfect game)"
	}
	return Event{
		ID:      uuid.NewString(),
		Kind:    KindGameComplete,
		GameID:  snap.GameID,
		Score:   snap.Score,
		Rolls:   snap.Rolls,
		Message: msg,
		At:      time.Now().UTC(),
	}
}
