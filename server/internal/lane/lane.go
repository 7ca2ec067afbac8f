package lane

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tenpin/tenpin/pkg/bowling"
	"github.com/tenpin/tenpin/pkg/types"
)

// Lane is a thread-safe holder for the game currently being bowled.
type Lane struct {
	mu        sync.RWMutex
	id        string
	game      *bowling.Game
	startedAt time.Time
	version   uint64
	opts      []bowling.Option

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
	hooks map[*func(types.GameSnapshot)]struct{}

	now   func() time.Time // injectable for deterministic tests
	newID func() string
}

// New creates a Lane with an empty game. opts are applied to this game and
// to every game started by Reset.
func New(opts ...bowling.Option) *Lane {
	l := &Lane{
		opts:  opts,
		subs:  make(map[chan struct{}]struct{}),
		hooks: make(map[*func(types.GameSnapshot)]struct{}),
		now:   time.Now,
		newID: uuid.NewString,
	}
	l.start()
	return l
}

// start replaces the game. Callers hold mu, except New.
func (l *Lane) start() {
	l.id = l.newID()
	l.game = bowling.NewGame(l.opts...)
	l.startedAt = l.now()
}

// Roll records pins on the current game. On error nothing changes and no
// subscriber is notified. The roll that completes a game runs the OnComplete
// hooks with that game's final snapshot.
func (l *Lane) Roll(pins int) (types.GameSnapshot, error) {
	l.mu.Lock()
	wasComplete := l.game.Complete()
	if err := l.game.Roll(pins); err != nil {
		l.mu.Unlock()
		return types.GameSnapshot{}, err
	}
	l.version++
	snap := l.snapshotLocked()
	l.mu.Unlock()

	slog.Debug("lane: roll recorded", "game_id", snap.GameID, "pins", pins, "score", snap.Score)
	if snap.Complete && !wasComplete {
		l.completed(snap)
	}
	l.notify()
	return snap, nil
}

// Reset discards the current game and starts a new one with a new ID.
func (l *Lane) Reset() types.GameSnapshot {
	l.mu.Lock()
	prev := l.id
	l.start()
	l.version++
	snap := l.snapshotLocked()
	l.mu.Unlock()

	slog.Info("lane: game reset", "previous_id", prev, "game_id", snap.GameID)
	l.notify()
	return snap
}

// Snapshot returns the current game.
func (l *Lane) Snapshot() types.GameSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

func (l *Lane) snapshotLocked() types.GameSnapshot {
	return types.NewGameSnapshot(l.id, l.version, l.startedAt, l.game)
}

// Score returns the current score and whether the game is complete.
func (l *Lane) Score() (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.game.Score(), l.game.Complete()
}

// Strict reports whether games on this lane reject frame totals over 10.
func (l *Lane) Strict() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.game.Strict()
}

// Subscribe returns a channel that receives a value after each change and a
// func that cancels the subscription. Notifications coalesce: a subscriber
// that has not drained the previous one sees a single pending value, so it
// should read Snapshot rather than count notifications.
func (l *Lane) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	l.subMu.Lock()
	l.subs[ch] = struct{}{}
	l.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.subs, ch)
			l.subMu.Unlock()
		})
	}
}

// OnComplete registers fn to run once for every game that completes on this
// lane, with the snapshot taken by the completing roll. fn runs on the
// rolling goroutine and must not block. The returned func unregisters it.
func (l *Lane) OnComplete(fn func(types.GameSnapshot)) func() {
	key := &fn
	l.subMu.Lock()
	l.hooks[key] = struct{}{}
	l.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.hooks, key)
			l.subMu.Unlock()
		})
	}
}

func (l *Lane) completed(snap types.GameSnapshot) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for fn := range l.hooks {
		(*fn)(snap)
	}
}

func (l *Lane) notify() {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for ch := range l.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
