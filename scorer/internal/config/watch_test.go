package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "games.txt")
	other := filepath.Join(dir, "other.txt")
	for _, p := range []string{target, other} {
		if err := os.WriteFile(p, []byte("1 2\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{target}, func(path string) { changed <- path })
	}()

	// The watcher is registered asynchronously; keep writing until an event
	// arrives. Writes to other.txt must never be reported.
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()

	want, err := filepath.Abs(target)
	if err != nil {
		t.Fatal(err)
	}
	for {
		select {
		case got := <-changed:
			if got != want {
				t.Fatalf("onChange path = %q, want %q", got, want)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch() error = %v", err)
			}
			return
		case <-tick.C:
			_ = os.WriteFile(other, []byte("3 4\n"), 0o600)
			_ = os.WriteFile(target, []byte("X X X\n"), 0o600)
		case <-deadline:
			t.Fatal("timed out waiting for change notification")
		}
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "games.txt")
	err := Watch(context.Background(), []string{missing}, func(string) {})
	if err == nil {
		t.Fatal("expected error watching a missing directory, got nil")
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "games.txt")
	if err := Watch(ctx, []string{path}, func(string) {}); err != nil {
		t.Fatalf("Watch() with cancelled ctx error = %v", err)
	}
}
