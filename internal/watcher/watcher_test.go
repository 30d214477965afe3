// file: internal/watcher/watcher_test.go
// version: 1.0.0
// guid: 5a1c7e93-0b4d-4f28-8c61-d9e5f3a7b026

package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_FiresAfterDebounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entities.yaml")
	if err := os.WriteFile(path, []byte("entities: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	w := New(path, func(string) { fired.Add(1) }, 50*time.Millisecond)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Burst of writes should collapse into one callback.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("entities: []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if got := fired.Load(); got != 1 {
		t.Errorf("callback fired %d times, want 1", got)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entities.yaml")
	if err := os.WriteFile(path, []byte("entities: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	w := New(path, func(string) { fired.Add(1) }, 30*time.Millisecond)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("callback fired %d times for an unrelated file, want 0", got)
	}
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entities.yaml")
	if err := os.WriteFile(path, []byte("entities: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := New(path, func(string) {}, 0)
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want default %v", w.debounce, DefaultDebounce)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Errorf("second Start should be a no-op, got %v", err)
	}
	w.Stop()
	w.Stop()
}
