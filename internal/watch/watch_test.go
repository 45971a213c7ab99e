package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcher_DeliversWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o600); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	w, err := New(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 4)
	go func() { _ = w.Run(ctx, events) }()

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.py"), []byte("y = 2\n"), 0o600); err != nil {
		t.Fatalf("Failed to write other file: %v", err)
	}
	if err := os.WriteFile(path, []byte("x = 2\n"), 0o600); err != nil {
		t.Fatalf("Failed to rewrite source: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Err != nil {
			t.Fatalf("Unexpected watch error: %v", ev.Err)
		}
		if ev.Content != "x = 2\n" {
			t.Errorf("Expected reloaded content, got %q", ev.Content)
		}
		if ev.Path != w.Path() {
			t.Errorf("Expected path %s, got %s", w.Path(), ev.Path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for reload event")
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o600); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	w, err := New(path, 0, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, make(chan Event)) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNew_MissingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope.py"), 0, nil); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadSource(dir); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("Expected directory error, got %v", err)
	}

	path := filepath.Join(dir, "big.py")
	if err := os.WriteFile(path, make([]byte, MaxSourceSize+1), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := ReadSource(path); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("Expected size error, got %v", err)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"main.py", false},
		{"", true},
		{"/proc/self/environ", true},
		{"/dev/zero", true},
	}
	for _, tt := range tests {
		if err := ValidatePath(tt.path); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error=%v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}
