package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDebounceEvents_CoalescesBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := make(chan string)
	output := make(chan struct{}, 1)
	go debounceEvents(ctx, input, output, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		input <- "pdf/SKILL.md"
	}

	select {
	case <-output:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a trigger after the burst")
	}

	select {
	case <-output:
		t.Error("burst should produce a single trigger")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDebounceEvents_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	input := make(chan string)
	output := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		debounceEvents(ctx, input, output, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounceEvents did not return after cancel")
	}
}

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"pdf", "xlsx", ".git"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := watchDirs(root)
	want := []string{root, filepath.Join(root, "pdf"), filepath.Join(root, "xlsx")}
	if len(got) != len(want) {
		t.Fatalf("watchDirs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("watchDirs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if dirs := watchDirs(filepath.Join(root, "missing")); dirs != nil {
		t.Errorf("missing root = %v, want nil", dirs)
	}
}

func TestIgnoreEvent(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/s/pdf/SKILL.md", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/s/pdf/SKILL.md", Op: fsnotify.Chmod}, true},
		{fsnotify.Event{Name: "/s/pdf/.SKILL.md.123.tmp", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/s/new-skill", Op: fsnotify.Create}, false},
	}
	for _, tc := range tests {
		if got := ignoreEvent(tc.event); got != tc.want {
			t.Errorf("ignoreEvent(%v) = %v, want %v", tc.event, got, tc.want)
		}
	}
}
