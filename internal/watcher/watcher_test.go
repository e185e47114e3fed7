package watcher

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/nguyentantai21042004/atci/internal/logger"
	"github.com/nguyentantai21042004/atci/internal/queue"
)

func newQueue(t *testing.T) queue.Queue {
	t.Helper()
	state := t.TempDir()
	return queue.New(queue.Paths{
		Queue:      filepath.Join(state, ".queue"),
		Processing: filepath.Join(state, ".currently_processing"),
		Blocklist:  filepath.Join(state, ".blocklist"),
		Cancel:     filepath.Join(state, ".commands", "CANCEL"),
	})
}

func writeFile(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestScanOnce(t *testing.T) {
	root := t.TempDir()
	q := newQueue(t)

	ready := filepath.Join(root, "a", "ready.mp4")
	upper := filepath.Join(root, "UPPER.MKV")
	writeFile(t, ready, time.Minute)
	writeFile(t, upper, time.Minute)
	writeFile(t, filepath.Join(root, "copying.mp4"), 0)
	writeFile(t, filepath.Join(root, "done.mov"), time.Minute)
	writeFile(t, filepath.Join(root, "done.txt"), time.Minute)
	writeFile(t, filepath.Join(root, "blocked.avi"), time.Minute)
	writeFile(t, filepath.Join(root, "notes.pdf"), time.Minute)

	if err := q.Block(filepath.Join(root, "blocked.avi")); err != nil {
		t.Fatal(err)
	}

	w, err := New(Options{Roots: []string{root, filepath.Join(root, "missing")}}, q, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	n, err := w.ScanOnce(context.Background())
	if err != nil {
		t.Fatalf("ScanOnce() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ScanOnce() = %d, want 2", n)
	}

	got, _ := q.Get()
	want := []string{upper, ready}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("queue = %v, want %v", got, want)
	}

	n, err = w.ScanOnce(context.Background())
	if err != nil || n != 0 {
		t.Errorf("second ScanOnce() = %d, %v; want 0, nil", n, err)
	}
}

func TestScanOnceSkipsProcessing(t *testing.T) {
	root := t.TempDir()
	q := newQueue(t)
	video := filepath.Join(root, "busy.mp4")
	writeFile(t, video, time.Minute)
	if err := q.MarkProcessing(video); err != nil {
		t.Fatal(err)
	}

	w, err := New(Options{Roots: []string{root}}, q, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if n, _ := w.ScanOnce(context.Background()); n != 0 {
		t.Errorf("ScanOnce() = %d, want 0 for the in-flight video", n)
	}
}

func TestQuietPeriodElapses(t *testing.T) {
	root := t.TempDir()
	q := newQueue(t)
	video := filepath.Join(root, "fresh.webm")
	writeFile(t, video, 0)

	w, err := New(Options{Roots: []string{root}}, q, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	impl := w.(*implWatcher)

	if n, _ := w.ScanOnce(context.Background()); n != 0 {
		t.Fatalf("fresh file enqueued")
	}

	impl.now = func() time.Time { return time.Now().Add(DefaultQuietPeriod) }
	if n, _ := w.ScanOnce(context.Background()); n != 1 {
		t.Errorf("ScanOnce() = %d after the quiet period, want 1", n)
	}
}

func TestStartPicksUpNewFiles(t *testing.T) {
	root := t.TempDir()
	q := newQueue(t)

	w, err := New(Options{
		Roots:       []string{root},
		Interval:    20 * time.Millisecond,
		QuietPeriod: time.Millisecond,
	}, q, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	video := filepath.Join(root, "sub", "new.mp4")
	writeFile(t, video, time.Second)

	deadline := time.Now().Add(3 * time.Second)
	for {
		got, _ := q.Get()
		if len(got) == 1 && got[0] == video {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("queue = %v, want [%s]", got, video)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return")
	}
}
