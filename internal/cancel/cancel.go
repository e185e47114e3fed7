// Package cancel implements the process-wide cancellation token: a sentinel
// file that other processes can create, paired with an in-process channel.
// Either form trips the token; Consume resets both.
package cancel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Token is safe for concurrent use.
type Token struct {
	path string

	mu   sync.Mutex
	done chan struct{}
}

// New returns a token backed by the sentinel file at path.
func New(path string) *Token {
	return &Token{
		path: path,
		done: make(chan struct{}),
	}
}

// Path returns the sentinel location.
func (t *Token) Path() string { return t.path }

// Cancelled reports whether the token has been tripped in this process or
// the sentinel file exists on disk.
func (t *Token) Cancelled() bool {
	select {
	case <-t.Done():
		return true
	default:
	}

	if _, err := os.Stat(t.path); err == nil {
		t.closeDone()
		return true
	}
	return false
}

// Done is closed when the token trips in this process. A filesystem trip is
// only observed once Cancelled has been polled.
func (t *Token) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Trip creates the sentinel and closes the in-process channel.
func (t *Token) Trip() error {
	if err := Request(t.path); err != nil {
		return err
	}
	t.closeDone()
	return nil
}

// Consume removes the sentinel and re-arms the token.
func (t *Token) Consume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.Remove(t.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cancel sentinel: %w", err)
	}
	select {
	case <-t.done:
		t.done = make(chan struct{})
	default:
	}
	return nil
}

func (t *Token) closeDone() {
	t.mu.Lock()
	defer t.mu.Unlock()
	select {
	case <-t.done:
	default:
		close(t.done)
	}
}

// Request creates the sentinel at path. It is what an operator-facing
// process calls when it does not own a Token.
func Request(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create commands dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create cancel sentinel: %w", err)
	}
	return f.Close()
}
