// Package instance keeps one long-running atci process per configuration
// file by way of PID files in the state directory.
package instance

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrPeerRunning is returned by Acquire when another live process holds the
// same configuration.
var ErrPeerRunning = errors.New("another atci instance is running with this configuration")

// Lock is the PID file set for one configuration path.
type Lock struct {
	dir    string
	prefix string
	pid    int
	held   string
}

// New returns the lock for configPath with PID files kept in dir.
func New(dir, configPath string) *Lock {
	if abs, err := filepath.Abs(configPath); err == nil {
		configPath = abs
	}
	sum := sha256.Sum256([]byte(configPath))
	return &Lock{
		dir:    dir,
		prefix: "atci." + hex.EncodeToString(sum[:]) + ".",
		pid:    os.Getpid(),
	}
}

// FileName is the PID file name for pid.
func (l *Lock) FileName(pid int) string {
	return l.prefix + strconv.Itoa(pid) + ".pid"
}

// Peers returns the PIDs of other live processes using this configuration.
// PID files of dead processes are removed along the way.
func (l *Lock) Peers() ([]int, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pid dir: %w", err)
	}

	var peers []int
	for _, e := range entries {
		pid, ok := l.parse(e.Name())
		if !ok || pid == l.pid {
			continue
		}
		if alive(pid) {
			peers = append(peers, pid)
			continue
		}
		if err := os.Remove(filepath.Join(l.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reclaim stale pid file: %w", err)
		}
	}
	sort.Ints(peers)
	return peers, nil
}

// Acquire writes this process's PID file. With live peers it fails with
// ErrPeerRunning unless force is set, in which case the peers are asked to
// terminate and their files are removed.
func (l *Lock) Acquire(force bool) error {
	peers, err := l.Peers()
	if err != nil {
		return err
	}
	if len(peers) > 0 {
		if !force {
			return fmt.Errorf("%w (pid %v)", ErrPeerRunning, peers)
		}
		for _, pid := range peers {
			if err := terminate(pid); err != nil {
				return fmt.Errorf("take over from pid %d: %w", pid, err)
			}
			_ = os.Remove(filepath.Join(l.dir, l.FileName(pid)))
		}
	}

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("create pid dir: %w", err)
	}
	path := filepath.Join(l.dir, l.FileName(l.pid))
	if err := os.WriteFile(path, []byte(strconv.Itoa(l.pid)+"\n"), 0644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	l.held = path
	return nil
}

// Release removes the PID file written by Acquire.
func (l *Lock) Release() error {
	if l.held == "" {
		return nil
	}
	err := os.Remove(l.held)
	l.held = ""
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}

func (l *Lock) parse(name string) (int, bool) {
	if !strings.HasPrefix(name, l.prefix) || !strings.HasSuffix(name, ".pid") {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, l.prefix), ".pid"))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
