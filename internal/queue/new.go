package queue

import "time"

// Paths locates the state files.
type Paths struct {
	Queue      string
	Processing string
	Blocklist  string
	Cancel     string
}

type implQueue struct {
	paths Paths
	now   func() time.Time
}

// New creates a new Queue backed by the files in p
func New(p Paths) Queue {
	return &implQueue{
		paths: p,
		now:   time.Now,
	}
}
