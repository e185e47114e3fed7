package processor

import "context"

// semaphore bounds how many hook processes run at once
type semaphore struct {
	ch chan struct{}
}

// newSemaphore creates a new semaphore with the given capacity
func newSemaphore(capacity int) *semaphore {
	return &semaphore{
		ch: make(chan struct{}, capacity),
	}
}

// acquire takes a slot, giving up when ctx is done
func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release returns a slot
func (s *semaphore) release() {
	<-s.ch
}

// inUse reports the number of held slots
func (s *semaphore) inUse() int {
	return len(s.ch)
}
