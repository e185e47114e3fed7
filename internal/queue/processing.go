package queue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/nguyentantai21042004/atci/internal/cancel"
)

func (q *implQueue) MarkProcessing(path string) error {
	if err := writeFileAtomic(q.paths.Processing, []byte(path+"\n")); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	return nil
}

func (q *implQueue) ClearProcessing() error {
	if err := os.Remove(q.paths.Processing); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear processing: %w", err)
	}
	return nil
}

func (q *implQueue) Status() (Status, error) {
	info, err := os.Stat(q.paths.Processing)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Status{}, nil
		}
		return Status{}, fmt.Errorf("stat processing: %w", err)
	}

	path, err := q.processingPath()
	if err != nil {
		return Status{}, err
	}

	age := q.now().Sub(info.ModTime())
	if age < 0 {
		age = 0
	}
	return Status{Path: path, Processing: true, Age: age}, nil
}

func (q *implQueue) processingPath() (string, error) {
	data, err := os.ReadFile(q.paths.Processing)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read processing: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (q *implQueue) Cancel() error {
	return cancel.Request(q.paths.Cancel)
}
