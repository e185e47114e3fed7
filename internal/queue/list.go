package queue

import "strings"

func (q *implQueue) Get() ([]string, error) {
	return readLines(q.paths.Queue)
}

func (q *implQueue) Append(path string) (bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return false, nil
	}

	current, err := q.processingPath()
	if err != nil {
		return false, err
	}
	if current == path {
		return false, nil
	}

	changed := false
	err = withLock(q.paths.Queue, func() error {
		lines, err := readLines(q.paths.Queue)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if l == path {
				return nil
			}
		}
		changed = true
		return writeLines(q.paths.Queue, append(lines, path))
	})
	return changed, err
}

func (q *implQueue) Set(paths []string) error {
	var clean []string
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	return withLock(q.paths.Queue, func() error {
		return writeLines(q.paths.Queue, clean)
	})
}

func (q *implQueue) PeekHead() (string, bool, error) {
	lines, err := readLines(q.paths.Queue)
	if err != nil {
		return "", false, err
	}
	if len(lines) == 0 {
		return "", false, nil
	}
	return lines[0], true, nil
}

func (q *implQueue) PopHead() (string, bool, error) {
	var head string
	var ok bool
	err := withLock(q.paths.Queue, func() error {
		lines, err := readLines(q.paths.Queue)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		if err := writeLines(q.paths.Queue, lines[1:]); err != nil {
			return err
		}
		head, ok = lines[0], true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return head, ok, nil
}
