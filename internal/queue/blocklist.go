package queue

import "strings"

func (q *implQueue) Block(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return withLock(q.paths.Blocklist, func() error {
		lines, err := readLines(q.paths.Blocklist)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if l == path {
				return nil
			}
		}
		return writeLines(q.paths.Blocklist, append(lines, path))
	})
}

func (q *implQueue) Blocked() (map[string]bool, error) {
	lines, err := readLines(q.paths.Blocklist)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(lines))
	for _, l := range lines {
		set[l] = true
	}
	return set, nil
}
