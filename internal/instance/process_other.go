//go:build !unix

package instance

import "os"

func alive(pid int) bool {
	_, err := os.FindProcess(pid)
	return err == nil
}

func terminate(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
