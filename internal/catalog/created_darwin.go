package catalog

import (
	"os"
	"syscall"
	"time"
)

// createdAt returns the birth time recorded by the filesystem.
func createdAt(path string, info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Birthtimespec.Unix())
}
