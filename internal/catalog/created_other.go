//go:build !linux && !darwin

package catalog

import (
	"os"
	"time"
)

func createdAt(path string, info os.FileInfo) time.Time {
	return info.ModTime()
}
