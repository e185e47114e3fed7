package catalog

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// createdAt returns the birth time of path, falling back to the inode change
// time on filesystems that do not record one.
func createdAt(path string, info os.FileInfo) time.Time {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME|unix.STATX_CTIME, &stx); err != nil {
		return info.ModTime()
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return time.Unix(stx.Ctime.Sec, int64(stx.Ctime.Nsec))
}
