//go:build !linux

package fsops

import (
	"io/fs"
	"time"
)

func createdAt(fi fs.FileInfo) time.Time {
	return fi.ModTime()
}
