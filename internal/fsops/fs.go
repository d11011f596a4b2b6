// Package fsops is the filesystem capability behind the executor: raw
// primitives over absolute paths, recursive walks, and a sandboxed
// Workspace that validates, mutates and keeps the listing cache fresh.
package fsops

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileInfo is the subset of stat data the pipeline needs.
type FileInfo struct {
	Name      string
	IsDir     bool
	Size      int64
	ModTime   time.Time
	CreatedAt time.Time // birth time where available, otherwise inode change time
}

// FS performs filesystem primitives on absolute paths that the caller has
// already validated against the sandbox. It does no validation of its own.
type FS interface {
	List(ctx context.Context, dir string) ([]FileInfo, error)
	Stat(ctx context.Context, p string) (FileInfo, error)
	Mkdir(ctx context.Context, p string, recursive bool) error
	Rename(ctx context.Context, src, dst string) error
	CopyRecursive(ctx context.Context, src, dst string) error
	RemoveRecursive(ctx context.Context, p string) error
	Unlink(ctx context.Context, p string) error
	ReadFile(ctx context.Context, p string, limit int64) ([]byte, error)
}

// OS implements FS on the local disk.
type OS struct{}

var _ FS = OS{}

func infoFrom(fi fs.FileInfo) FileInfo {
	return FileInfo{
		Name:      fi.Name(),
		IsDir:     fi.IsDir(),
		Size:      fi.Size(),
		ModTime:   fi.ModTime(),
		CreatedAt: createdAt(fi),
	}
}

func (OS) List(ctx context.Context, dir string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]FileInfo, 0, len(des))
	for _, de := range des {
		fi, err := de.Info()
		if err != nil {
			// vanished between readdir and stat
			continue
		}
		out = append(out, infoFrom(fi))
	}
	return out, nil
}

func (OS) Stat(ctx context.Context, p string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		return FileInfo{}, err
	}
	return infoFrom(fi), nil
}

func (OS) Mkdir(ctx context.Context, p string, recursive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if recursive {
		return os.MkdirAll(p, 0755)
	}
	return os.Mkdir(p, 0755)
}

func (OS) Rename(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

// CopyRecursive copies a file byte-for-byte, or a directory tree. Existing
// destination files are never overwritten.
func (OS) CopyRecursive(ctx context.Context, src, dst string) error {
	root, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !root.IsDir() {
		return copyFile(src, dst, root.Mode().Perm())
	}
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(p, target, fi.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return out.Close()
}

func (OS) RemoveRecursive(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Lstat(p); err != nil {
		return err
	}
	return os.RemoveAll(p)
}

func (OS) Unlink(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Remove(p)
}

// ReadFile reads at most limit bytes (all of it when limit <= 0).
func (OS) ReadFile(ctx context.Context, p string, limit int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if limit <= 0 {
		return io.ReadAll(f)
	}
	return io.ReadAll(io.LimitReader(f, limit))
}
