package fsops

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"organizer/internal/logging"
	"organizer/internal/sandbox"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// Workspace is the sandboxed view of the filesystem used by the executor.
// Every method takes workspace-relative paths, resolves them through the
// guard and re-checks them immediately before mutating. Mutations
// invalidate the listing cache.
type Workspace struct {
	guard   *sandbox.Guard
	fs      FS
	walker  Walker
	cache   *ListingCache
	watcher *Watcher
}

// NewWorkspace wires a guard and a filesystem. parallelism bounds
// concurrent sibling walks.
func NewWorkspace(guard *sandbox.Guard, fsys FS, parallelism int) *Workspace {
	if fsys == nil {
		fsys = OS{}
	}
	return &Workspace{
		guard:  guard,
		fs:     fsys,
		walker: Walker{FS: fsys, Parallelism: parallelism},
		cache:  NewListingCache(),
	}
}

// EnableWatch starts an fsnotify watcher that invalidates cached listings
// when directories change outside the pipeline.
func (w *Workspace) EnableWatch(ctx context.Context) error {
	if w.watcher != nil {
		return nil
	}
	watcher, err := NewWatcher(func(p string) {
		if w.guard.Inside(p) {
			w.cache.Invalidate(w.guard.Rel(p))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	watcher.Start(ctx)
	watcher.Watch(w.guard.Root())
	w.watcher = watcher
	return nil
}

// Close stops the watcher, if any.
func (w *Workspace) Close() {
	if w.watcher != nil {
		w.watcher.Stop()
		w.watcher = nil
	}
}

// Guard returns the sandbox guard.
func (w *Workspace) Guard() *sandbox.Guard { return w.guard }

// Cache returns the listing cache.
func (w *Workspace) Cache() *ListingCache { return w.cache }

// Root returns the absolute sandbox root.
func (w *Workspace) Root() string { return w.guard.Root() }

// List reads the immediate non-hidden children of dir from disk and
// refreshes the cache.
func (w *Workspace) List(ctx context.Context, dir string) ([]types.DirectoryEntry, error) {
	dir = sandbox.Clean(dir)
	abs, err := w.guard.Resolve(dir)
	if err != nil {
		return nil, err
	}
	infos, err := w.fs.List(ctx, abs)
	if err != nil {
		return nil, w.translate("list", dir, err)
	}
	entries := make([]types.DirectoryEntry, 0, len(infos))
	for _, fi := range infos {
		if types.IsHidden(fi.Name) {
			continue
		}
		entries = append(entries, toEntry(dir, fi))
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	w.cache.Put(dir, entries)
	if w.watcher != nil {
		w.watcher.Watch(abs)
	}
	return entries, nil
}

// Cached returns the cached listing of dir, reading it from disk on a miss.
func (w *Workspace) Cached(ctx context.Context, dir string) ([]types.DirectoryEntry, error) {
	dir = sandbox.Clean(dir)
	if entries, ok := w.cache.Get(dir); ok {
		return entries, nil
	}
	return w.List(ctx, dir)
}

// Stat returns stat data for rel.
func (w *Workspace) Stat(ctx context.Context, rel string) (FileInfo, error) {
	rel = sandbox.Clean(rel)
	abs, err := w.guard.Resolve(rel)
	if err != nil {
		return FileInfo{}, err
	}
	fi, err := w.fs.Stat(ctx, abs)
	if err != nil {
		return FileInfo{}, w.translate("stat", rel, err)
	}
	return fi, nil
}

// Exists reports whether rel can be stat'ed.
func (w *Workspace) Exists(ctx context.Context, rel string) bool {
	_, err := w.Stat(ctx, rel)
	return err == nil
}

// Mkdir creates rel. Without recursive an existing entry is an error.
func (w *Workspace) Mkdir(ctx context.Context, rel string, recursive bool) error {
	rel = sandbox.Clean(rel)
	abs, err := w.mutationTarget("mkdir", rel)
	if err != nil {
		return err
	}
	defer w.cache.Invalidate(rel)
	return w.translate("mkdir", rel, w.fs.Mkdir(ctx, abs, recursive))
}

// Move renames from to to, creating missing parent directories of to. It
// refuses to replace an existing destination or to move a directory into
// itself.
func (w *Workspace) Move(ctx context.Context, from, to string) error {
	from, to = sandbox.Clean(from), sandbox.Clean(to)
	src, dst, err := w.pair("move", from, to)
	if err != nil {
		return err
	}
	if _, err := w.fs.Stat(ctx, src); err != nil {
		return w.translate("move", from, err)
	}
	if from == to {
		return nil
	}
	if strings.HasPrefix(to, from+"/") {
		return types.InvalidArgument("move", "cannot move %s into itself", from)
	}
	if _, err := w.fs.Stat(ctx, dst); err == nil {
		return types.InvalidArgument("move", "destination %s already exists", to)
	}
	if err := w.fs.Mkdir(ctx, filepath.Dir(dst), true); err != nil {
		return w.translate("move", types.ParentPath(to), err)
	}
	defer w.cache.Invalidate(from, to)
	return w.translate("move", from, w.fs.Rename(ctx, src, dst))
}

// Copy duplicates from at to, recursively for directories.
func (w *Workspace) Copy(ctx context.Context, from, to string) error {
	from, to = sandbox.Clean(from), sandbox.Clean(to)
	src, dst, err := w.pair("copy", from, to)
	if err != nil {
		return err
	}
	if _, err := w.fs.Stat(ctx, src); err != nil {
		return w.translate("copy", from, err)
	}
	if strings.HasPrefix(to, from+"/") || from == to {
		return types.InvalidArgument("copy", "cannot copy %s onto itself", from)
	}
	if _, err := w.fs.Stat(ctx, dst); err == nil {
		return types.InvalidArgument("copy", "destination %s already exists", to)
	}
	if err := w.fs.Mkdir(ctx, filepath.Dir(dst), true); err != nil {
		return w.translate("copy", types.ParentPath(to), err)
	}
	defer w.cache.Invalidate(to)
	return w.translate("copy", from, w.fs.CopyRecursive(ctx, src, dst))
}

// Remove deletes rel: recursively for directories, a single unlink for
// files. The root itself cannot be removed.
func (w *Workspace) Remove(ctx context.Context, rel string) (FileInfo, error) {
	rel = sandbox.Clean(rel)
	if rel == "" {
		return FileInfo{}, types.InvalidArgument("delete", "refusing to delete the workspace root")
	}
	abs, err := w.mutationTarget("delete", rel)
	if err != nil {
		return FileInfo{}, err
	}
	fi, err := w.fs.Stat(ctx, abs)
	if err != nil {
		return FileInfo{}, w.translate("delete", rel, err)
	}
	defer w.cache.Invalidate(rel)
	if fi.IsDir {
		err = w.fs.RemoveRecursive(ctx, abs)
	} else {
		err = w.fs.Unlink(ctx, abs)
	}
	return fi, w.translate("delete", rel, err)
}

// ReadFile reads at most limit bytes of rel.
func (w *Workspace) ReadFile(ctx context.Context, rel string, limit int64) ([]byte, error) {
	rel = sandbox.Clean(rel)
	abs, err := w.guard.Resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := w.fs.ReadFile(ctx, abs, limit)
	if err != nil {
		return nil, w.translate("read", rel, err)
	}
	return data, nil
}

// Walk returns every non-hidden entry below dir with workspace-relative
// paths, sorted by path.
func (w *Workspace) Walk(ctx context.Context, dir string) ([]types.DirectoryEntry, error) {
	dir = sandbox.Clean(dir)
	abs, err := w.guard.Resolve(dir)
	if err != nil {
		return nil, err
	}
	found, err := w.walker.Walk(ctx, abs)
	if err != nil {
		return nil, w.translate("walk", dir, err)
	}
	out := make([]types.DirectoryEntry, 0, len(found))
	for _, f := range found {
		e := toEntry(types.ParentPath(types.JoinPath(dir, f.Rel)), f.Info)
		out = append(out, e)
	}
	logging.Get(logging.CategoryFS).Debug("walk", zap.String("dir", dir), zap.Int("entries", len(out)))
	return out, nil
}

// TotalSize sums all non-hidden file sizes below rel. For a file it is the
// file's own size.
func (w *Workspace) TotalSize(ctx context.Context, rel string) (int64, int, error) {
	rel = sandbox.Clean(rel)
	fi, err := w.Stat(ctx, rel)
	if err != nil {
		return 0, 0, err
	}
	if !fi.IsDir {
		return fi.Size, 1, nil
	}
	abs, err := w.guard.Resolve(rel)
	if err != nil {
		return 0, 0, err
	}
	size, files, err := w.walker.TotalSize(ctx, abs)
	if err != nil {
		return 0, 0, w.translate("size", rel, err)
	}
	return size, files, nil
}

// mutationTarget resolves rel and performs the pre-mutation sandbox check.
func (w *Workspace) mutationTarget(op, rel string) (string, error) {
	abs, err := w.guard.Resolve(rel)
	if err != nil {
		return "", err
	}
	if err := w.guard.Check(abs); err != nil {
		return "", &types.Error{Kind: types.ErrAccessDenied, Op: op, Path: rel}
	}
	return abs, nil
}

func (w *Workspace) pair(op, from, to string) (string, string, error) {
	if from == "" {
		return "", "", types.InvalidArgument(op, "source must not be the workspace root")
	}
	if to == "" {
		return "", "", types.InvalidArgument(op, "destination must not be the workspace root")
	}
	src, err := w.mutationTarget(op, from)
	if err != nil {
		return "", "", err
	}
	dst, err := w.mutationTarget(op, to)
	if err != nil {
		return "", "", err
	}
	return src, dst, nil
}

// translate maps OS errors onto the taxonomy and strips absolute paths.
func (w *Workspace) translate(op, rel string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return types.NotFound(op, displayPath(rel), nil)
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		err = le.Err
	}
	return fmt.Errorf("%s %s: %w", op, displayPath(rel), err)
}

func displayPath(rel string) string {
	if rel == "" {
		return "/"
	}
	return rel
}

func toEntry(parent string, fi FileInfo) types.DirectoryEntry {
	mod := fi.ModTime
	e := types.DirectoryEntry{
		Name:       fi.Name,
		Path:       types.JoinPath(parent, fi.Name),
		Type:       types.EntryFile,
		ModifiedAt: &mod,
	}
	if fi.IsDir {
		e.Type = types.EntryDirectory
	} else {
		e.Size = fi.Size
	}
	return e
}
