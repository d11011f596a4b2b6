package fsops

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"organizer/internal/logging"
	"organizer/internal/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WalkEntry is one non-hidden item found below a walk root.
type WalkEntry struct {
	Rel  string // relative to the walk root, forward slashes
	Info FileInfo
}

// Walker traverses directory trees, fanning sibling subdirectories out
// across at most Parallelism goroutines.
type Walker struct {
	FS          FS
	Parallelism int
}

func (w Walker) limit() int {
	if w.Parallelism < 1 {
		return 1
	}
	return w.Parallelism
}

// Walk returns every non-hidden entry below root, sorted by Rel. Hidden
// directories are not descended into. Unreadable subdirectories are skipped;
// an unreadable root is an error.
func (w Walker) Walk(ctx context.Context, root string) ([]WalkEntry, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.limit())

	var (
		mu  sync.Mutex
		out []WalkEntry
	)

	var visit func(dir, rel string) error
	visit = func(dir, rel string) error {
		infos, err := w.FS.List(gctx, dir)
		if err != nil {
			if rel == "" || gctx.Err() != nil {
				return err
			}
			logging.Get(logging.CategoryFS).Debug("skipping unreadable directory",
				zap.String("dir", rel), zap.Error(err))
			return nil
		}

		local := make([]WalkEntry, 0, len(infos))
		for _, fi := range infos {
			if types.IsHidden(fi.Name) {
				continue
			}
			childRel := types.JoinPath(rel, fi.Name)
			local = append(local, WalkEntry{Rel: childRel, Info: fi})
			if !fi.IsDir {
				continue
			}
			childAbs := filepath.Join(dir, fi.Name)
			// Run inline when the pool is saturated so deep trees cannot deadlock.
			if !g.TryGo(func() error { return visit(childAbs, childRel) }) {
				if err := visit(childAbs, childRel); err != nil {
					return err
				}
			}
		}

		mu.Lock()
		out = append(out, local...)
		mu.Unlock()
		return nil
	}

	g.Go(func() error { return visit(root, "") })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out, nil
}

// TotalSize sums the sizes of all non-hidden files below root and counts
// them.
func (w Walker) TotalSize(ctx context.Context, root string) (int64, int, error) {
	entries, err := w.Walk(ctx, root)
	if err != nil {
		return 0, 0, err
	}
	var size int64
	files := 0
	for _, e := range entries {
		if e.Info.IsDir {
			continue
		}
		size += e.Info.Size
		files++
	}
	return size, files, nil
}
