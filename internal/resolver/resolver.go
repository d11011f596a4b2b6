// Package resolver maps fuzzy user phrases ("the docs folder", "report")
// onto real directory entries.
package resolver

import (
	"context"
	"strings"

	"organizer/internal/logging"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// =============================================================================
// MATCH CASCADE
// =============================================================================

// Kind restricts which entries may match.
type Kind int

const (
	AnyKind Kind = iota
	DirOnly
	FileOnly
)

func (k Kind) admits(e types.DirectoryEntry) bool {
	switch k {
	case DirOnly:
		return e.IsDir()
	case FileOnly:
		return !e.IsDir()
	default:
		return true
	}
}

// Options tune a single resolution.
type Options struct {
	Kind        Kind
	NoSubstring bool // skip the "name contains phrase" strategy
}

// Strategy is one tier of the cascade. phrase is already lowercased and
// slash-normalized.
type Strategy struct {
	Name      string
	Substring bool
	Match     func(phrase string, e types.DirectoryEntry) bool
}

// Strategies is the cascade in priority order; the first strategy with any
// hit wins, and within a strategy the first candidate wins.
var Strategies = []Strategy{
	{
		Name: "exact_path",
		Match: func(phrase string, e types.DirectoryEntry) bool {
			return strings.ToLower(e.Path) == phrase
		},
	},
	{
		Name: "exact_name",
		Match: func(phrase string, e types.DirectoryEntry) bool {
			return strings.ToLower(e.Name) == phrase
		},
	},
	{
		Name:      "name_contains",
		Substring: true,
		Match: func(phrase string, e types.DirectoryEntry) bool {
			return strings.Contains(strings.ToLower(e.Name), phrase)
		},
	},
	{
		Name: "path_suffix",
		Match: func(phrase string, e types.DirectoryEntry) bool {
			return strings.HasSuffix(strings.ToLower(e.Path), "/"+phrase)
		},
	},
}

// Resolve runs the cascade for phrase over candidates. It returns nil when
// nothing matches.
func Resolve(phrase string, candidates []types.DirectoryEntry, opts Options) *types.DirectoryEntry {
	e, _ := resolve(phrase, candidates, opts)
	return e
}

func resolve(phrase string, candidates []types.DirectoryEntry, opts Options) (*types.DirectoryEntry, string) {
	p := normalize(phrase)
	if p == "" {
		return nil, ""
	}
	for _, s := range Strategies {
		if s.Substring && opts.NoSubstring {
			continue
		}
		for i := range candidates {
			if !opts.Kind.admits(candidates[i]) {
				continue
			}
			if s.Match(p, candidates[i]) {
				hit := candidates[i]
				return &hit, s.Name
			}
		}
	}
	return nil, ""
}

func normalize(phrase string) string {
	p := strings.ToLower(strings.TrimSpace(phrase))
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.Trim(p, "/")
}

// Merge combines root and current-directory listings, root entries first,
// dropping later duplicates by path.
func Merge(lists ...[]types.DirectoryEntry) []types.DirectoryEntry {
	seen := make(map[string]bool)
	var out []types.DirectoryEntry
	for _, l := range lists {
		for _, e := range l {
			if seen[e.Path] {
				continue
			}
			seen[e.Path] = true
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// TWO-TIER RESOLUTION
// =============================================================================

// Lister is the listing capability the resolver needs. fsops.Workspace
// implements it.
type Lister interface {
	Cached(ctx context.Context, dir string) ([]types.DirectoryEntry, error)
	List(ctx context.Context, dir string) ([]types.DirectoryEntry, error)
}

// Resolver resolves phrases against known entries and, failing that, a live
// read of the current directory.
type Resolver struct {
	lister Lister
}

// New creates a Resolver.
func New(lister Lister) *Resolver {
	return &Resolver{lister: lister}
}

// Known returns the merged root + current directory candidate set, served
// from the listing cache.
func (r *Resolver) Known(ctx context.Context, current string) []types.DirectoryEntry {
	root, err := r.lister.Cached(ctx, "")
	if err != nil {
		logging.Get(logging.CategoryResolver).Debug("root listing failed", zap.Error(err))
	}
	if current == "" {
		return root
	}
	cur, err := r.lister.Cached(ctx, current)
	if err != nil {
		logging.Get(logging.CategoryResolver).Debug("current listing failed",
			zap.String("dir", current), zap.Error(err))
	}
	return Merge(root, cur)
}

// Find resolves phrase first against known (or, when known is empty, the
// cached root + current set), then against a live listing of current. Both
// the raw phrase and its cleaned form are tried at each tier.
func (r *Resolver) Find(ctx context.Context, phrase string, known []types.DirectoryEntry, current string, opts Options) *types.DirectoryEntry {
	log := logging.Get(logging.CategoryResolver)
	variants := phraseVariants(phrase)
	if len(variants) == 0 {
		return nil
	}
	if len(known) == 0 {
		known = r.Known(ctx, current)
	}
	for _, v := range variants {
		if e, strategy := resolve(v, known, opts); e != nil {
			log.Debug("resolved", zap.String("phrase", phrase), zap.String("path", e.Path),
				zap.String("strategy", strategy), zap.String("tier", "known"))
			return e
		}
	}

	live, err := r.lister.List(ctx, current)
	if err != nil {
		log.Debug("live listing failed", zap.String("dir", current), zap.Error(err))
		return nil
	}
	for _, v := range variants {
		if e, strategy := resolve(v, live, opts); e != nil {
			log.Debug("resolved", zap.String("phrase", phrase), zap.String("path", e.Path),
				zap.String("strategy", strategy), zap.String("tier", "live"))
			return e
		}
	}
	log.Debug("unresolved", zap.String("phrase", phrase), zap.String("dir", current))
	return nil
}

// FindExact resolves phrase without the substring strategy, then with it.
// Used where an exact name must beat a longer name that merely contains it.
func (r *Resolver) FindExact(ctx context.Context, phrase string, known []types.DirectoryEntry, current string, kind Kind) *types.DirectoryEntry {
	if e := r.Find(ctx, phrase, known, current, Options{Kind: kind, NoSubstring: true}); e != nil {
		return e
	}
	return r.Find(ctx, phrase, known, current, Options{Kind: kind})
}

// Live lists dir from disk, bypassing the cache.
func (r *Resolver) Live(ctx context.Context, dir string) ([]types.DirectoryEntry, error) {
	return r.lister.List(ctx, dir)
}

func phraseVariants(phrase string) []string {
	raw := strings.TrimSpace(phrase)
	cleaned := CleanPhrase(raw)
	switch {
	case raw == "" && cleaned == "":
		return nil
	case cleaned == "" || strings.EqualFold(raw, cleaned):
		return []string{raw}
	case raw == "":
		return []string{cleaned}
	default:
		return []string{raw, cleaned}
	}
}
