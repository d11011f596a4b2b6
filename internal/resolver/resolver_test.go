package resolver

import (
	"context"
	"errors"
	"testing"

	"organizer/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dir(p string) types.DirectoryEntry {
	return types.DirectoryEntry{Name: types.BaseName(p), Path: p, Type: types.EntryDirectory}
}

func file(p string) types.DirectoryEntry {
	return types.DirectoryEntry{Name: types.BaseName(p), Path: p, Type: types.EntryFile}
}

func TestResolve_CascadeOrder(t *testing.T) {
	candidates := []types.DirectoryEntry{
		file("Projects/report-final.pdf"),
		file("report.pdf"),
		dir("Projects"),
		file("Archive/old/report.pdf"),
	}

	tests := []struct {
		name   string
		phrase string
		opts   Options
		want   string
	}{
		{"exact path beats exact name", "Archive/old/report.pdf", Options{}, "Archive/old/report.pdf"},
		{"exact name beats substring", "REPORT.PDF", Options{}, "report.pdf"},
		{"substring", "final", Options{}, "Projects/report-final.pdf"},
		{"substring disabled", "final", Options{NoSubstring: true}, ""},
		{"path suffix", "old/report.pdf", Options{}, "Archive/old/report.pdf"},
		{"kind filter", "projects", Options{Kind: FileOnly}, ""},
		{"dir only", "proj", Options{Kind: DirOnly}, "Projects"},
		{"slashes normalized", `\Projects\`, Options{}, "Projects"},
		{"empty phrase", "  ", Options{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.phrase, candidates, tt.opts)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Path)
		})
	}
}

func TestStrategies_DeclaredOrder(t *testing.T) {
	var order []string
	for _, s := range Strategies {
		order = append(order, s.Name)
	}
	assert.Equal(t, []string{"exact_path", "exact_name", "name_contains", "path_suffix"}, order)
}

func TestMerge_RootFirstDedup(t *testing.T) {
	root := []types.DirectoryEntry{dir("Docs"), file("a.txt")}
	current := []types.DirectoryEntry{file("Docs/b.txt"), dir("Docs")}

	got := Merge(root, current)
	var paths []string
	for _, e := range got {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"Docs", "a.txt", "Docs/b.txt"}, paths)
}

type fakeLister struct {
	cached map[string][]types.DirectoryEntry
	live   map[string][]types.DirectoryEntry
	lists  int
}

func (f *fakeLister) Cached(_ context.Context, d string) ([]types.DirectoryEntry, error) {
	if e, ok := f.cached[d]; ok {
		return e, nil
	}
	return nil, errors.New("not cached")
}

func (f *fakeLister) List(_ context.Context, d string) ([]types.DirectoryEntry, error) {
	f.lists++
	if e, ok := f.live[d]; ok {
		return e, nil
	}
	return nil, types.NotFound("list", d, nil)
}

func TestFind_TwoTierRetry(t *testing.T) {
	l := &fakeLister{
		cached: map[string][]types.DirectoryEntry{
			"":     {dir("Docs")},
			"Docs": {file("Docs/old.txt")},
		},
		live: map[string][]types.DirectoryEntry{
			"Docs": {file("Docs/old.txt"), file("Docs/new.txt")},
		},
	}
	r := New(l)
	ctx := context.Background()

	got := r.Find(ctx, "old.txt", nil, "Docs", Options{})
	require.NotNil(t, got)
	assert.Equal(t, "Docs/old.txt", got.Path)
	assert.Equal(t, 0, l.lists, "known hit must not touch the disk")

	got = r.Find(ctx, "new.txt", nil, "Docs", Options{})
	require.NotNil(t, got)
	assert.Equal(t, "Docs/new.txt", got.Path)
	assert.Equal(t, 1, l.lists)

	assert.Nil(t, r.Find(ctx, "ghost", nil, "Docs", Options{}))
}

func TestFind_UsesCallerKnownSet(t *testing.T) {
	r := New(&fakeLister{})
	known := []types.DirectoryEntry{dir("Photos")}

	got := r.Find(context.Background(), "the photos folder", known, "", Options{Kind: DirOnly})
	require.NotNil(t, got)
	assert.Equal(t, "Photos", got.Path)
}

func TestFindExact_PrefersExactOverSubstring(t *testing.T) {
	known := []types.DirectoryEntry{dir("Old Docs"), dir("Docs")}
	r := New(&fakeLister{})

	got := r.FindExact(context.Background(), "docs", known, "", DirOnly)
	require.NotNil(t, got)
	assert.Equal(t, "Docs", got.Path)

	got = r.FindExact(context.Background(), "old", known, "", DirOnly)
	require.NotNil(t, got)
	assert.Equal(t, "Old Docs", got.Path)
}
