package perception

import (
	"context"
	"strings"
	"sync"

	"organizer/internal/fsops"
	"organizer/internal/types"
)

// scriptedClient replays canned responses in order and records prompts.
type scriptedClient struct {
	mu        sync.Mutex
	model     string
	responses []string
	errs      []error
	prompts   []string
}

func (c *scriptedClient) Model() string { return c.model }

func (c *scriptedClient) Complete(_ context.Context, parts []Part) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	i := len(c.prompts)
	c.prompts = append(c.prompts, sb.String())
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "", nil
}

func (c *scriptedClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func dir(p string) types.DirectoryEntry {
	return types.DirectoryEntry{Name: types.BaseName(p), Path: p, Type: types.EntryDirectory}
}

func file(p string, size int64) types.DirectoryEntry {
	return types.DirectoryEntry{Name: types.BaseName(p), Path: p, Type: types.EntryFile, Size: size}
}

// knownSet is a small workspace: root entries plus one nested file.
func knownSet() []types.DirectoryEntry {
	return []types.DirectoryEntry{
		dir("Docs"),
		dir("Docs Archive"),
		dir("Images"),
		dir("madhav2"),
		file("notes.txt", 10),
		file("report.pdf", 100),
		file("Docs/plan.md", 20),
	}
}

// fakeStat answers Stat from a fixed map.
type fakeStat map[string]fsops.FileInfo

func (f fakeStat) Stat(_ context.Context, rel string) (fsops.FileInfo, error) {
	if fi, ok := f[rel]; ok {
		return fi, nil
	}
	return fsops.FileInfo{}, types.NotFound("stat", rel, nil)
}

// listerStub serves fixed cached and live listings to a resolver.
type listerStub struct {
	cached map[string][]types.DirectoryEntry
	live   map[string][]types.DirectoryEntry
}

func (l listerStub) Cached(_ context.Context, d string) ([]types.DirectoryEntry, error) {
	return l.cached[d], nil
}

func (l listerStub) List(_ context.Context, d string) ([]types.DirectoryEntry, error) {
	return l.live[d], nil
}
