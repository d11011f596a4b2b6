// Package sandbox confines user-supplied relative paths to a single
// workspace root.
package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"organizer/internal/types"
)

// Guard resolves workspace-relative paths against Root and rejects anything
// that lands outside it.
type Guard struct {
	root     string
	realRoot string
}

// New creates a Guard for root. The root is made absolute; it does not have
// to exist yet.
func New(root string) (*Guard, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("sandbox root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sandbox root: %w", err)
	}
	g := &Guard{root: filepath.Clean(abs), realRoot: filepath.Clean(abs)}
	if real, err := filepath.EvalSymlinks(g.root); err == nil {
		g.realRoot = real
	}
	return g, nil
}

// Root returns the absolute sandbox root.
func (g *Guard) Root() string {
	return g.root
}

// Clean normalizes a user path into a workspace-relative, forward-slash
// path: backslashes become slashes, "." and ".." segments collapse, any
// leading run of "../" is dropped and leading slashes are removed. The root
// itself is "".
func Clean(rel string) string {
	p := strings.ReplaceAll(strings.TrimSpace(rel), "\\", "/")
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	for {
		switch {
		case p == "..":
			p = ""
		case strings.HasPrefix(p, "../"):
			p = strings.TrimPrefix(p, "../")
			continue
		}
		break
	}
	p = strings.TrimLeft(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Resolve returns the absolute location of rel inside the sandbox.
func (g *Guard) Resolve(rel string) (string, error) {
	abs := filepath.Join(g.root, filepath.FromSlash(Clean(rel)))
	if !g.Inside(abs) {
		return "", types.AccessDenied("resolve", rel)
	}
	return abs, nil
}

// Inside reports whether abs is the root or lexically below it.
func (g *Guard) Inside(abs string) bool {
	return within(g.root, abs)
}

// Check verifies every path is inside the sandbox, following symlinks of the
// deepest existing ancestor so a link cannot smuggle a mutation outside.
// Call it immediately before any filesystem mutation.
func (g *Guard) Check(paths ...string) error {
	for _, p := range paths {
		if !g.Inside(p) {
			return types.AccessDenied("check", g.display(p))
		}
		real, err := realPath(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", g.display(p), err)
		}
		if !within(g.realRoot, real) && !within(g.root, real) {
			return types.AccessDenied("check", g.display(p))
		}
	}
	return nil
}

// Rel converts an absolute sandbox path back to a workspace-relative,
// forward-slash path.
func (g *Guard) Rel(abs string) string {
	rel, err := filepath.Rel(g.root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (g *Guard) display(p string) string {
	if g.Inside(p) {
		return g.Rel(p)
	}
	return filepath.Base(p)
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, filepath.Clean(p))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// realPath resolves symlinks on the longest existing prefix of p and appends
// the non-existent remainder.
func realPath(p string) (string, error) {
	p = filepath.Clean(p)
	var rest []string
	cur := p
	for {
		real, err := filepath.EvalSymlinks(cur)
		if err == nil {
			for i := len(rest) - 1; i >= 0; i-- {
				real = filepath.Join(real, rest[i])
			}
			return real, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		rest = append(rest, filepath.Base(cur))
		cur = parent
	}
}
