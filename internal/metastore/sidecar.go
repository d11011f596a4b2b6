// Package metastore persists the sidecar metadata document: per-item tags,
// comments and stars, recents, share links and the workspace registry.
//
// The document is read, modified and written whole on every mutation.
// Concurrent writers are not coordinated; the last write wins.
package metastore

import (
	"context"
	"strings"
	"time"
)

// ItemMeta is the metadata attached to one path.
type ItemMeta struct {
	Tags     []string `json:"tags,omitempty"`
	Comments string   `json:"comments,omitempty"`
	Starred  bool     `json:"starred,omitempty"`
}

func (m *ItemMeta) empty() bool {
	return m == nil || (len(m.Tags) == 0 && m.Comments == "" && !m.Starred)
}

// ShareLink is a token granting access to a path.
type ShareLink struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sidecar is the whole metadata document.
type Sidecar struct {
	Recents        []string             `json:"recents"`
	Meta           map[string]*ItemMeta `json:"meta"`
	SharedLinks    map[string]ShareLink `json:"sharedLinks"`
	UserWorkspaces []string             `json:"userWorkspaces"`
}

// NewSidecar returns an empty document.
func NewSidecar() *Sidecar {
	s := &Sidecar{}
	s.normalize()
	return s
}

// normalize replaces nil collections so the document always serializes
// with every key present.
func (s *Sidecar) normalize() {
	if s.Recents == nil {
		s.Recents = []string{}
	}
	if s.Meta == nil {
		s.Meta = make(map[string]*ItemMeta)
	}
	if s.SharedLinks == nil {
		s.SharedLinks = make(map[string]ShareLink)
	}
	if s.UserWorkspaces == nil {
		s.UserWorkspaces = []string{}
	}
}

// Item returns the metadata for path, creating it if needed.
func (s *Sidecar) Item(path string) *ItemMeta {
	m, ok := s.Meta[path]
	if !ok || m == nil {
		m = &ItemMeta{}
		s.Meta[path] = m
	}
	return m
}

// Store reads and writes the sidecar document.
type Store interface {
	Read(ctx context.Context) (*Sidecar, error)
	Write(ctx context.Context, s *Sidecar) error
	Close() error
}

// under reports whether p is root or lies beneath it.
func under(p, root string) bool {
	return p == root || strings.HasPrefix(p, strings.TrimSuffix(root, "/")+"/")
}

// rebase moves p from under oldRoot to under newRoot.
func rebase(p, oldRoot, newRoot string) string {
	if p == oldRoot {
		return newRoot
	}
	return newRoot + p[len(oldRoot):]
}
