package metastore

import (
	"context"
	"slices"
	"strings"
	"time"

	"organizer/internal/logging"
	"organizer/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// =============================================================================
// METADATA OPERATIONS
// =============================================================================
//
// Every mutation is a full read-modify-write of the document. Nothing is
// locked across calls.

// MaxRecents bounds the recents list.
const MaxRecents = 50

// Meta applies metadata operations to a Store.
type Meta struct {
	store Store
	now   func() time.Time
}

// NewMeta wraps store.
func NewMeta(store Store) *Meta {
	return &Meta{store: store, now: time.Now}
}

// Store returns the underlying store.
func (m *Meta) Store() Store { return m.store }

// Snapshot reads the current document.
func (m *Meta) Snapshot(ctx context.Context) (*Sidecar, error) {
	return m.store.Read(ctx)
}

// Update reads the document, applies fn and writes it back. A non-nil error
// from fn aborts without writing.
func (m *Meta) Update(ctx context.Context, op, target string, fn func(*Sidecar) error) error {
	sc, err := m.store.Read(ctx)
	if err != nil {
		return err
	}
	if err := fn(sc); err != nil {
		return err
	}
	err = m.store.Write(ctx, sc)
	logging.Audit(ctx, logging.AuditMetaWrite, op, target, err)
	return err
}

// Item returns a copy of the metadata stored for path.
func (m *Meta) Item(ctx context.Context, path string) (ItemMeta, error) {
	sc, err := m.store.Read(ctx)
	if err != nil {
		return ItemMeta{}, err
	}
	if it, ok := sc.Meta[path]; ok && it != nil {
		return it.clone(), nil
	}
	return ItemMeta{}, nil
}

// SetStarred sets or clears the star on path.
func (m *Meta) SetStarred(ctx context.Context, path string, starred bool) (ItemMeta, error) {
	var out ItemMeta
	err := m.Update(ctx, "star", path, func(sc *Sidecar) error {
		it := sc.Item(path)
		it.Starred = starred
		out = it.clone()
		sc.prune(path)
		return nil
	})
	return out, err
}

// AddTags appends tags not already present, compared case-insensitively.
func (m *Meta) AddTags(ctx context.Context, path string, tags []string) (ItemMeta, error) {
	var out ItemMeta
	err := m.Update(ctx, "tag", path, func(sc *Sidecar) error {
		it := sc.Item(path)
		for _, t := range tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if !slices.ContainsFunc(it.Tags, func(have string) bool { return strings.EqualFold(have, t) }) {
				it.Tags = append(it.Tags, t)
			}
		}
		out = it.clone()
		sc.prune(path)
		return nil
	})
	return out, err
}

// SetComment overwrites the comment on path.
func (m *Meta) SetComment(ctx context.Context, path, comment string) (ItemMeta, error) {
	var out ItemMeta
	err := m.Update(ctx, "comment", path, func(sc *Sidecar) error {
		it := sc.Item(path)
		it.Comments = comment
		out = it.clone()
		sc.prune(path)
		return nil
	})
	return out, err
}

// ItemPatch overwrites only the fields that are set.
type ItemPatch struct {
	Tags     *[]string `json:"tags,omitempty"`
	Comments *string   `json:"comments,omitempty"`
	Starred  *bool     `json:"starred,omitempty"`
}

// Patch applies p to the entry for path and returns the whole document.
func (m *Meta) Patch(ctx context.Context, path string, p ItemPatch) (*Sidecar, error) {
	var out *Sidecar
	err := m.Update(ctx, "patch", path, func(sc *Sidecar) error {
		it := sc.Item(path)
		if p.Tags != nil {
			it.Tags = slices.Clone(*p.Tags)
		}
		if p.Comments != nil {
			it.Comments = *p.Comments
		}
		if p.Starred != nil {
			it.Starred = *p.Starred
		}
		sc.prune(path)
		out = sc
		return nil
	})
	return out, err
}

// Merge replaces the entries named in patch, leaving the rest alone.
func (m *Meta) Merge(ctx context.Context, patch map[string]*ItemMeta) (*Sidecar, error) {
	var out *Sidecar
	err := m.Update(ctx, "merge", "", func(sc *Sidecar) error {
		for p, it := range patch {
			if it == nil {
				delete(sc.Meta, p)
				continue
			}
			c := it.clone()
			sc.Meta[p] = &c
		}
		out = sc
		return nil
	})
	return out, err
}

// AddRecent moves path to the front of the recents list.
func (m *Meta) AddRecent(ctx context.Context, path string) error {
	return m.Update(ctx, "recent", path, func(sc *Sidecar) error {
		sc.Recents = slices.DeleteFunc(sc.Recents, func(r string) bool { return r == path })
		sc.Recents = slices.Insert(sc.Recents, 0, path)
		if len(sc.Recents) > MaxRecents {
			sc.Recents = sc.Recents[:MaxRecents]
		}
		return nil
	})
}

// RegisterWorkspace records a top-level folder name once.
func (m *Meta) RegisterWorkspace(ctx context.Context, name string) error {
	return m.Update(ctx, "register_workspace", name, func(sc *Sidecar) error {
		if !slices.Contains(sc.UserWorkspaces, name) {
			sc.UserWorkspaces = append(sc.UserWorkspaces, name)
		}
		return nil
	})
}

// Workspaces returns the registered names for which exists reports true.
func (m *Meta) Workspaces(ctx context.Context, exists func(name string) bool) ([]string, error) {
	sc, err := m.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(sc.UserWorkspaces))
	for _, name := range sc.UserWorkspaces {
		if types.IsHidden(name) || strings.Contains(name, "/") {
			continue
		}
		if exists == nil || exists(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// CreateShareLink returns the link for path, creating one on first use.
func (m *Meta) CreateShareLink(ctx context.Context, path string) (ShareLink, error) {
	var link ShareLink
	err := m.Update(ctx, "share", path, func(sc *Sidecar) error {
		if existing, ok := sc.SharedLinks[path]; ok && existing.Token != "" {
			link = existing
			return nil
		}
		link = ShareLink{
			Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
			CreatedAt: m.now().UTC(),
		}
		sc.SharedLinks[path] = link
		return nil
	})
	return link, err
}

// LookupShareLink returns the path a token grants access to.
func (m *Meta) LookupShareLink(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", types.InvalidArgument("share", "token required")
	}
	sc, err := m.store.Read(ctx)
	if err != nil {
		return "", err
	}
	for p, link := range sc.SharedLinks {
		if link.Token == token {
			return p, nil
		}
	}
	return "", types.NotFound("share", token, nil)
}

// RemovePaths forgets paths and everything beneath them.
func (m *Meta) RemovePaths(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	gone := func(p string) bool {
		return slices.ContainsFunc(paths, func(root string) bool { return under(p, root) })
	}
	return m.Update(ctx, "forget", strings.Join(paths, ","), func(sc *Sidecar) error {
		sc.Recents = slices.DeleteFunc(sc.Recents, gone)
		for p := range sc.Meta {
			if gone(p) {
				delete(sc.Meta, p)
			}
		}
		for p := range sc.SharedLinks {
			if gone(p) {
				delete(sc.SharedLinks, p)
			}
		}
		sc.UserWorkspaces = slices.DeleteFunc(sc.UserWorkspaces, gone)
		return nil
	})
}

// MovePath re-keys metadata for from and its descendants under to.
func (m *Meta) MovePath(ctx context.Context, from, to string) error {
	if from == to || from == "" {
		return nil
	}
	return m.Update(ctx, "rekey", from+" -> "+to, func(sc *Sidecar) error {
		for i, r := range sc.Recents {
			if under(r, from) {
				sc.Recents[i] = rebase(r, from, to)
			}
		}
		seen := make(map[string]bool, len(sc.Recents))
		sc.Recents = slices.DeleteFunc(sc.Recents, func(r string) bool {
			dup := seen[r]
			seen[r] = true
			return dup
		})

		moved := make(map[string]*ItemMeta)
		for p, it := range sc.Meta {
			if under(p, from) {
				moved[rebase(p, from, to)] = it
				delete(sc.Meta, p)
			}
		}
		for p, it := range moved {
			sc.Meta[p] = it
		}

		links := make(map[string]ShareLink)
		for p, l := range sc.SharedLinks {
			if under(p, from) {
				links[rebase(p, from, to)] = l
				delete(sc.SharedLinks, p)
			}
		}
		for p, l := range links {
			sc.SharedLinks[p] = l
		}

		if !strings.Contains(from, "/") {
			if i := slices.Index(sc.UserWorkspaces, from); i >= 0 {
				if strings.Contains(to, "/") {
					sc.UserWorkspaces = slices.Delete(sc.UserWorkspaces, i, i+1)
				} else {
					sc.UserWorkspaces[i] = to
				}
			}
		}
		logging.For(ctx, logging.CategoryStore).Debug("metadata re-keyed",
			zap.String("from", from), zap.String("to", to), zap.Int("items", len(moved)))
		return nil
	})
}

func (it *ItemMeta) clone() ItemMeta {
	c := *it
	c.Tags = slices.Clone(it.Tags)
	return c
}

// prune drops the entry for path when it carries nothing.
func (s *Sidecar) prune(path string) {
	if it, ok := s.Meta[path]; ok && it.empty() {
		delete(s.Meta, path)
	}
}
