// Package types holds the data model shared by the command pipeline:
// directory entries, canonical actions, execution results and the error
// taxonomy.
package types

import (
	"path"
	"strings"
	"time"
)

// EntryType distinguishes files from directories in a listing.
type EntryType string

const (
	EntryFile      EntryType = "file"
	EntryDirectory EntryType = "directory"
)

// DirectoryEntry is a transient listing row. Path is workspace-relative and
// always uses forward slashes.
type DirectoryEntry struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Type       EntryType  `json:"type"`
	Size       int64      `json:"size,omitempty"`
	ModifiedAt *time.Time `json:"modifiedAt,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e DirectoryEntry) IsDir() bool {
	return e.Type == EntryDirectory
}

// JoinPath joins workspace-relative segments with forward slashes.
// Empty segments are skipped so JoinPath("", "a") == "a".
func JoinPath(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		e = strings.Trim(strings.ReplaceAll(e, "\\", "/"), "/")
		if e != "" && e != "." {
			parts = append(parts, e)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return path.Join(parts...)
}

// ParentPath returns the workspace-relative parent of p ("" for top level).
func ParentPath(p string) string {
	p = strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/")
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// BaseName returns the last element of a workspace-relative path.
func BaseName(p string) string {
	p = strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// IsHidden reports whether a name is a dot-file.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
