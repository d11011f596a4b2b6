package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"organizer/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{".", ""},
		{"/", ""},
		{"docs", "docs"},
		{"docs/", "docs"},
		{"./docs/./a.txt", "docs/a.txt"},
		{"docs/../a.txt", "a.txt"},
		{"../a.txt", "a.txt"},
		{"../../../etc/passwd", "etc/passwd"},
		{"a/../../b", "b"},
		{"..", ""},
		{`..\..\win.ini`, "win.ini"},
		{"/etc/passwd", "etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestResolve_AlwaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	g, err := New(root)
	require.NoError(t, err)

	inputs := []string{
		"../", "../../", "../../../../../../tmp", "a/../../..", "./../x",
		"x/y/../../../../z", "/..", "//..//..//etc", `..\..\..`, "....//x",
	}
	for _, in := range inputs {
		abs, err := g.Resolve(in)
		if err != nil {
			assert.True(t, errors.Is(err, types.ErrAccessDenied), "input %q: %v", in, err)
			continue
		}
		assert.True(t, g.Inside(abs), "input %q resolved outside: %s", in, abs)
		assert.True(t, strings.HasPrefix(abs, g.Root()), "input %q resolved to %s", in, abs)
	}
}

func TestInside(t *testing.T) {
	g, err := New("/srv/workspace")
	require.NoError(t, err)

	assert.True(t, g.Inside("/srv/workspace"))
	assert.True(t, g.Inside("/srv/workspace/a/b"))
	assert.False(t, g.Inside("/srv/workspace2"))
	assert.False(t, g.Inside("/srv"))
	assert.False(t, g.Inside("/etc/passwd"))
}

func TestRel(t *testing.T) {
	g, err := New("/srv/workspace")
	require.NoError(t, err)

	assert.Equal(t, "", g.Rel("/srv/workspace"))
	assert.Equal(t, "a/b.txt", g.Rel(filepath.Join("/srv/workspace", "a", "b.txt")))
}

func TestCheck_RejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	g, err := New(root)
	require.NoError(t, err)

	err = g.Check(filepath.Join(link, "new.txt"))
	assert.True(t, errors.Is(err, types.ErrAccessDenied), "got %v", err)

	assert.NoError(t, g.Check(filepath.Join(root, "missing", "deep", "file.txt")))
}

func TestCheck_RejectsOutsidePath(t *testing.T) {
	g, err := New(t.TempDir())
	require.NoError(t, err)

	err = g.Check("/definitely/not/inside")
	assert.True(t, errors.Is(err, types.ErrAccessDenied))
}
