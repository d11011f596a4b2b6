package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "a", JoinPath("", "a"))
	assert.Equal(t, "a/b/c.txt", JoinPath("a/", "/b", "c.txt"))
	assert.Equal(t, "a/b", JoinPath(`a\b`))
	assert.Equal(t, "", JoinPath("", "."))
}

func TestParentAndBase(t *testing.T) {
	assert.Equal(t, "A", ParentPath("A/b.txt"))
	assert.Equal(t, "", ParentPath("b.txt"))
	assert.Equal(t, "b.txt", BaseName("A/b.txt"))
	assert.Equal(t, "A", BaseName("A/"))
}

func TestParseAction(t *testing.T) {
	k, ok := ParseAction("  Create_Folder ")
	assert.True(t, ok)
	assert.Equal(t, ActionCreateFolder, k)

	_, ok = ParseAction("explode")
	assert.False(t, ok)
}

func TestNewAction_DestructiveFlag(t *testing.T) {
	for _, k := range AllActions {
		a := NewAction(k, nil)
		assert.Equal(t, k == ActionDelete || k == ActionMove, a.RequiresConfirm, "action %s", k)
		assert.NotNil(t, a.Params)
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := NotFound("stat", "a.txt", cause)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrAccessDenied))
	assert.Equal(t, ErrNotFound, KindOf(err))
	assert.Equal(t, "stat: not found: a.txt: boom", err.Error())
}

func TestCategory(t *testing.T) {
	c, ok := CategoryForWord("Photos")
	assert.True(t, ok)
	assert.Equal(t, CategoryImage, c)
	assert.True(t, c.Matches("A.JPG"))
	assert.False(t, c.Matches("a.txt"))

	c, ok = ParseCategory("images")
	assert.True(t, ok)
	assert.Equal(t, CategoryImage, c)

	_, ok = ParseCategory("spreadsheets")
	assert.False(t, ok)
}
