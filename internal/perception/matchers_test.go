package perception

import (
	"context"
	"errors"
	"testing"

	"organizer/internal/fsops"
	"organizer/internal/resolver"
	"organizer/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatchContext(current string) *MatchContext {
	return &MatchContext{
		Current: current,
		Known:   knownSet(),
		FS: fakeStat{
			"hidden/deep": {Name: "deep", IsDir: true},
		},
	}
}

func TestRules_Order(t *testing.T) {
	var got []string
	for _, r := range Rules {
		got = append(got, r.Name)
	}
	want := []string{
		"info", "duplicates", "list", "contents", "current_size", "named_size",
		"category_search", "navigate", "size_fallback", "favorites", "tags",
		"comments", "rename", "delete", "create_folder", "duplicate",
		"new_workspace", "here", "move_copy",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rule order mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchCommand(t *testing.T) {
	tests := []struct {
		text   string
		rule   string
		action types.ActionKind
		params types.Params
	}{
		{"show info", "info", types.ActionInfo, types.Params{"path": ""}},
		{"show info on @report.pdf", "info", types.ActionInfo, types.Params{"path": "report.pdf"}},
		{"remove duplicates", "duplicates", types.ActionRemoveDuplicates, types.Params{"path": ""}},
		{"find duplicates", "duplicates", types.ActionSuggest, types.Params{"path": ""}},
		{"list files please", "list", types.ActionList, types.Params{"path": ""}},
		{"what's here", "list", types.ActionList, types.Params{"path": ""}},
		{"contents of Docs", "contents", types.ActionList, types.Params{"path": "Docs"}},
		{"what's in the docs folder", "contents", types.ActionList, types.Params{"path": "Docs"}},
		{"this folder size", "current_size", types.ActionDirectorySize, types.Params{"path": ""}},
		{"what is the size of Docs", "named_size", types.ActionDirectorySize, types.Params{"path": "Docs"}},
		{"how big is report.pdf", "named_size", types.ActionInfo, types.Params{"path": "report.pdf"}},
		{"Docs its size", "named_size", types.ActionDirectorySize, types.Params{"path": "Docs"}},
		{"what is the size of hidden/deep", "named_size", types.ActionDirectorySize, types.Params{"path": "hidden/deep"}},
		{"find my photos", "category_search", types.ActionSearch, types.Params{"category": "image", "query": "photos"}},
		{"search for all pdfs", "category_search", types.ActionSearch, types.Params{"category": "pdf", "query": "pdfs"}},
		{"open docs", "navigate", types.ActionNavigate, types.Params{"path": "Docs"}},
		{"go to archive", "navigate", types.ActionNavigate, types.Params{"path": "Docs Archive"}},
		{"take me home", "navigate", types.ActionNavigate, types.Params{"path": ""}},
		{"get size of arch", "size_fallback", types.ActionDirectorySize, types.Params{"path": "Docs Archive"}},
		{"calculate the size of ghost", "size_fallback", types.ActionDirectorySize, types.Params{"path": ""}},
		{"star report.pdf", "favorites", types.ActionAddFavorite, types.Params{"path": "report.pdf"}},
		{"remove report.pdf from favorites", "favorites", types.ActionRemoveFavorite, types.Params{"path": "report.pdf"}},
		{"tag report.pdf as urgent, work", "tags", types.ActionAddTag, types.Params{"path": "report.pdf", "tags": []string{"urgent", "work"}}},
		{"add tag finance to notes.txt", "tags", types.ActionAddTag, types.Params{"path": "notes.txt", "tags": []string{"finance"}}},
		{"comment on report.pdf: looks good", "comments", types.ActionAddComment, types.Params{"path": "report.pdf", "comment": "looks good"}},
		{`add comment "check totals" to report.pdf`, "comments", types.ActionAddComment, types.Params{"path": "report.pdf", "comment": "check totals"}},
		{"rename notes.txt to todo.txt", "rename", types.ActionRename, types.Params{"path": "notes.txt", "newName": "todo.txt"}},
		{"delete notes.txt please", "delete", types.ActionDelete, types.Params{"path": "notes.txt"}},
		{"create folder named Projects", "create_folder", types.ActionCreateFolder, types.Params{"name": "Projects", "path": ""}},
		{"make a new folder Work in Docs", "create_folder", types.ActionCreateFolder, types.Params{"name": "Work", "path": "Docs"}},
		{"mkdir Inbox", "create_folder", types.ActionCreateFolder, types.Params{"name": "Inbox", "path": ""}},
		{"duplicate report.pdf", "duplicate", types.ActionCopy, types.Params{"from": "report.pdf", "to": "report (2).pdf"}},
		{"copy plan.md here", "here", types.ActionCopy, types.Params{"from": "Docs/plan.md", "to": "plan.md"}},
		{"copy notes.txt here", "here", types.ActionCopy, types.Params{"from": "notes.txt", "to": "notes (2).txt"}},
		{"move report.pdf to Docs", "move_copy", types.ActionMove, types.Params{"from": "report.pdf", "to": "Docs/report.pdf"}},
		{"copy notes.txt into images", "move_copy", types.ActionCopy, types.Params{"from": "notes.txt", "to": "Images/notes.txt"}},
		{"move plan.md to root", "move_copy", types.ActionMove, types.Params{"from": "Docs/plan.md", "to": "plan.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			m := MatchCommand(context.Background(), tt.text, newMatchContext(""))
			require.NotNil(t, m)
			require.NoError(t, m.Err)
			assert.Equal(t, tt.rule, m.Rule)
			require.Len(t, m.Actions, 1)
			assert.Equal(t, tt.action, m.Actions[0].Action)
			if diff := cmp.Diff(tt.params, m.Actions[0].Params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchCommand_WithResolver(t *testing.T) {
	mc := &MatchContext{
		Resolver: resolver.New(listerStub{
			cached: map[string][]types.DirectoryEntry{"": knownSet()},
			live:   map[string][]types.DirectoryEntry{"": append(knownSet(), dir("Fresh"))},
		}),
	}

	m := MatchCommand(context.Background(), "contents of docs", mc)
	require.NotNil(t, m)
	assert.Equal(t, "Docs", m.Actions[0].Params["path"])

	m = MatchCommand(context.Background(), "contents of archive", mc)
	require.NotNil(t, m)
	assert.Equal(t, "Docs Archive", m.Actions[0].Params["path"])

	// Only the live listing has Fresh; the resolver's live tier finds it.
	m = MatchCommand(context.Background(), "contents of fresh", mc)
	require.NotNil(t, m)
	assert.Equal(t, "Fresh", m.Actions[0].Params["path"])
}

func TestMatchCommand_NoMatch(t *testing.T) {
	for _, text := range []string{
		"asdkjasd",
		"what's in xyz",
		"open nowhere",
		"delete ghost.txt",
		"move ghost.txt to Docs",
		"",
	} {
		assert.Nil(t, MatchCommand(context.Background(), text, newMatchContext("")), text)
	}
}

func TestMatchCommand_DestructiveFlag(t *testing.T) {
	for _, text := range []string{"delete notes.txt", "move report.pdf to Docs", "move plan.md here"} {
		m := MatchCommand(context.Background(), text, newMatchContext("Docs"))
		require.NotNil(t, m, text)
		for _, a := range m.Actions {
			assert.True(t, a.RequiresConfirm, text)
		}
	}
	m := MatchCommand(context.Background(), "copy notes.txt to Docs", newMatchContext(""))
	require.NotNil(t, m)
	assert.False(t, m.Actions[0].RequiresConfirm)
}

func TestMatchCommand_UserErrors(t *testing.T) {
	for _, text := range []string{
		"add tag to report.pdf",
		"tag report.pdf",
		"comment on report.pdf",
		"add comment to report.pdf:",
		"rename notes.txt to a/b.txt",
		"create folder x/y",
		"move madhav2 to new workspace a/b",
		"move madhav2 to new workspace a:b",
	} {
		m := MatchCommand(context.Background(), text, newMatchContext(""))
		require.NotNil(t, m, text)
		assert.True(t, errors.Is(m.Err, types.ErrInvalidArgument), "%s: %v", text, m.Err)
	}
}

func TestNewWorkspace_FillerImmunity(t *testing.T) {
	m := MatchCommand(context.Background(), "move report.pdf to new workspace as well", newMatchContext(""))
	require.NotNil(t, m)
	require.NoError(t, m.Err)
	assert.Equal(t, "new_workspace", m.Rule)

	want := []types.CanonicalAction{
		{Action: types.ActionCreateFolder, Params: types.Params{"name": "Report", "path": "", "reuse": true}},
		{Action: types.ActionMove, Params: types.Params{"from": "report.pdf", "to": "Report/report.pdf"}, RequiresConfirm: true},
	}
	if diff := cmp.Diff(want, m.Actions); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	for _, a := range m.Actions {
		assert.NotContains(t, types.ExtractString(a.Params["name"]), "as well")
	}
}

func TestNewWorkspace_Naming(t *testing.T) {
	tests := []struct {
		text string
		ws   string
		to   string
	}{
		{"move madhav2 to new workspace", "Madhav2 Workspace", "Madhav2 Workspace/madhav2"},
		{"move madhav2 to new workspace too", "Madhav2 Workspace", "Madhav2 Workspace/madhav2"},
		{"move madhav2 to new workspace hello", "hello", "hello/madhav2"},
		{`move madhav2 into a new workspace called "Client X"`, "Client X", "Client X/madhav2"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			m := MatchCommand(context.Background(), tt.text, newMatchContext(""))
			require.NotNil(t, m)
			require.NoError(t, m.Err)
			require.Len(t, m.Actions, 2)
			assert.Equal(t, tt.ws, m.Actions[0].Params["name"])
			assert.Equal(t, tt.to, m.Actions[1].Params["to"])
		})
	}
}

func TestNewWorkspace_NameTakenByFile(t *testing.T) {
	mc := newMatchContext("")
	mc.Known = append(mc.Known, file("Report", 5))

	m := MatchCommand(context.Background(), "move report.pdf to new workspace", mc)
	require.NotNil(t, m)
	assert.ErrorIs(t, m.Err, types.ErrInvalidArgument)
	assert.Empty(t, m.Actions)

	// A folder of that name is reused instead.
	mc.Known = append(knownSet(), dir("Report"))
	m = MatchCommand(context.Background(), "move report.pdf to new workspace", mc)
	require.NotNil(t, m)
	require.NoError(t, m.Err)
	assert.Equal(t, "Report/report.pdf", m.Actions[1].Params["to"])
}

func TestWorkspaceName(t *testing.T) {
	assert.Equal(t, "Madhav2 Workspace", WorkspaceName(dir("madhav2")))
	assert.Equal(t, "Madhav2", WorkspaceName(dir("clients/madhav2")))
	assert.Equal(t, "Report", WorkspaceName(file("report.pdf", 1)))
	assert.Equal(t, "Docs Workspace", WorkspaceName(dir("Docs")))
}

func TestMatchCommand_NestedCurrent(t *testing.T) {
	mc := newMatchContext("Docs")
	mc.FS = fakeStat{"Docs/plan.md": fsops.FileInfo{Name: "plan.md", Size: 20}}

	m := MatchCommand(context.Background(), "list", mc)
	require.NotNil(t, m)
	assert.Equal(t, "Docs", m.Actions[0].Params["path"])

	m = MatchCommand(context.Background(), "go back", mc)
	require.NotNil(t, m)
	assert.Equal(t, types.ActionNavigate, m.Actions[0].Action)
	assert.Equal(t, "", m.Actions[0].Params["path"])
}
