package organizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"organizer/internal/config"
	"organizer/internal/perception"
	"organizer/internal/smart"
	"organizer/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type queuedClient struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (c *queuedClient) Complete(_ context.Context, _ []perception.Part) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if len(c.responses) == 0 {
		return "", nil
	}
	r := c.responses[0]
	c.responses = c.responses[1:]
	return r, nil
}

func newService(t *testing.T, files map[string]string, client perception.LLMClient) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(p, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	cfg := config.DefaultConfig()
	cfg.Workspace.Root = root
	cfg.Workspace.DiskLabel = "Test Disk"

	s, err := New(context.Background(), cfg, WithClient(client))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, root
}

func exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}

// approve sends req, expects it to be held, and confirms the held actions.
func approve(t *testing.T, s *Service, req CommandRequest) (*CommandResponse, error) {
	t.Helper()
	held, err := s.Command(context.Background(), req)
	require.NoError(t, err)
	require.True(t, held.RequiresConfirm)
	require.Nil(t, held.Result)
	return s.Command(context.Background(), CommandRequest{
		Query:       req.Query,
		CurrentPath: req.CurrentPath,
		Confirmed:   true,
		Actions:     held.Actions,
	})
}

func TestCommand_MatcherList(t *testing.T) {
	s, _ := newService(t, map[string]string{"a.txt": "a", "Docs/": ""}, nil)

	resp, err := s.Command(context.Background(), CommandRequest{Query: "list files please"})
	require.NoError(t, err)
	assert.Equal(t, perception.SourceMatcher, resp.Source)
	assert.False(t, resp.RequiresConfirm)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 2, resp.Result.Count)
}

func TestCommand_DestructiveHeldUntilConfirmed(t *testing.T) {
	s, root := newService(t, map[string]string{"notes.txt": "n"}, nil)
	ctx := context.Background()

	resp, err := s.Command(ctx, CommandRequest{Query: "delete notes.txt"})
	require.NoError(t, err)
	assert.True(t, resp.RequiresConfirm)
	assert.Nil(t, resp.Result)
	assert.True(t, exists(root, "notes.txt"))

	resp, err = s.Command(ctx, CommandRequest{Query: "delete notes.txt", Confirmed: true, Actions: resp.Actions})
	require.NoError(t, err)
	assert.Equal(t, perception.SourceApproved, resp.Source)
	require.NotNil(t, resp.Result)
	assert.Equal(t, types.ActionDelete, resp.Result.Action)
	assert.False(t, exists(root, "notes.txt"))
}

func TestCommand_ConfirmRunsHeldActionsNotANewReading(t *testing.T) {
	client := &queuedClient{responses: []string{
		`{"action": "delete", "params": {"path": "keep.txt"}}`,
		`{"action": "delete", "params": {"path": "precious.txt"}}`,
	}}
	s, root := newService(t, map[string]string{"keep.txt": "k", "precious.txt": "p"}, client)

	resp, err := approve(t, s, CommandRequest{Query: "get rid of the clutter"})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Success)
	assert.False(t, exists(root, "keep.txt"))
	assert.True(t, exists(root, "precious.txt"))
	assert.Equal(t, 1, client.calls)
}

func TestCommand_ConfirmNeedsHeldActions(t *testing.T) {
	s, root := newService(t, map[string]string{"notes.txt": "n"}, nil)
	ctx := context.Background()

	_, err := s.Command(ctx, CommandRequest{Query: "delete notes.txt", Confirmed: true})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	held := []types.CanonicalAction{types.NewAction(types.ActionDelete, types.Params{"path": "notes.txt"})}
	_, err = s.Command(ctx, CommandRequest{Actions: held})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.True(t, exists(root, "notes.txt"))
}

func TestCommand_NewWorkspaceFillerImmunity(t *testing.T) {
	s, root := newService(t, map[string]string{"report.pdf": "r"}, nil)
	ctx := context.Background()

	resp, err := approve(t, s, CommandRequest{Query: "move report.pdf to new workspace as well"})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Steps, 2)
	assert.True(t, exists(root, "Report/report.pdf"))
	assert.False(t, exists(root, "as well"))
	assert.False(t, exists(root, "As well"))

	ws, err := s.Workspaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Report"}, ws.Workspaces)
}

func TestCommand_SizeScenario(t *testing.T) {
	s, _ := newService(t, map[string]string{
		"Docs/a.bin": strings.Repeat("a", 100),
		"Docs/b.bin": strings.Repeat("b", 1024),
	}, nil)

	resp, err := s.Command(context.Background(), CommandRequest{Query: "what is the size of Docs"})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Equal(t, types.ActionDirectorySize, resp.Result.Action)
	assert.Equal(t, int64(1124), resp.Result.Size)
	assert.Equal(t, "1.1 KB", resp.Result.SizeFormatted)
}

func TestCommand_AmbiguousFallsBackToList(t *testing.T) {
	s, _ := newService(t, map[string]string{"Docs/a.txt": "a"}, nil)

	resp, err := s.Command(context.Background(), CommandRequest{Query: "asdkjasd", CurrentPath: "Docs"})
	require.NoError(t, err)
	assert.Equal(t, perception.SourceFallback, resp.Source)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Fallback)
	assert.NotEmpty(t, resp.Result.Message)
	assert.Equal(t, types.ActionList, resp.Result.Action)
	assert.Equal(t, "Docs", resp.Result.Path)
}

func TestCommand_UserErrorIsReturned(t *testing.T) {
	s, _ := newService(t, map[string]string{"report.pdf": "r"}, nil)
	_, err := s.Command(context.Background(), CommandRequest{Query: "add tag to report.pdf"})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestCommand_ModelPlanAbortsOnFirstFailure(t *testing.T) {
	client := &queuedClient{responses: []string{`Sure! {"action": "multi_step", "steps": [
		{"action": "create_folder", "params": {"name": "Q3"}},
		{"action": "move", "params": {"from": "ghost.pdf", "to": "Q3/ghost.pdf"}},
		{"action": "move", "params": {"from": "q3.pdf", "to": "Q3/q3.pdf"}}
	]}`}}
	s, root := newService(t, map[string]string{"q3.pdf": "q"}, client)

	_, err := approve(t, s, CommandRequest{Query: "gather up the quarter stuff"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.True(t, exists(root, "Q3"))
	assert.True(t, exists(root, "q3.pdf"))
	assert.Equal(t, 1, client.calls)
}

func TestPlanThenExecuteApproved(t *testing.T) {
	client := &queuedClient{responses: []string{`{"steps": [
		{"action": "create_folder", "params": {"name": "Invoices"}},
		{"action": "MOVE", "params": {"from": "inv1.pdf", "to": "Invoices/inv1.pdf"}},
		{"action": "move", "params": {"from": "gone.pdf", "to": "Invoices/gone.pdf"}}
	], "summary": "Group invoices"}`}}
	s, root := newService(t, map[string]string{"inv1.pdf": "1"}, client)
	ctx := context.Background()

	plan, err := s.Plan(ctx, "organize my invoices", "")
	require.NoError(t, err)
	assert.Equal(t, "Group invoices", plan.Summary)
	require.Len(t, plan.Steps, 3)
	assert.True(t, plan.Steps[1].RequiresConfirm)
	assert.False(t, exists(root, "Invoices"), "planning must not execute")

	res := s.ExecuteApproved(ctx, plan.Steps, "")
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Failed)
	assert.True(t, exists(root, "Invoices/inv1.pdf"))
	assert.NotEmpty(t, res.Steps[2].Error)
}

func TestPlan_NoModel(t *testing.T) {
	s, _ := newService(t, nil, nil)
	_, err := s.Plan(context.Background(), "tidy up", "")
	assert.ErrorIs(t, err, types.ErrModelTransport)
}

func TestWorkspaces(t *testing.T) {
	s, root := newService(t, nil, nil)
	ctx := context.Background()

	list, err := s.CreateWorkspace(ctx, "Projects")
	require.NoError(t, err)
	assert.Equal(t, "Test Disk", list.DiskLabel)
	assert.Equal(t, []string{"Projects"}, list.Workspaces)

	_, err = s.CreateWorkspace(ctx, "Projects")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	for _, bad := range []string{"", "a/b", "a:b", "what?", ".."} {
		_, err = s.CreateWorkspace(ctx, bad)
		assert.ErrorIs(t, err, types.ErrInvalidArgument, bad)
	}

	require.NoError(t, os.Remove(filepath.Join(root, "Projects")))
	list, err = s.Workspaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Workspaces)
}

func TestShareLinks(t *testing.T) {
	s, _ := newService(t, map[string]string{"Docs/a.pdf": "a"}, nil)
	ctx := context.Background()

	link, err := s.Share(ctx, "Docs/a.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, link.Token)

	item, err := s.Shared(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, &SharedItem{Path: "Docs/a.pdf", IsFile: true}, item)

	_, err = s.Shared(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.Share(ctx, "Docs/ghost.pdf")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSuggestTags(t *testing.T) {
	client := &queuedClient{responses: []string{`{"tags": ["Tax", "tax", "2024"]}`}}
	s, _ := newService(t, map[string]string{"receipt.txt": "2024 tax receipt"}, client)

	tags, err := s.SuggestTags(context.Background(), "receipt.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"tax", "2024"}, tags)

	bare, _ := newService(t, map[string]string{"receipt.txt": "r"}, nil)
	_, err = bare.SuggestTags(context.Background(), "receipt.txt")
	assert.ErrorIs(t, err, smart.ErrNoModel)
}

func TestWatch_StopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := config.DefaultConfig()
	cfg.Workspace.Root = t.TempDir()
	s, err := New(context.Background(), cfg, WithClient(nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Watch(ctx))
	_, err = s.List(ctx, "")
	require.NoError(t, err)
	cancel()
	require.NoError(t, s.Close())
}
