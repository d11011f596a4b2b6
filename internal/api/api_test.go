package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"organizer/internal/config"
	"organizer/internal/metastore"
	"organizer/internal/organizer"
	"organizer/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, files map[string]string) (http.Handler, string) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	cfg := config.DefaultConfig()
	cfg.Workspace.Root = root
	svc, err := organizer.New(context.Background(), cfg, organizer.WithClient(nil))
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return New(svc, cfg.Server).Handler(), root
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t, nil)
	w := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	assert.JSONEq(t, `{"status":"ok","model":false}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t, nil)
	do(t, h, http.MethodGet, "/healthz", nil)
	w := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "organizer_http_requests_total")
}

func TestCommand_HoldsThenRuns(t *testing.T) {
	h, root := newTestServer(t, map[string]string{"notes.txt": "n"})

	w := do(t, h, http.MethodPost, "/api/ai-command", map[string]any{"query": "delete notes.txt"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[organizer.CommandResponse](t, w)
	assert.True(t, resp.RequiresConfirm)
	assert.FileExists(t, filepath.Join(root, "notes.txt"))

	// Confirming without the held actions is rejected rather than re-read.
	w = do(t, h, http.MethodPost, "/api/ai-command", map[string]any{"query": "delete notes.txt", "confirmed": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.FileExists(t, filepath.Join(root, "notes.txt"))

	w = do(t, h, http.MethodPost, "/api/ai-command", map[string]any{"confirmed": true, "actions": resp.Actions})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[organizer.CommandResponse](t, w)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Success)
	assert.Equal(t, "approved", string(resp.Source))
	assert.NoFileExists(t, filepath.Join(root, "notes.txt"))
}

func TestCommand_Errors(t *testing.T) {
	h, _ := newTestServer(t, map[string]string{"a.txt": "a"})

	w := do(t, h, http.MethodPost, "/api/ai-command", `{"query": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/ai-command", map[string]any{"query": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/ai-command", map[string]any{"query": "add tag to a.txt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_argument", decode[ErrorResponse](t, w).Code)
}

func TestAgent(t *testing.T) {
	h, root := newTestServer(t, map[string]string{"inv.pdf": "i"})

	w := do(t, h, http.MethodPost, "/api/ai-agent", map[string]any{"goal": "organize"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, h, http.MethodPost, "/api/ai-agent", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/ai-agent", map[string]any{
		"execute": true,
		"steps": []map[string]any{
			{"action": "create_folder", "params": map[string]any{"name": "Invoices"}},
			{"action": "move", "params": map[string]any{"from": "inv.pdf", "to": "Invoices/inv.pdf"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[types.Result](t, w)
	assert.True(t, res.Success)
	assert.Len(t, res.Steps, 2)
	assert.FileExists(t, filepath.Join(root, "Invoices", "inv.pdf"))
}

func TestListAndSearch(t *testing.T) {
	h, _ := newTestServer(t, map[string]string{
		"Docs/quarterly report.pdf": "q",
		"Docs/notes.txt":            "n",
	})

	w := do(t, h, http.MethodGet, "/api/list?path=Docs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[types.Result](t, w).Count)

	w = do(t, h, http.MethodGet, "/api/list?path=Nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/search?q=qr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[types.Result](t, w)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Docs/quarterly report.pdf", res.Items[0].Path)

	w = do(t, h, http.MethodGet, "/api/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeta(t *testing.T) {
	h, _ := newTestServer(t, map[string]string{"a.pdf": "a"})

	w := do(t, h, http.MethodPost, "/api/meta", map[string]any{
		"path":    "a.pdf",
		"recents": true,
		"meta":    map[string]any{"starred": true, "tags": []string{"tax"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, "/api/meta", map[string]any{"path": "a.pdf", "meta": map[string]any{"comments": "keep"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/meta", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[metastore.Sidecar](t, w)
	assert.Equal(t, []string{"a.pdf"}, doc.Recents)
	assert.Equal(t, &metastore.ItemMeta{Tags: []string{"tax"}, Comments: "keep", Starred: true}, doc.Meta["a.pdf"])

	w = do(t, h, http.MethodPost, "/api/meta", map[string]any{"recents": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkspacesEndpoints(t *testing.T) {
	h, _ := newTestServer(t, nil)

	w := do(t, h, http.MethodPost, "/api/workspaces", map[string]any{"name": "Projects"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Projects"}, decode[organizer.WorkspaceList](t, w).Workspaces)

	w = do(t, h, http.MethodPost, "/api/workspaces", map[string]any{"name": "Projects"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "Workspace already exists")

	w = do(t, h, http.MethodPost, "/api/workspaces", map[string]any{"name": "a|b"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/workspaces", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[organizer.WorkspaceList](t, w)
	assert.Equal(t, "Workspace", list.DiskLabel)
	assert.Equal(t, []string{"Projects"}, list.Workspaces)
}

func TestShare(t *testing.T) {
	h, _ := newTestServer(t, map[string]string{"Docs/a.pdf": "a"})

	w := do(t, h, http.MethodPost, "/api/share", map[string]any{"path": "Docs"})
	require.Equal(t, http.StatusOK, w.Code)
	share := decode[ShareResponse](t, w)
	require.NotEmpty(t, share.Token)
	assert.True(t, strings.HasSuffix(share.Link, share.Token))

	w = do(t, h, http.MethodGet, "/api/share?token="+share.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, organizer.SharedItem{Path: "Docs", IsFile: false}, decode[organizer.SharedItem](t, w))

	w = do(t, h, http.MethodGet, "/api/share", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, http.MethodGet, "/api/share?token=nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, h, http.MethodPost, "/api/share", map[string]any{"path": "ghost.pdf"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		types.AccessDenied("move", "../x"):    http.StatusForbidden,
		types.NotFound("list", "x", nil):      http.StatusNotFound,
		types.InvalidArgument("move", "from"): http.StatusBadRequest,
		types.Unsupported("explode"):          http.StatusBadRequest,
		types.InvalidModelResponse(nil):       http.StatusBadGateway,
		types.ErrModelTransport:               http.StatusBadGateway,
		assert.AnError:                        http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}
}
