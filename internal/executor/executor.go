// Package executor performs canonical actions against the sandboxed
// workspace and the sidecar metadata. It is stateless between calls: all
// state lives on disk.
package executor

import (
	"context"
	"time"

	"organizer/internal/config"
	"organizer/internal/fsops"
	"organizer/internal/logging"
	"organizer/internal/metastore"
	"organizer/internal/metrics"
	"organizer/internal/sandbox"
	"organizer/internal/smart"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// Executor dispatches canonical actions.
type Executor struct {
	ws     *fsops.Workspace
	meta   *metastore.Meta
	smart  *smart.Helper
	limits config.Limits
}

// New wires an executor. helper may be nil; model-backed actions then fail
// with smart.ErrNoModel.
func New(ws *fsops.Workspace, meta *metastore.Meta, helper *smart.Helper, limits config.Limits) *Executor {
	return &Executor{ws: ws, meta: meta, smart: helper, limits: limits}
}

// Workspace returns the filesystem the executor mutates.
func (e *Executor) Workspace() *fsops.Workspace { return e.ws }

// Meta returns the sidecar metadata manager.
func (e *Executor) Meta() *metastore.Meta { return e.meta }

// Execute performs one action. current is the directory the command was
// issued from and is the default target for actions without a path.
func (e *Executor) Execute(ctx context.Context, kind types.ActionKind, params types.Params, current string) (*types.Result, error) {
	if params == nil {
		params = types.Params{}
	}
	current = sandbox.Clean(current)

	start := time.Now()
	done := logging.Timed(ctx, logging.AuditActionExecute, string(kind), current)
	res, err := e.dispatch(ctx, kind, params, current)
	done(err)
	metrics.RecordAction(kind, time.Since(start), err)

	if err != nil {
		logging.For(ctx, logging.CategoryExecutor).Info("action failed",
			zap.String("action", string(kind)), zap.Error(err))
		return nil, err
	}
	return res, nil
}

// dispatch routes an action to its handler.
func (e *Executor) dispatch(ctx context.Context, kind types.ActionKind, p types.Params, current string) (*types.Result, error) {
	switch kind {
	case types.ActionList:
		return e.handleList(ctx, p, current)
	case types.ActionCreateFolder:
		return e.handleCreateFolder(ctx, p, current)
	case types.ActionMove:
		return e.handleMove(ctx, p)
	case types.ActionCopy:
		return e.handleCopy(ctx, p)
	case types.ActionDelete:
		return e.handleDelete(ctx, p)
	case types.ActionRename:
		return e.handleRename(ctx, p)
	case types.ActionInfo:
		return e.handleInfo(ctx, p, current)
	case types.ActionSearch:
		return e.handleSearch(ctx, p)
	case types.ActionSemanticSearch:
		return e.handleSemanticSearch(ctx, p)
	case types.ActionSuggest:
		return e.handleSuggest(ctx, p, current)
	case types.ActionOrganize:
		return e.handleOrganize(ctx, p, current)
	case types.ActionNavigate:
		return e.handleNavigate(ctx, p, current)
	case types.ActionAddFavorite:
		return e.handleFavorite(ctx, p, true)
	case types.ActionRemoveFavorite:
		return e.handleFavorite(ctx, p, false)
	case types.ActionAddTag:
		return e.handleAddTag(ctx, p)
	case types.ActionAddComment:
		return e.handleAddComment(ctx, p)
	case types.ActionRemoveDuplicates:
		return e.handleRemoveDuplicates(ctx, p, current)
	case types.ActionDirectorySize:
		return e.handleDirectorySize(ctx, p, current)
	default:
		return nil, types.Unsupported(string(kind))
	}
}

// =============================================================================
// PARAMETERS
// =============================================================================

var (
	fromKeys    = []string{"from", "source", "src"}
	toKeys      = []string{"to", "destination", "dest"}
	pathKeys    = []string{"path", "target"}
	nameKeys    = []string{"name", "folderName", "folder_name"}
	newNameKeys = []string{"newName", "new_name", "name"}
	queryKeys   = []string{"query", "q"}
)

// pathParam returns the target path. A path key that is present, even when
// empty, wins over fallback; an empty value names the workspace root.
func pathParam(p types.Params, fallback string) string {
	for _, k := range pathKeys {
		if v, ok := p[k]; ok && v != nil {
			return sandbox.Clean(types.ExtractString(v))
		}
	}
	return fallback
}

// requirePath returns a non-root target path or an InvalidArgument error.
func requirePath(op string, p types.Params) (string, error) {
	path := sandbox.Clean(p.String(pathKeys...))
	if path == "" {
		return "", types.InvalidArgument(op, "path required")
	}
	return path, nil
}

// remember adds path to recents. Failures are logged and otherwise ignored:
// recents are a convenience, not part of the action.
func (e *Executor) remember(ctx context.Context, path string) {
	if e.meta == nil || path == "" {
		return
	}
	if err := e.meta.AddRecent(ctx, path); err != nil {
		logging.For(ctx, logging.CategoryStore).Warn("failed to record recent", zap.String("path", path), zap.Error(err))
	}
}

// model returns the smart helper or ErrNoModel.
func (e *Executor) model() (*smart.Helper, error) {
	if e.smart == nil || !e.smart.Available() {
		return nil, smart.ErrNoModel
	}
	return e.smart, nil
}
