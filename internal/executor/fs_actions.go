package executor

import (
	"context"
	"errors"
	"strings"

	"organizer/internal/logging"
	"organizer/internal/resolver"
	"organizer/internal/sandbox"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// =============================================================================
// FILESYSTEM ACTIONS
// =============================================================================

func (e *Executor) handleList(ctx context.Context, p types.Params, current string) (*types.Result, error) {
	dir := pathParam(p, current)
	items, err := e.ws.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	res := types.OK(types.ActionList)
	res.Path = dir
	res.Items = items
	res.Count = len(items)
	return res, nil
}

// handleCreateFolder creates name under path (default current). Existing
// names get a "(n)" suffix unless reuse is set and a folder of that name is
// already there. Top-level folders are registered as workspaces.
func (e *Executor) handleCreateFolder(ctx context.Context, p types.Params, current string) (*types.Result, error) {
	name := p.String(nameKeys...)
	if name == "" {
		return nil, types.InvalidArgument("create_folder", "folder name required")
	}
	full := sandbox.Clean(types.JoinPath(pathParam(p, current), name))
	if full == "" {
		return nil, types.InvalidArgument("create_folder", "invalid folder name %q", name)
	}
	parent, leaf := types.ParentPath(full), types.BaseName(full)

	if p.Bool("reuse") {
		if fi, err := e.ws.Stat(ctx, full); err == nil {
			// Steps after a reuse target full itself; a suffixed folder
			// would send them somewhere else.
			if !fi.IsDir {
				return nil, types.InvalidArgument("create_folder", "a file named %q already exists", leaf)
			}
			res := types.OK(types.ActionCreateFolder)
			res.Path, res.Name = full, leaf
			res.Message = "folder already exists"
			return res, nil
		}
	}

	siblings, err := e.ws.List(ctx, parent)
	switch {
	case errors.Is(err, types.ErrNotFound):
		if err := e.ws.Mkdir(ctx, parent, true); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	// Hidden names are not listed but still collide.
	names := entryNames(siblings)
	if !contains(names, leaf) && e.ws.Exists(ctx, types.JoinPath(parent, leaf)) {
		names = append(names, leaf)
	}
	leaf = resolver.UniqueFolderName(leaf, names)
	target := types.JoinPath(parent, leaf)

	if err := e.ws.Mkdir(ctx, target, false); err != nil {
		return nil, err
	}
	if parent == "" && e.meta != nil {
		if err := e.meta.RegisterWorkspace(ctx, leaf); err != nil {
			logging.For(ctx, logging.CategoryStore).Warn("failed to register workspace", zap.String("name", leaf), zap.Error(err))
		}
	}

	res := types.OK(types.ActionCreateFolder)
	res.Path, res.Name = target, leaf
	return res, nil
}

// transfer resolves the from/to pair shared by move and copy. A destination
// that is an existing directory receives the source inside it.
func (e *Executor) transfer(ctx context.Context, op string, p types.Params) (string, string, error) {
	from := sandbox.Clean(p.String(fromKeys...))
	to := sandbox.Clean(p.String(toKeys...))
	if from == "" || to == "" {
		return "", "", types.InvalidArgument(op, "from and to paths required")
	}
	if from != to {
		if fi, err := e.ws.Stat(ctx, to); err == nil && fi.IsDir && !strings.HasPrefix(to, from+"/") {
			to = types.JoinPath(to, types.BaseName(from))
		}
	}
	return from, to, nil
}

func (e *Executor) handleMove(ctx context.Context, p types.Params) (*types.Result, error) {
	from, to, err := e.transfer(ctx, "move", p)
	if err != nil {
		return nil, err
	}
	if err := e.ws.Move(ctx, from, to); err != nil {
		return nil, err
	}
	e.rekey(ctx, from, to)

	res := types.OK(types.ActionMove)
	res.From, res.To = from, to
	if from == to {
		res.Message = "already in place"
	}
	return res, nil
}

func (e *Executor) handleCopy(ctx context.Context, p types.Params) (*types.Result, error) {
	from, to, err := e.transfer(ctx, "copy", p)
	if err != nil {
		return nil, err
	}
	if err := e.ws.Copy(ctx, from, to); err != nil {
		return nil, err
	}
	res := types.OK(types.ActionCopy)
	res.From, res.To = from, to
	return res, nil
}

func (e *Executor) handleDelete(ctx context.Context, p types.Params) (*types.Result, error) {
	path, err := requirePath("delete", p)
	if err != nil {
		return nil, err
	}
	fi, err := e.ws.Remove(ctx, path)
	if err != nil {
		return nil, err
	}
	e.forget(ctx, path)

	res := types.OK(types.ActionDelete)
	res.Path = path
	res.IsDirectory = fi.IsDir
	return res, nil
}

// handleRename renames path in place; newName must be a plain name.
func (e *Executor) handleRename(ctx context.Context, p types.Params) (*types.Result, error) {
	path, err := requirePath("rename", p)
	if err != nil {
		return nil, err
	}
	newName := strings.TrimSpace(p.String(newNameKeys...))
	if newName == "" || newName == "." || newName == ".." || strings.ContainsAny(newName, `/\`) {
		return nil, types.InvalidArgument("rename", "invalid new name %q", newName)
	}
	to := types.JoinPath(types.ParentPath(path), newName)
	if err := e.ws.Move(ctx, path, to); err != nil {
		return nil, err
	}
	e.rekey(ctx, path, to)

	res := types.OK(types.ActionRename)
	res.From, res.To, res.Name = path, to, newName
	return res, nil
}

// handleNavigate opens a folder. A file target opens its parent and marks
// the file for selection.
func (e *Executor) handleNavigate(ctx context.Context, p types.Params, current string) (*types.Result, error) {
	path := pathParam(p, current)
	fi, err := e.ws.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	res := types.OK(types.ActionNavigate)
	if fi.IsDir {
		res.Path = path
	} else {
		res.Path = types.ParentPath(path)
		res.SelectFile = path
	}
	e.remember(ctx, path)
	return res, nil
}

// rekey carries metadata along with a moved path.
func (e *Executor) rekey(ctx context.Context, from, to string) {
	if e.meta == nil || from == to {
		return
	}
	if err := e.meta.MovePath(ctx, from, to); err != nil {
		logging.For(ctx, logging.CategoryStore).Warn("failed to move metadata",
			zap.String("from", from), zap.String("to", to), zap.Error(err))
	}
}

// forget drops metadata for deleted paths.
func (e *Executor) forget(ctx context.Context, paths ...string) {
	if e.meta == nil || len(paths) == 0 {
		return
	}
	if err := e.meta.RemovePaths(ctx, paths...); err != nil {
		logging.For(ctx, logging.CategoryStore).Warn("failed to drop metadata", zap.Strings("paths", paths), zap.Error(err))
	}
}

func entryNames(entries []types.DirectoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
