package executor

import (
	"context"
	"strings"

	"organizer/internal/types"
)

// =============================================================================
// METADATA ACTIONS
// =============================================================================

// metaTarget validates that the path names an existing item.
func (e *Executor) metaTarget(ctx context.Context, op string, p types.Params) (string, error) {
	path, err := requirePath(op, p)
	if err != nil {
		return "", err
	}
	if _, err := e.ws.Stat(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

func (e *Executor) handleFavorite(ctx context.Context, p types.Params, starred bool) (*types.Result, error) {
	kind := types.ActionAddFavorite
	if !starred {
		kind = types.ActionRemoveFavorite
	}
	path, err := e.metaTarget(ctx, string(kind), p)
	if err != nil {
		return nil, err
	}
	it, err := e.meta.SetStarred(ctx, path, starred)
	if err != nil {
		return nil, err
	}
	res := types.OK(kind)
	res.Path = path
	res.Starred = &it.Starred
	return res, nil
}

func (e *Executor) handleAddTag(ctx context.Context, p types.Params) (*types.Result, error) {
	var tags []string
	for _, t := range p.Strings("tags", "tag") {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}
	if len(tags) == 0 {
		return nil, types.InvalidArgument("add_tag", "tag required")
	}
	path, err := e.metaTarget(ctx, "add_tag", p)
	if err != nil {
		return nil, err
	}
	it, err := e.meta.AddTags(ctx, path, tags)
	if err != nil {
		return nil, err
	}
	res := types.OK(types.ActionAddTag)
	res.Path = path
	res.Tags = it.Tags
	return res, nil
}

func (e *Executor) handleAddComment(ctx context.Context, p types.Params) (*types.Result, error) {
	comment := p.String("comment", "comments", "text")
	if comment == "" {
		return nil, types.InvalidArgument("add_comment", "comment text required")
	}
	path, err := e.metaTarget(ctx, "add_comment", p)
	if err != nil {
		return nil, err
	}
	it, err := e.meta.SetComment(ctx, path, comment)
	if err != nil {
		return nil, err
	}
	res := types.OK(types.ActionAddComment)
	res.Path = path
	res.Comment = it.Comments
	return res, nil
}
