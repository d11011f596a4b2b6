package executor

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"organizer/internal/logging"
	"organizer/internal/resolver"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// =============================================================================
// MODEL-ASSISTED ACTIONS
// =============================================================================

// handleSemanticSearch matches file contents under path (default: the whole
// workspace) against the query.
func (e *Executor) handleSemanticSearch(ctx context.Context, p types.Params) (*types.Result, error) {
	query := p.String(queryKeys...)
	if query == "" {
		return nil, types.InvalidArgument("semantic_search", "search query required")
	}
	h, err := e.model()
	if err != nil {
		return nil, err
	}
	scope := pathParam(p, "")
	all, err := e.ws.Walk(ctx, scope)
	if err != nil {
		return nil, err
	}
	items, err := h.SemanticMatch(ctx, all, query)
	if err != nil {
		return nil, err
	}
	res := types.OK(types.ActionSemanticSearch)
	res.Path = scope
	res.Items = items
	res.Count = len(items)
	return res, nil
}

func (e *Executor) handleSuggest(ctx context.Context, p types.Params, current string) (*types.Result, error) {
	h, err := e.model()
	if err != nil {
		return nil, err
	}
	dir := pathParam(p, current)
	entries, err := e.ws.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	s, err := h.Suggest(ctx, entries)
	if err != nil {
		return nil, err
	}
	res := types.OK(types.ActionSuggest)
	res.Path = dir
	res.Duplicates = s.Duplicates
	res.Suggestions = s.Folders
	return res, nil
}

// categoryFolders names the folder organize collects a category into.
var categoryFolders = map[types.Category]string{
	types.CategoryImage:    "Images",
	types.CategoryAudio:    "Audio",
	types.CategoryVideo:    "Videos",
	types.CategoryDocument: "Documents",
	types.CategoryPDF:      "PDFs",
}

// handleOrganize moves every file of a category into one folder. Without a
// category it asks for folder suggestions and applies them. Per-file
// failures are counted, not fatal.
func (e *Executor) handleOrganize(ctx context.Context, p types.Params, current string) (*types.Result, error) {
	dir := pathParam(p, current)
	if cat, ok := types.ParseCategory(p.String("category", "type")); ok {
		folder := p.String("folder")
		if folder == "" {
			folder = categoryFolders[cat]
		}
		return e.organizeCategory(ctx, dir, cat, folder)
	}

	h, err := e.model()
	if err != nil {
		return nil, err
	}
	entries, err := e.ws.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	s, err := h.Suggest(ctx, entries)
	if err != nil {
		return nil, err
	}

	res := types.OK(types.ActionOrganize)
	res.Path = dir
	res.Suggestions = s.Folders
	for _, sg := range s.Folders {
		target := types.JoinPath(dir, sg.Folder)
		if err := e.ws.Mkdir(ctx, target, true); err != nil {
			logging.For(ctx, logging.CategoryExecutor).Warn("organize: cannot create folder", zap.String("folder", target), zap.Error(err))
			res.Failed += len(sg.Files)
			continue
		}
		for _, f := range sg.Files {
			if !e.ws.Exists(ctx, f) {
				continue
			}
			if e.moveInto(ctx, f, target) {
				res.Moved++
			} else {
				res.Failed++
			}
		}
	}
	return res, nil
}

func (e *Executor) organizeCategory(ctx context.Context, dir string, cat types.Category, folder string) (*types.Result, error) {
	entries, err := e.ws.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	target := types.JoinPath(dir, folder)
	res := types.OK(types.ActionOrganize)
	res.Path = dir
	res.Folder = target

	var files []types.DirectoryEntry
	for _, entry := range entries {
		if !entry.IsDir() && cat.Matches(entry.Name) {
			files = append(files, entry)
		}
	}
	if len(files) == 0 {
		res.Message = "no " + string(cat) + " files found"
		return res, nil
	}
	if err := e.ws.Mkdir(ctx, target, true); err != nil {
		return nil, err
	}
	for _, f := range files {
		if e.moveInto(ctx, f.Path, target) {
			res.Moved++
		} else {
			res.Failed++
		}
	}
	return res, nil
}

// moveInto moves src into dir under a collision-free name.
func (e *Executor) moveInto(ctx context.Context, src, dir string) bool {
	existing, err := e.ws.List(ctx, dir)
	if err != nil {
		return false
	}
	to := types.JoinPath(dir, resolver.UniqueName(types.BaseName(src), entryNames(existing)))
	if err := e.ws.Move(ctx, src, to); err != nil {
		logging.For(ctx, logging.CategoryExecutor).Warn("organize: move failed", zap.String("from", src), zap.Error(err))
		return false
	}
	e.rekey(ctx, src, to)
	return true
}

// =============================================================================
// DUPLICATES
// =============================================================================

var copySuffix = regexp.MustCompile(`^(.*?)\s?\(\d+\)$`)

// duplicateKey strips a "(n)" copy marker: "a (2).pdf" and "a(3).pdf" both
// key as "a.pdf". suffixed reports whether a marker was present.
func duplicateKey(name string) (key string, suffixed bool) {
	ext := ""
	base := name
	if i := strings.LastIndex(name, "."); i > 0 {
		base, ext = name[:i], name[i:]
	}
	if m := copySuffix.FindStringSubmatch(base); m != nil {
		return strings.ToLower(m[1] + ext), true
	}
	return strings.ToLower(name), false
}

// heuristicGroups groups files that differ only by a copy marker.
func heuristicGroups(files []types.DirectoryEntry) [][]string {
	byKey := make(map[string][]string)
	var order []string
	for _, f := range files {
		k, _ := duplicateKey(f.Name)
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], f.Path)
	}
	var out [][]string
	for _, k := range order {
		if len(byKey[k]) > 1 {
			out = append(out, byKey[k])
		}
	}
	return out
}

// mergeGroups unions groups that share a member.
func mergeGroups(groups [][]string) [][]string {
	var merged [][]string
	for _, g := range groups {
		cur := slices.Clone(g)
		var rest [][]string
		for _, m := range merged {
			if slices.ContainsFunc(m, func(p string) bool { return slices.Contains(cur, p) }) {
				for _, p := range m {
					if !slices.Contains(cur, p) {
						cur = append(cur, p)
					}
				}
			} else {
				rest = append(rest, m)
			}
		}
		merged = append(rest, cur)
	}
	for _, m := range merged {
		slices.Sort(m)
	}
	slices.SortFunc(merged, func(a, b []string) int { return strings.Compare(a[0], b[0]) })
	return merged
}

// keeper picks the member to keep: the first in sorted order without a copy
// marker, else the first.
func keeper(group []string) string {
	for _, p := range group {
		if _, suffixed := duplicateKey(types.BaseName(p)); !suffixed {
			return p
		}
	}
	return group[0]
}

// handleRemoveDuplicates deletes all but one file of each duplicate group in
// path. Groups come from the copy-marker heuristic merged with the model's
// groups when a model is available.
func (e *Executor) handleRemoveDuplicates(ctx context.Context, p types.Params, current string) (*types.Result, error) {
	dir := pathParam(p, current)
	entries, err := e.ws.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	var files []types.DirectoryEntry
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry)
		}
	}

	groups := heuristicGroups(files)
	if h, err := e.model(); err == nil {
		s, err := h.Suggest(ctx, files)
		if err != nil {
			logging.For(ctx, logging.CategoryExecutor).Warn("duplicate suggestions unavailable, using name heuristic", zap.Error(err))
		} else {
			for _, g := range s.Duplicates {
				groups = append(groups, g.Files)
			}
		}
	}

	res := types.OK(types.ActionRemoveDuplicates)
	res.Path = dir
	res.Deleted = []string{}
	res.Kept = []string{}
	for _, g := range mergeGroups(groups) {
		if len(g) < 2 {
			continue
		}
		keep := keeper(g)
		res.Kept = append(res.Kept, keep)
		for _, path := range g {
			if path == keep {
				continue
			}
			if _, err := e.ws.Remove(ctx, path); err != nil {
				logging.For(ctx, logging.CategoryExecutor).Warn("duplicate removal failed", zap.String("path", path), zap.Error(err))
				res.Failed++
				continue
			}
			res.Deleted = append(res.Deleted, path)
		}
	}
	e.forget(ctx, res.Deleted...)
	res.Count = len(res.Deleted)
	return res, nil
}
