package perception

import (
	"context"
	"regexp"
	"strings"

	"organizer/internal/fsops"
	"organizer/internal/resolver"
	"organizer/internal/types"
)

// =============================================================================
// PATTERN COMMAND MATCHERS
// =============================================================================
//
// Matchers are deterministic phrase recognizers tried before any model call.
// Rules runs top to bottom and the first non-nil Match wins, so the order of
// the table is part of its behavior: specific phrasings sit above the
// generic ones that would otherwise swallow them.

// Input is a filler-stripped command.
type Input struct {
	Raw   string // original casing, used for names
	Lower string
}

// NewInput normalizes text for matching.
func NewInput(text string) Input {
	raw := squash(StripFiller(text))
	return Input{Raw: raw, Lower: strings.ToLower(raw)}
}

// Stater is the raw stat capability used when a name is not in any listing.
type Stater interface {
	Stat(ctx context.Context, rel string) (fsops.FileInfo, error)
}

// MatchContext is what a rule may consult. Resolver and FS are optional;
// without a Resolver only Known is searched.
type MatchContext struct {
	Current  string
	Known    []types.DirectoryEntry
	Resolver *resolver.Resolver
	FS       Stater
}

// Match is a claimed command. Err is set only for explicit user mistakes
// (a tag with no name, an invalid workspace name) and is terminal.
type Match struct {
	Rule    string
	Actions []types.CanonicalAction
	Err     error
}

// Rule is one named entry of the matcher table.
type Rule struct {
	Name  string
	Match func(ctx context.Context, in Input, mc *MatchContext) *Match
}

// Rules is the matcher table in priority order.
var Rules = []Rule{
	{"info", matchInfo},
	{"duplicates", matchDuplicates},
	{"list", matchList},
	{"contents", matchContents},
	{"current_size", matchCurrentSize},
	{"named_size", matchNamedSize},
	{"category_search", matchCategorySearch},
	{"navigate", matchNavigate},
	{"size_fallback", matchSizeFallback},
	{"favorites", matchFavorites},
	{"tags", matchTags},
	{"comments", matchComments},
	{"rename", matchRename},
	{"delete", matchDelete},
	{"create_folder", matchCreateFolder},
	{"duplicate", matchDuplicate},
	{"new_workspace", matchNewWorkspace},
	{"here", matchHere},
	{"move_copy", matchMoveCopy},
}

// MatchCommand runs the table over text. It returns nil when no rule claims
// the command.
func MatchCommand(ctx context.Context, text string, mc *MatchContext) *Match {
	in := NewInput(text)
	if in.Raw == "" {
		return nil
	}
	for _, r := range Rules {
		if m := r.Match(ctx, in, mc); m != nil {
			m.Rule = r.Name
			return m
		}
	}
	return nil
}

func one(kind types.ActionKind, params types.Params) *Match {
	return &Match{Actions: []types.CanonicalAction{types.NewAction(kind, params)}}
}

func userError(err error) *Match {
	return &Match{Err: err}
}

// name strips quotes and the "@" mention prefix the UI inserts.
func name(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(trimQuotes(s), "@"))
}

// =============================================================================
// RESOLUTION HELPERS
// =============================================================================

func (mc *MatchContext) find(ctx context.Context, phrase string, opts resolver.Options) *types.DirectoryEntry {
	phrase = name(phrase)
	if mc.Resolver == nil {
		if e := resolver.Resolve(phrase, mc.Known, opts); e != nil {
			return e
		}
		if cleaned := resolver.CleanPhrase(phrase); cleaned != phrase {
			return resolver.Resolve(cleaned, mc.Known, opts)
		}
		return nil
	}
	return mc.Resolver.Find(ctx, phrase, mc.Known, mc.Current, opts)
}

// findExact prefers an exact name over one that merely contains the phrase.
func (mc *MatchContext) findExact(ctx context.Context, phrase string, kind resolver.Kind) *types.DirectoryEntry {
	if mc.Resolver != nil {
		return mc.Resolver.FindExact(ctx, name(phrase), mc.Known, mc.Current, kind)
	}
	if e := mc.find(ctx, phrase, resolver.Options{Kind: kind, NoSubstring: true}); e != nil {
		return e
	}
	return mc.find(ctx, phrase, resolver.Options{Kind: kind})
}

// live lists the current directory from disk when a resolver is wired, and
// falls back to the known entries under it otherwise.
func (mc *MatchContext) live(ctx context.Context) []types.DirectoryEntry {
	if mc.Resolver != nil {
		if entries, err := mc.Resolver.Live(ctx, mc.Current); err == nil {
			return entries
		}
	}
	var out []types.DirectoryEntry
	for _, e := range mc.Known {
		if types.ParentPath(e.Path) == mc.Current {
			out = append(out, e)
		}
	}
	return out
}

// stat tries phrase relative to the current directory, then to the root.
func (mc *MatchContext) stat(ctx context.Context, phrase string) (string, fsops.FileInfo, bool) {
	if mc.FS == nil {
		return "", fsops.FileInfo{}, false
	}
	p := resolver.CleanPhrase(name(phrase))
	if p == "" {
		return "", fsops.FileInfo{}, false
	}
	for _, rel := range []string{types.JoinPath(mc.Current, p), types.JoinPath(p)} {
		if fi, err := mc.FS.Stat(ctx, rel); err == nil {
			return rel, fi, true
		}
	}
	return "", fsops.FileInfo{}, false
}

func (mc *MatchContext) currentNames(ctx context.Context) []string {
	entries := mc.live(ctx)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// sizeOf turns a resolved entry into directory_size or info.
func sizeOf(path string, isDir bool) *Match {
	if isDir {
		return one(types.ActionDirectorySize, types.Params{"path": path})
	}
	return one(types.ActionInfo, types.Params{"path": path})
}

// =============================================================================
// RULES
// =============================================================================

var (
	infoHereRe   = regexp.MustCompile(`^(?:show|get|view)\s+(?:the\s+)?info(?:rmation)?$`)
	infoTargetRe = regexp.MustCompile(`(?i)^(?:show|get|view)\s+(?:the\s+)?info(?:rmation)?\s+(?:on|about|for|of)\s+(.+)$`)
)

func matchInfo(ctx context.Context, in Input, mc *MatchContext) *Match {
	if infoHereRe.MatchString(in.Lower) {
		return one(types.ActionInfo, types.Params{"path": mc.Current})
	}
	if m := infoTargetRe.FindStringSubmatch(in.Raw); m != nil {
		if e := mc.findExact(ctx, m[1], resolver.AnyKind); e != nil {
			return one(types.ActionInfo, types.Params{"path": e.Path})
		}
	}
	return nil
}

var (
	dupRemoveRe = regexp.MustCompile(`^(?:remove|merge|delete|clean(?:\s+up)?|dedupe)\s+(?:the\s+|all\s+|my\s+)?duplicates?(?:\s+files)?$`)
	dupFindRe   = regexp.MustCompile(`^(?:find|show|detect|list|check\s+for)\s+(?:me\s+)?(?:the\s+|all\s+|any\s+)?duplicates?(?:\s+files)?$`)
)

func matchDuplicates(_ context.Context, in Input, mc *MatchContext) *Match {
	switch {
	case dupRemoveRe.MatchString(in.Lower):
		return one(types.ActionRemoveDuplicates, types.Params{"path": mc.Current})
	case dupFindRe.MatchString(in.Lower):
		return one(types.ActionSuggest, types.Params{"path": mc.Current})
	}
	return nil
}

var listRe = regexp.MustCompile(`^(?:list|list (?:the )?contents|list (?:all )?files|list everything|ls|show files|show (?:all )?files|what'?s here|what is here|refresh|reload)$`)

func matchList(_ context.Context, in Input, mc *MatchContext) *Match {
	if listRe.MatchString(in.Lower) {
		return one(types.ActionList, types.Params{"path": mc.Current})
	}
	return nil
}

var contentsRe = regexp.MustCompile(`(?i)^(?:(?:show|list|get)\s+(?:me\s+)?(?:the\s+)?)?contents\s+of\s+(.+)$|^what(?:'s|\s+is)\s+in(?:side)?\s+(.+)$`)

func matchContents(ctx context.Context, in Input, mc *MatchContext) *Match {
	m := contentsRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	target := m[1]
	if target == "" {
		target = m[2]
	}
	if isRootWord(target) {
		return one(types.ActionList, types.Params{"path": ""})
	}
	if e := mc.findExact(ctx, target, resolver.DirOnly); e != nil {
		return one(types.ActionList, types.Params{"path": e.Path})
	}
	return nil
}

var currentSizeRe = regexp.MustCompile(`^(?:(?:what(?:'s|\s+is)|how\s+big\s+is|show|get|check)\s+)?(?:the\s+)?(?:size\s+of\s+)?(?:this|the\s+current|current)\s+(?:directory|folder|dir)(?:'s)?(?:\s+size)?$|^(?:directory|folder)\s+size$`)

func matchCurrentSize(_ context.Context, in Input, mc *MatchContext) *Match {
	if currentSizeRe.MatchString(in.Lower) {
		return one(types.ActionDirectorySize, types.Params{"path": mc.Current})
	}
	return nil
}

var (
	namedSizeRe = regexp.MustCompile(`(?i)^(?:what(?:'s|\s+is)\s+)?(?:the\s+)?size\s+of\s+(.+)$|^how\s+big\s+is\s+(.+)$`)
	itsSizeRe   = regexp.MustCompile(`(?i)^(.+?)\s+(?:its|it's|total)\s+size$`)
)

// matchNamedSize handles a size question about a specific item. When the
// item is not in any listing a raw stat is tried; if that misses too the
// command falls through to the generic size chain.
func matchNamedSize(ctx context.Context, in Input, mc *MatchContext) *Match {
	var target string
	if m := itsSizeRe.FindStringSubmatch(in.Raw); m != nil {
		target = m[1]
	} else if m := namedSizeRe.FindStringSubmatch(in.Raw); m != nil {
		target = m[1] + m[2]
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	if e := mc.findExact(ctx, target, resolver.AnyKind); e != nil {
		return sizeOf(e.Path, e.IsDir())
	}
	if rel, fi, ok := mc.stat(ctx, target); ok {
		return sizeOf(rel, fi.IsDir)
	}
	return nil
}

var categorySearchRe = regexp.MustCompile(`^(?:find|show|search(?:\s+for)?|list|get|where\s+are)\s+(?:me\s+)?(?:all\s+)?(?:my\s+|the\s+)?(?:all\s+)?(\w+)(?:\s+files)?$`)

func matchCategorySearch(_ context.Context, in Input, _ *MatchContext) *Match {
	m := categorySearchRe.FindStringSubmatch(in.Lower)
	if m == nil {
		return nil
	}
	cat, ok := types.CategoryForWord(m[1])
	if !ok {
		return nil
	}
	return one(types.ActionSearch, types.Params{"category": string(cat), "query": m[1]})
}

var (
	navigateRe = regexp.MustCompile(`(?i)^(?:open|go\s+(?:in)?to|navigate\s+to|cd|enter|show\s+me|take\s+me(?:\s+to)?|switch\s+to|browse)\s+(.+)$`)
	goUpRe     = regexp.MustCompile(`^(?:go\s+)?(?:back|up)(?:\s+(?:a|one)\s+(?:level|folder|directory))?$|^cd\s+\.\.$`)
)

func matchNavigate(ctx context.Context, in Input, mc *MatchContext) *Match {
	if goUpRe.MatchString(in.Lower) {
		return one(types.ActionNavigate, types.Params{"path": types.ParentPath(mc.Current)})
	}
	m := navigateRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	if isRootWord(m[1]) {
		return one(types.ActionNavigate, types.Params{"path": ""})
	}
	if e := mc.findExact(ctx, m[1], resolver.DirOnly); e != nil {
		return one(types.ActionNavigate, types.Params{"path": e.Path})
	}
	if e := mc.findExact(ctx, m[1], resolver.AnyKind); e != nil {
		return one(types.ActionNavigate, types.Params{"path": e.Path})
	}
	return nil
}

var sizeFallbackRe = regexp.MustCompile(`(?i)\bsize\s+of\s+(.+)$|^(?:get|check|calculate|compute)\s+(?:the\s+)?size\s+(?:of\s+)?(.+)$`)

// matchSizeFallback is the last word on size questions: exact directory,
// substring directory, live rescan, exact file, then the current directory.
func matchSizeFallback(ctx context.Context, in Input, mc *MatchContext) *Match {
	m := sizeFallbackRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	target := name(m[1] + m[2])
	cleaned := resolver.CleanPhrase(target)

	if e := resolver.Resolve(cleaned, mc.Known, resolver.Options{Kind: resolver.DirOnly, NoSubstring: true}); e != nil {
		return sizeOf(e.Path, true)
	}
	if e := resolver.Resolve(cleaned, mc.Known, resolver.Options{Kind: resolver.DirOnly}); e != nil {
		return sizeOf(e.Path, true)
	}
	live := mc.live(ctx)
	if e := resolver.Resolve(cleaned, live, resolver.Options{Kind: resolver.DirOnly}); e != nil {
		return sizeOf(e.Path, true)
	}
	if e := resolver.Resolve(cleaned, resolver.Merge(mc.Known, live), resolver.Options{Kind: resolver.FileOnly, NoSubstring: true}); e != nil {
		return sizeOf(e.Path, false)
	}
	return sizeOf(mc.Current, true)
}

var (
	favAddRe    = regexp.MustCompile(`(?i)^(?:star|favou?rite|bookmark|pin)\s+(.+)$|^add\s+(.+?)\s+to\s+(?:my\s+)?(?:favou?rites|starred)$`)
	favRemoveRe = regexp.MustCompile(`(?i)^(?:unstar|unfavou?rite|unpin)\s+(.+)$|^remove\s+(.+?)\s+from\s+(?:my\s+)?(?:favou?rites|starred)$`)
)

// metaTarget resolves the subject of a metadata action. An unresolved name
// is kept relative to the current directory so the executor can report it
// as missing instead of the command falling through to "delete".
func (mc *MatchContext) metaTarget(ctx context.Context, phrase string) string {
	if e := mc.findExact(ctx, phrase, resolver.AnyKind); e != nil {
		return e.Path
	}
	return types.JoinPath(mc.Current, resolver.CleanPhrase(name(phrase)))
}

func matchFavorites(ctx context.Context, in Input, mc *MatchContext) *Match {
	if m := favRemoveRe.FindStringSubmatch(in.Raw); m != nil {
		return one(types.ActionRemoveFavorite, types.Params{"path": mc.metaTarget(ctx, m[1]+m[2])})
	}
	if m := favAddRe.FindStringSubmatch(in.Raw); m != nil {
		return one(types.ActionAddFavorite, types.Params{"path": mc.metaTarget(ctx, m[1]+m[2])})
	}
	return nil
}

var (
	tagAsRe      = regexp.MustCompile(`(?i)^tag\s+(.+?)\s+(?:as|with)\s+(.+)$`)
	tagAddRe     = regexp.MustCompile(`(?i)^add\s+(?:the\s+|a\s+)?tags?\s+(.+?)\s+(?:to|on)\s+(.+)$`)
	tagMissingRe = regexp.MustCompile(`(?i)^add\s+(?:a\s+)?tags?\s+(?:to|on)\s+(.+)$|^tag\s+(.+)$`)
)

func matchTags(ctx context.Context, in Input, mc *MatchContext) *Match {
	var target, tags string
	if m := tagAsRe.FindStringSubmatch(in.Raw); m != nil {
		target, tags = m[1], m[2]
	} else if m := tagAddRe.FindStringSubmatch(in.Raw); m != nil {
		tags, target = m[1], m[2]
	} else if tagMissingRe.MatchString(in.Raw) {
		return userError(types.InvalidArgument("add_tag", "tag name required"))
	} else {
		return nil
	}

	var list []string
	for _, t := range types.ExtractStrings(strings.ReplaceAll(name(tags), " and ", ",")) {
		if t = name(t); t != "" {
			list = append(list, t)
		}
	}
	if len(list) == 0 {
		return userError(types.InvalidArgument("add_tag", "tag name required"))
	}
	return one(types.ActionAddTag, types.Params{"path": mc.metaTarget(ctx, target), "tags": list})
}

var (
	commentOnRe      = regexp.MustCompile(`(?i)^(?:comment\s+on|add\s+(?:a\s+)?comment\s+(?:on|to))\s+(.+?)\s*:\s*(.+)$`)
	commentAddRe     = regexp.MustCompile(`(?i)^add\s+(?:a\s+)?comment\s+(.+?)\s+to\s+(.+)$`)
	commentMissingRe = regexp.MustCompile(`(?i)^(?:comment\s+on|add\s+(?:a\s+)?comment\s+(?:on|to))\s+([^:]+?)\s*:?\s*$`)
)

func matchComments(ctx context.Context, in Input, mc *MatchContext) *Match {
	if m := commentOnRe.FindStringSubmatch(in.Raw); m != nil {
		return comment(ctx, mc, m[1], m[2])
	}
	if m := commentMissingRe.FindStringSubmatch(in.Raw); m != nil {
		return userError(types.InvalidArgument("add_comment", "comment text required"))
	}
	if m := commentAddRe.FindStringSubmatch(in.Raw); m != nil {
		return comment(ctx, mc, m[2], m[1])
	}
	return nil
}

func comment(ctx context.Context, mc *MatchContext, target, text string) *Match {
	text = trimQuotes(text)
	if text == "" {
		return userError(types.InvalidArgument("add_comment", "comment text required"))
	}
	return one(types.ActionAddComment, types.Params{"path": mc.metaTarget(ctx, target), "comment": text})
}

var renameRe = regexp.MustCompile(`(?i)^rename\s+(.+?)\s+(?:to|as|into)\s+(.+)$`)

func matchRename(ctx context.Context, in Input, mc *MatchContext) *Match {
	m := renameRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	newName := name(m[2])
	if newName == "" || hasSeparator(newName) {
		return userError(types.InvalidArgument("rename", "new name %q must be a plain name", newName))
	}
	e := mc.findExact(ctx, m[1], resolver.AnyKind)
	if e == nil {
		return nil
	}
	return one(types.ActionRename, types.Params{"path": e.Path, "newName": newName})
}

var deleteRe = regexp.MustCompile(`(?i)^(?:delete|remove|trash|erase|rm)\s+(.+)$`)

func matchDelete(ctx context.Context, in Input, mc *MatchContext) *Match {
	m := deleteRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	e := mc.findExact(ctx, m[1], resolver.AnyKind)
	if e == nil {
		return nil
	}
	return one(types.ActionDelete, types.Params{"path": e.Path})
}

var (
	createFolderRe = regexp.MustCompile(`(?i)^(?:(?:create|make|add)\s+(?:a\s+)?(?:new\s+)?|new\s+)(?:folder|directory|dir)(?:\s+(?:named|called))?\s+(.+)$|^mkdir\s+(.+)$`)
	createInRe     = regexp.MustCompile(`(?i)^(.+?)\s+in(?:side)?\s+(.+)$`)
)

func matchCreateFolder(ctx context.Context, in Input, mc *MatchContext) *Match {
	m := createFolderRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	folder, parent := name(m[1]+m[2]), mc.Current
	if im := createInRe.FindStringSubmatch(folder); im != nil {
		if isRootWord(im[2]) {
			folder, parent = name(im[1]), ""
		} else if e := mc.findExact(ctx, im[2], resolver.DirOnly); e != nil {
			folder, parent = name(im[1]), e.Path
		}
	}
	if folder == "" || hasSeparator(folder) {
		return userError(types.InvalidArgument("create_folder", "folder name %q must be a plain name", folder))
	}
	return one(types.ActionCreateFolder, types.Params{"name": folder, "path": parent})
}

var duplicateRe = regexp.MustCompile(`(?i)^(?:duplicate|clone)\s+(.+?)(\s+here)?$`)

func matchDuplicate(ctx context.Context, in Input, mc *MatchContext) *Match {
	m := duplicateRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	e := mc.findExact(ctx, m[1], resolver.AnyKind)
	if e == nil {
		return nil
	}
	dir := types.ParentPath(e.Path)
	var existing []string
	if m[2] != "" || dir == mc.Current {
		dir = mc.Current
		existing = mc.currentNames(ctx)
	} else {
		for _, k := range mc.Known {
			if types.ParentPath(k.Path) == dir {
				existing = append(existing, k.Name)
			}
		}
	}
	to := types.JoinPath(dir, resolver.UniqueName(e.Name, existing))
	return one(types.ActionCopy, types.Params{"from": e.Path, "to": to})
}

var (
	newWorkspaceRe  = regexp.MustCompile(`(?i)^(?:move|mv)\s+(.+?)\s+(?:in)?to\s+(?:a\s+)?new\s+workspace(?:\s+(.+))?$`)
	workspaceNameRe = regexp.MustCompile(`^[^/\\<>:"|?*]+$`)
	calledRe        = regexp.MustCompile(`(?i)^(?:called|named)\s+`)
)

// WorkspaceName derives the workspace for a "move X to new workspace"
// request without an explicit name: the capitalized source name, with
// " Workspace" appended when that would collide with a top-level source.
func WorkspaceName(source types.DirectoryEntry) string {
	base := source.Name
	if !source.IsDir() {
		if i := strings.LastIndex(base, "."); i > 0 {
			base = base[:i]
		}
	}
	ws := resolver.Capitalize(base)
	if strings.EqualFold(ws, source.Path) {
		ws += " Workspace"
	}
	return ws
}

// ValidWorkspaceName reports whether s can name a top-level workspace.
func ValidWorkspaceName(s string) bool {
	return workspaceNameRe.MatchString(s) && strings.TrimSpace(s) != "" && s != "." && s != ".."
}

func matchNewWorkspace(ctx context.Context, in Input, mc *MatchContext) *Match {
	m := newWorkspaceRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	src := mc.findExact(ctx, m[1], resolver.AnyKind)
	if src == nil {
		return nil
	}

	ws := name(calledRe.ReplaceAllString(strings.TrimSpace(m[2]), ""))
	if IsFiller(ws) {
		ws = WorkspaceName(*src)
	} else if !ValidWorkspaceName(ws) {
		return userError(types.InvalidArgument("move", "invalid workspace name %q", ws))
	}
	for _, e := range mc.Known {
		if types.ParentPath(e.Path) == "" && !e.IsDir() && strings.EqualFold(e.Name, ws) {
			return userError(types.InvalidArgument("move", "a file named %q already exists", e.Name))
		}
	}

	return &Match{Actions: []types.CanonicalAction{
		types.NewAction(types.ActionCreateFolder, types.Params{"name": ws, "path": "", "reuse": true}),
		types.NewAction(types.ActionMove, types.Params{"from": src.Path, "to": types.JoinPath(ws, src.Name)}),
	}}
}

var hereRe = regexp.MustCompile(`(?i)^(move|mv|copy|cp)\s+(.+?)\s+here$`)

func matchHere(ctx context.Context, in Input, mc *MatchContext) *Match {
	m := hereRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	src := mc.findExact(ctx, m[2], resolver.AnyKind)
	if src == nil {
		return nil
	}
	kind := types.ActionMove
	if strings.HasPrefix(strings.ToLower(m[1]), "c") {
		kind = types.ActionCopy
	}
	if kind == types.ActionMove && types.ParentPath(src.Path) == mc.Current {
		return one(types.ActionMove, types.Params{"from": src.Path, "to": src.Path})
	}
	to := types.JoinPath(mc.Current, resolver.UniqueName(src.Name, mc.currentNames(ctx)))
	return one(kind, types.Params{"from": src.Path, "to": to})
}

var (
	moveCopyRe = regexp.MustCompile(`(?i)^(move|mv|copy|cp)\s+(.+)$`)
	toSplitRe  = regexp.MustCompile(`(?i)\s+(?:in)?to\s+`)
)

// matchMoveCopy tries every "to"/"into" split point so names that contain
// the word still resolve.
func matchMoveCopy(ctx context.Context, in Input, mc *MatchContext) *Match {
	m := moveCopyRe.FindStringSubmatch(in.Raw)
	if m == nil {
		return nil
	}
	kind := types.ActionMove
	if strings.HasPrefix(strings.ToLower(m[1]), "c") {
		kind = types.ActionCopy
	}
	rest := m[2]
	for _, loc := range toSplitRe.FindAllStringIndex(rest, -1) {
		srcPhrase, dstPhrase := rest[:loc[0]], rest[loc[1]:]
		src := mc.findExact(ctx, srcPhrase, resolver.AnyKind)
		if src == nil {
			continue
		}
		var dest string
		if isRootWord(dstPhrase) {
			dest = ""
		} else if e := mc.findExact(ctx, dstPhrase, resolver.DirOnly); e != nil {
			dest = e.Path
		} else {
			continue
		}
		return one(kind, types.Params{"from": src.Path, "to": types.JoinPath(dest, src.Name)})
	}
	return nil
}
