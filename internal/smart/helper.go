package smart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"organizer/internal/config"
	"organizer/internal/logging"
	"organizer/internal/perception"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// ErrNoModel is returned by every helper when no model is configured.
var ErrNoModel = fmt.Errorf("no language model configured: %w", types.ErrModelTransport)

// Helper runs the model-assisted helpers.
type Helper struct {
	client    perception.LLMClient
	reader    ContentReader
	extractor TextExtractor
	limits    config.Limits
}

// Option configures a Helper.
type Option func(*Helper)

// WithExtractor plugs in a document text extractor.
func WithExtractor(x TextExtractor) Option {
	return func(h *Helper) { h.extractor = x }
}

// New creates a Helper. client may be nil; every call then fails with
// ErrNoModel.
func New(client perception.LLMClient, reader ContentReader, limits config.Limits, opts ...Option) *Helper {
	h := &Helper{client: client, reader: reader, limits: limits}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Available reports whether a model is wired.
func (h *Helper) Available() bool {
	return h != nil && h.client != nil
}

func (h *Helper) ask(ctx context.Context, parts []perception.Part) (map[string]any, error) {
	if !h.Available() {
		return nil, ErrNoModel
	}
	out, err := h.client.Complete(ctx, parts)
	if err != nil {
		return nil, err
	}
	return perception.DecodeObject(out)
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

// Suggestions is the filtered model advice for a listing.
type Suggestions struct {
	Duplicates []types.DuplicateGroup   `json:"duplicates"`
	Folders    []types.FolderSuggestion `json:"suggestions"`
}

// Suggest asks for duplicate groups and folder groupings. Any file the model
// names that is not in entries is dropped; groups left with fewer than two
// files, and folder suggestions left empty or with an unusable folder name,
// are dropped as well. Files come back as workspace-relative paths.
func (h *Helper) Suggest(ctx context.Context, entries []types.DirectoryEntry) (*Suggestions, error) {
	if len(entries) > h.limits.SuggestMaxEntries && h.limits.SuggestMaxEntries > 0 {
		entries = entries[:h.limits.SuggestMaxEntries]
	}
	var sb strings.Builder
	sb.WriteString("You are a file organizer. Look at this folder listing and find likely duplicate files and useful folder groupings.\n\nListing:\n")
	for _, e := range entries {
		if e.IsDir() {
			fmt.Fprintf(&sb, "- %s (directory)\n", e.Name)
		} else {
			fmt.Fprintf(&sb, "- %s (file, %dB)\n", e.Name, e.Size)
		}
	}
	sb.WriteString(`
Only use names exactly as listed. Folder names must be plain names without slashes.
Respond with JSON only: {"duplicates": [{"files": ["a.pdf", "a (2).pdf"], "reason": "same name"}], "suggestions": [{"folder": "Invoices", "files": ["inv1.pdf"], "reason": "invoices"}]}`)

	obj, err := h.ask(ctx, []perception.Part{perception.TextPart(sb.String())})
	if err != nil {
		return nil, err
	}

	idx := newIndex(entries)
	out := &Suggestions{Duplicates: []types.DuplicateGroup{}, Folders: []types.FolderSuggestion{}}
	for _, g := range objects(obj["duplicates"]) {
		files := idx.filter(types.ExtractStrings(g["files"]))
		if len(files) < 2 {
			continue
		}
		out.Duplicates = append(out.Duplicates, types.DuplicateGroup{
			Files:  files,
			Reason: types.ExtractString(g["reason"]),
		})
	}
	for _, s := range objects(obj["suggestions"]) {
		folder := strings.TrimSpace(types.ExtractString(s["folder"]))
		files := idx.filter(types.ExtractStrings(s["files"]))
		if folder == "" || strings.ContainsAny(folder, `/\`) || len(files) == 0 {
			continue
		}
		out.Folders = append(out.Folders, types.FolderSuggestion{
			Folder: folder,
			Files:  files,
			Reason: types.ExtractString(s["reason"]),
		})
	}

	logging.For(ctx, logging.CategoryModel).Debug("suggestions filtered",
		zap.Int("duplicates", len(out.Duplicates)), zap.Int("folders", len(out.Folders)))
	return out, nil
}

// =============================================================================
// SEMANTIC MATCH
// =============================================================================

const semanticInstruction = `You are matching files to a search query by their content.
Return ONLY files that clearly match the query. If unsure, leave a file out: an empty result is better than a wrong one.
Use the exact paths given after "File:".
Respond with JSON only: {"matches": ["path/one.txt", "path/two.jpg"]}`

// SemanticMatch asks which of items match query by content. Only files are
// considered, at most SemanticMaxFiles of them. The result keeps the model's
// order and contains only real items.
func (h *Helper) SemanticMatch(ctx context.Context, items []types.DirectoryEntry, query string) ([]types.DirectoryEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.InvalidArgument("semantic_search", "query required")
	}
	if !h.Available() {
		return nil, ErrNoModel
	}

	var files []types.DirectoryEntry
	for _, e := range items {
		if !e.IsDir() {
			files = append(files, e)
		}
		if len(files) == h.limits.SemanticMaxFiles {
			break
		}
	}
	if len(files) == 0 {
		return []types.DirectoryEntry{}, nil
	}

	parts := []perception.Part{perception.TextPart(semanticInstruction + "\n\nQuery: " + query)}
	for _, b := range h.gather(ctx, files) {
		switch b.Kind {
		case BlockImage:
			parts = append(parts,
				perception.TextPart(fmt.Sprintf("\n### File: %s (image)", b.Entry.Path)),
				perception.BinaryPart(b.MimeType, b.Data))
		case BlockText:
			parts = append(parts, perception.TextPart(fmt.Sprintf("\n### File: %s\n%s", b.Entry.Path, b.Excerpt)))
		default:
			parts = append(parts, perception.TextPart(fmt.Sprintf("\n### File: %s (content unavailable, judge by name)", b.Entry.Path)))
		}
	}

	obj, err := h.ask(ctx, parts)
	if err != nil {
		return nil, err
	}

	var named []string
	for _, key := range []string{"matches", "paths", "files"} {
		if named = types.ExtractStrings(obj[key]); len(named) > 0 {
			break
		}
	}
	idx := newIndex(files)
	out := []types.DirectoryEntry{}
	for _, p := range idx.filter(named) {
		out = append(out, idx.byPath[p])
	}
	if dropped := len(named) - len(out); dropped > 0 {
		logging.For(ctx, logging.CategoryModel).Debug("dropped unknown semantic matches", zap.Int("dropped", dropped))
	}
	return out, nil
}

// =============================================================================
// TAGS AND COMMENTS
// =============================================================================

// SuggestTags proposes up to five lowercase tags for a file.
func (h *Helper) SuggestTags(ctx context.Context, e types.DirectoryEntry) ([]string, error) {
	if e.IsDir() {
		return nil, types.InvalidArgument("suggest_tags", "not a file: %s", e.Path)
	}
	prompt := fmt.Sprintf("Suggest 3-5 short tags (single words or 2-word phrases) to help organize this file. Use lowercase.\nFilename: %q\n%s\nRespond with JSON only: {\"tags\": [\"tag1\", \"tag2\", \"tag3\"]}",
		e.Name, h.preview(ctx, e))
	obj, err := h.ask(ctx, []perception.Part{perception.TextPart(prompt)})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	tags := []string{}
	for _, t := range types.ExtractStrings(obj["tags"]) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
		if len(tags) == 5 {
			break
		}
	}
	return tags, nil
}

// SuggestComment proposes a one or two sentence comment for a file.
func (h *Helper) SuggestComment(ctx context.Context, e types.DirectoryEntry) (string, error) {
	if e.IsDir() {
		return "", types.InvalidArgument("suggest_comment", "not a file: %s", e.Path)
	}
	prompt := fmt.Sprintf("Generate a brief descriptive comment (1-2 sentences) for this file to help remember what it is.\nFilename: %q\n%s\nRespond with JSON only: {\"comment\": \"your generated comment here\"}",
		e.Name, h.preview(ctx, e))
	obj, err := h.ask(ctx, []perception.Part{perception.TextPart(prompt)})
	if err != nil {
		return "", err
	}
	comment := strings.TrimSpace(types.ExtractString(obj["comment"]))
	if comment == "" {
		return "", types.InvalidModelResponse(errors.New("empty comment"))
	}
	return comment, nil
}

func (h *Helper) preview(ctx context.Context, e types.DirectoryEntry) string {
	b := h.block(ctx, e, func(string) {})
	if b.Kind == BlockText && strings.TrimSpace(b.Excerpt) != "" {
		return "Content preview:\n" + b.Excerpt
	}
	return "Binary/file type - use filename and extension only."
}

// =============================================================================
// HELPERS
// =============================================================================

// index maps names and paths the model might use back to real entries.
type index struct {
	byPath map[string]types.DirectoryEntry
	lookup map[string]string // lowercased name or path -> path
}

func newIndex(entries []types.DirectoryEntry) *index {
	idx := &index{
		byPath: make(map[string]types.DirectoryEntry, len(entries)),
		lookup: make(map[string]string, 2*len(entries)),
	}
	// Paths are registered after names so a path always wins a clash.
	for _, e := range entries {
		idx.byPath[e.Path] = e
		if _, ok := idx.lookup[strings.ToLower(e.Name)]; !ok {
			idx.lookup[strings.ToLower(e.Name)] = e.Path
		}
	}
	for _, e := range entries {
		idx.lookup[strings.ToLower(e.Path)] = e.Path
	}
	return idx
}

// filter resolves model-named files to real paths, dropping unknown names
// and repeats while keeping the model's order.
func (idx *index) filter(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range names {
		n = strings.Trim(strings.TrimSpace(strings.ReplaceAll(n, "\\", "/")), "/")
		p, ok := idx.byPath[n]
		path := p.Path
		if !ok {
			path, ok = idx.lookup[strings.ToLower(n)]
		}
		if !ok || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

func objects(v any) []map[string]any {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
