// Package smart holds the model-assisted helpers: duplicate and folder
// suggestions, content-aware file matching, and tag/comment suggestions.
// Every helper treats model output as untrusted and intersects it with the
// real entries it was given.
package smart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"organizer/internal/logging"
	"organizer/internal/types"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// CONTENT GATHERING
// =============================================================================

// ContentReader reads up to limit bytes of a workspace file.
// fsops.Workspace implements it.
type ContentReader interface {
	ReadFile(ctx context.Context, rel string, limit int64) ([]byte, error)
}

// TextExtractor turns a binary document such as a PDF into plain text. None
// is bundled; without one such files are described by name only.
type TextExtractor interface {
	Extract(ctx context.Context, rel string, data []byte) (string, error)
}

// BlockKind classifies a gathered file.
type BlockKind string

const (
	BlockText  BlockKind = "text"
	BlockImage BlockKind = "image"
	BlockOther BlockKind = "other"
)

// ContentBlock is what the model gets to see of one file.
type ContentBlock struct {
	Entry    types.DirectoryEntry
	Kind     BlockKind
	MimeType string
	Excerpt  string
	Data     []byte // inline image bytes
}

// readLimit bounds how much of a file is read for sniffing and excerpts.
func (h *Helper) readLimit(e types.DirectoryEntry) int64 {
	if types.IsImage(e.Name) {
		return h.limits.MaxImageBytes + 1
	}
	return int64(h.limits.TextExcerptChars)*utf8.UTFMax + 512
}

// gather builds content blocks for entries in parallel. Unreadable files
// are kept as name-only blocks; the walk never fails because of one file.
// The image cap is applied afterwards in entry order so the result does not
// depend on goroutine scheduling.
func (h *Helper) gather(ctx context.Context, entries []types.DirectoryEntry) []ContentBlock {
	log := logging.For(ctx, logging.CategoryModel)
	blocks := make([]ContentBlock, len(entries))

	var mu sync.Mutex
	var gatherErrors []string
	addError := func(msg string) {
		mu.Lock()
		gatherErrors = append(gatherErrors, msg)
		mu.Unlock()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, h.limits.WalkParallelism))
	for i, e := range entries {
		eg.Go(func() error {
			blocks[i] = h.block(egCtx, e, addError)
			return nil
		})
	}
	_ = eg.Wait()

	images := 0
	for i := range blocks {
		if blocks[i].Kind != BlockImage {
			continue
		}
		if images >= h.limits.MaxImages {
			blocks[i].Kind, blocks[i].Data = BlockOther, nil
			continue
		}
		images++
	}

	if len(gatherErrors) > 0 {
		log.Debug("content gathering skipped files", zap.Strings("errors", gatherErrors))
	}
	return blocks
}

func (h *Helper) block(ctx context.Context, e types.DirectoryEntry, addError func(string)) ContentBlock {
	b := ContentBlock{Entry: e, Kind: BlockOther}
	if h.reader == nil {
		return b
	}
	data, err := h.reader.ReadFile(ctx, e.Path, h.readLimit(e))
	if err != nil {
		addError(fmt.Sprintf("%s: %v", e.Path, err))
		return b
	}

	mt := mimetype.Detect(data)
	b.MimeType = mt.String()
	switch {
	case isImage(mt):
		if int64(len(data)) <= h.limits.MaxImageBytes {
			b.Kind, b.Data = BlockImage, data
		}
	case isText(mt):
		b.Kind, b.Excerpt = BlockText, excerpt(string(data), h.limits.TextExcerptChars)
	case h.extractor != nil:
		text, err := h.extractor.Extract(ctx, e.Path, data)
		if err != nil {
			addError(fmt.Sprintf("%s: extract: %v", e.Path, err))
			return b
		}
		if text != "" {
			b.Kind, b.Excerpt = BlockText, excerpt(text, h.limits.TextExcerptChars)
		}
	}
	return b
}

func isImage(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// excerpt cuts s to at most n runes without splitting a rune.
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
