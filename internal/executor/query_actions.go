package executor

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"organizer/internal/types"
)

// =============================================================================
// INFO, SIZE AND SEARCH
// =============================================================================

func (e *Executor) handleInfo(ctx context.Context, p types.Params, current string) (*types.Result, error) {
	path := pathParam(p, current)
	fi, err := e.ws.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	res := types.OK(types.ActionInfo)
	res.Path = path
	res.Name = types.BaseName(path)
	res.IsDirectory = fi.IsDir
	mod, created := fi.ModTime, fi.CreatedAt
	res.ModifiedAt = &mod
	if !created.IsZero() {
		res.CreatedAt = &created
	}

	if fi.IsDir {
		children, err := e.ws.List(ctx, path)
		if err != nil {
			return nil, err
		}
		res.ItemCount = len(children)
		size, _, err := e.ws.TotalSize(ctx, path)
		if err != nil {
			return nil, err
		}
		res.Size = size
	} else {
		res.Size = fi.Size
	}
	res.SizeFormatted = FormatSize(res.Size)
	e.remember(ctx, path)
	return res, nil
}

// handleDirectorySize sums every file below path. ItemCount is the number
// of files counted.
func (e *Executor) handleDirectorySize(ctx context.Context, p types.Params, current string) (*types.Result, error) {
	path := pathParam(p, current)
	fi, err := e.ws.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	size, files, err := e.ws.TotalSize(ctx, path)
	if err != nil {
		return nil, err
	}
	res := types.OK(types.ActionDirectorySize)
	res.Path = path
	res.Name = types.BaseName(path)
	res.IsDirectory = fi.IsDir
	res.Size = size
	res.SizeFormatted = FormatSize(size)
	res.ItemCount = files
	return res, nil
}

// handleSearch walks the whole workspace. With a category it returns the
// files of that category; otherwise entries whose name contains the query
// or whose word initials match it.
func (e *Executor) handleSearch(ctx context.Context, p types.Params) (*types.Result, error) {
	query := p.String(queryKeys...)
	cat, byCategory := types.ParseCategory(p.String("category", "type"))
	if !byCategory && query == "" {
		return nil, types.InvalidArgument("search", "search query required")
	}

	all, err := e.ws.Walk(ctx, "")
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	seen := make(map[string]bool)
	items := []types.DirectoryEntry{}
	for _, entry := range all {
		if seen[entry.Path] {
			continue
		}
		var hit bool
		if byCategory {
			hit = !entry.IsDir() && cat.Matches(entry.Name)
		} else {
			hit = nameMatches(entry.Name, q)
		}
		if !hit {
			continue
		}
		seen[entry.Path] = true
		items = append(items, entry)
		if e.limits.SearchResultCap > 0 && len(items) >= e.limits.SearchResultCap {
			break
		}
	}

	res := types.OK(types.ActionSearch)
	res.Items = items
	res.Count = len(items)
	if byCategory {
		res.Message = "category: " + string(cat)
	}
	return res, nil
}

var nonWord = regexp.MustCompile(`[^a-z0-9\s]`)

// nameMatches reports a substring hit or an initials hit: "qr" matches
// "Quarterly Report.pdf".
func nameMatches(name, q string) bool {
	name = strings.ToLower(name)
	if strings.Contains(name, q) {
		return true
	}
	var initials strings.Builder
	for _, w := range strings.Fields(nonWord.ReplaceAllString(name, " ")) {
		initials.WriteByte(w[0])
	}
	return initials.Len() > 0 && strings.Contains(initials.String(), q)
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders bytes with binary prefixes rounded to two decimals:
// 100 -> "100 B", 1124 -> "1.1 KB", 1536 -> "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	v, i := float64(bytes), 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
