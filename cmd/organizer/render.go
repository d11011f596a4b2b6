package main

import (
	"fmt"
	"strings"

	"organizer/internal/executor"
	"organizer/internal/types"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5A50A")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E01B24")).Bold(true)
	dirStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3584E4")).Bold(true)
)

// describeAction renders one action as a short human line.
func describeAction(a types.CanonicalAction) string {
	p := a.Params
	str := func(keys ...string) string {
		for _, k := range keys {
			if s := types.ExtractString(p[k]); s != "" {
				return s
			}
		}
		return ""
	}
	root := func(s string) string {
		if s == "" {
			return "/"
		}
		return s
	}

	switch a.Action {
	case types.ActionMove, types.ActionCopy:
		return fmt.Sprintf("%s %s -> %s", a.Action, str("from", "source"), str("to", "destination"))
	case types.ActionCreateFolder:
		if parent := str("path"); parent != "" {
			return fmt.Sprintf("create folder %s in %s", str("name"), parent)
		}
		return "create folder " + str("name")
	case types.ActionRename:
		return fmt.Sprintf("rename %s -> %s", str("path"), str("newName", "name"))
	case types.ActionSearch, types.ActionSemanticSearch:
		if c := str("category", "type"); c != "" {
			return "search category " + c
		}
		return fmt.Sprintf("%s %q", a.Action, str("query", "q"))
	default:
		return fmt.Sprintf("%s %s", a.Action, root(str("path", "target")))
	}
}

// renderHold lists actions awaiting approval, flagging destructive ones.
func renderHold(actions []types.CanonicalAction) string {
	var sb strings.Builder
	for i, a := range actions {
		line := fmt.Sprintf("%d. %s", i+1, describeAction(a))
		if a.RequiresConfirm {
			line = warnStyle.Render(line + "  (needs confirmation)")
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// renderResult renders a result for the terminal.
func renderResult(r *types.Result) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	if len(r.Steps) > 0 {
		for i, s := range r.Steps {
			if s.Error != "" {
				fmt.Fprintf(&sb, "%s %s\n", errStyle.Render(fmt.Sprintf("%d. failed:", i+1)), s.Error)
				continue
			}
			fmt.Fprintf(&sb, "%d. %s\n", i+1, summarize(s.Result))
		}
		if r.Failed > 0 {
			sb.WriteString(errStyle.Render(fmt.Sprintf("%d of %d steps failed", r.Failed, len(r.Steps))) + "\n")
		}
		return sb.String()
	}

	if r.Fallback {
		sb.WriteString(mutedStyle.Render("Did not understand that ("+r.Message+"); showing the folder instead.") + "\n")
	}
	sb.WriteString(summarize(r) + "\n")

	for _, e := range r.Items {
		if e.IsDir() {
			sb.WriteString("  " + dirStyle.Render(e.Path+"/") + "\n")
		} else {
			fmt.Fprintf(&sb, "  %s %s\n", e.Path, mutedStyle.Render(humanSize(e.Size)))
		}
	}
	for _, g := range r.Duplicates {
		fmt.Fprintf(&sb, "  duplicates: %s\n", strings.Join(g.Files, ", "))
	}
	for _, s := range r.Suggestions {
		fmt.Fprintf(&sb, "  %s <- %s\n", dirStyle.Render(s.Folder), strings.Join(s.Files, ", "))
	}
	return sb.String()
}

// summarize is the one-line headline for a result.
func summarize(r *types.Result) string {
	if r == nil {
		return ""
	}
	switch r.Action {
	case types.ActionList:
		return titleStyle.Render(fmt.Sprintf("%s (%d items)", displayPath(r.Path), r.Count))
	case types.ActionMove, types.ActionCopy, types.ActionRename:
		if r.Message != "" {
			return fmt.Sprintf("%s: %s", r.Action, r.Message)
		}
		return fmt.Sprintf("%s %s -> %s", r.Action, r.From, r.To)
	case types.ActionCreateFolder:
		if r.Message != "" {
			return fmt.Sprintf("%s: %s", r.Path, r.Message)
		}
		return "created " + r.Path
	case types.ActionDelete:
		return "deleted " + r.Path
	case types.ActionInfo:
		kind := "file"
		if r.IsDirectory {
			kind = fmt.Sprintf("folder, %d items", r.ItemCount)
		}
		return fmt.Sprintf("%s: %s (%s)", r.Path, r.SizeFormatted, kind)
	case types.ActionDirectorySize:
		return fmt.Sprintf("%s: %s in %d files", displayPath(r.Path), r.SizeFormatted, r.ItemCount)
	case types.ActionSearch, types.ActionSemanticSearch:
		return titleStyle.Render(fmt.Sprintf("%d matches", r.Count))
	case types.ActionNavigate:
		return "opened " + displayPath(r.Path)
	case types.ActionOrganize:
		if r.Message != "" {
			return r.Message
		}
		return fmt.Sprintf("moved %d files (%d failed)", r.Moved, r.Failed)
	case types.ActionRemoveDuplicates:
		return fmt.Sprintf("deleted %d duplicates, kept %d", len(r.Deleted), len(r.Kept))
	case types.ActionAddFavorite, types.ActionRemoveFavorite, types.ActionAddTag, types.ActionAddComment:
		return fmt.Sprintf("updated %s", r.Path)
	}
	if r.Message != "" {
		return r.Message
	}
	return string(r.Action)
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func humanSize(n int64) string {
	if n <= 0 {
		return ""
	}
	return executor.FormatSize(n)
}
