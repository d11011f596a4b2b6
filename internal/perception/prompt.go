package perception

import (
	"fmt"
	"strings"

	"organizer/internal/types"
)

// =============================================================================
// PROMPTS
// =============================================================================

// PromptSpec is the input to an intent prompt.
type PromptSpec struct {
	Query   string
	Current string
	Listing []types.DirectoryEntry // merged root + current, root first
}

// actionCatalogue documents every action and its parameter shape. The same
// text backs `organizer actions`.
var actionCatalogue = []struct {
	Action types.ActionKind
	Params string
	Use    string
}{
	{types.ActionList, `{"path": "dir"}`, "list a folder (current folder when path is omitted)"},
	{types.ActionCreateFolder, `{"name": "Folder", "path": "parent"}`, "create a folder; collisions become Folder(2), Folder(3)"},
	{types.ActionMove, `{"from": "a/b.pdf", "to": "Dest/b.pdf"}`, "move a file or folder; destination includes the final name"},
	{types.ActionCopy, `{"from": "a/b.pdf", "to": "Dest/b.pdf"}`, "copy a file or folder"},
	{types.ActionDelete, `{"path": "a/b.pdf"}`, "delete a file or folder"},
	{types.ActionRename, `{"path": "a/b.pdf", "newName": "c.pdf"}`, "rename in place"},
	{types.ActionInfo, `{"path": "a/b.pdf"}`, "size, dates and item count"},
	{types.ActionSearch, `{"query": "report"}` + " or " + `{"category": "image"}`, "find by name, initials or category (image, audio, video, document, pdf)"},
	{types.ActionSemanticSearch, `{"query": "tax receipts", "path": "dir"}`, "find files by what they contain"},
	{types.ActionSuggest, `{"path": "dir"}`, "suggest duplicates and folder groupings"},
	{types.ActionOrganize, `{"category": "image", "folder": "Images", "path": "dir"}`, "move every file of a category into a folder"},
	{types.ActionNavigate, `{"path": "dir"}`, "open a folder"},
	{types.ActionAddFavorite, `{"path": "a/b.pdf"}`, "star an item"},
	{types.ActionRemoveFavorite, `{"path": "a/b.pdf"}`, "unstar an item"},
	{types.ActionAddTag, `{"path": "a/b.pdf", "tags": ["urgent"]}`, "tag an item"},
	{types.ActionAddComment, `{"path": "a/b.pdf", "comment": "text"}`, "comment on an item"},
	{types.ActionRemoveDuplicates, `{"path": "dir"}`, "delete duplicate copies, keeping one"},
	{types.ActionDirectorySize, `{"path": "dir"}`, "total size of a folder"},
}

// ActionCatalogueMarkdown renders the catalogue as a markdown table.
func ActionCatalogueMarkdown() string {
	var sb strings.Builder
	sb.WriteString("| Action | Params | Use |\n|---|---|---|\n")
	for _, a := range actionCatalogue {
		fmt.Fprintf(&sb, "| `%s` | `%s` | %s |\n", a.Action, a.Params, a.Use)
	}
	return sb.String()
}

const intentRules = `Rules:
- Paths are relative to the workspace root and use forward slashes. Use the exact paths from the listing.
- Correct obvious typos in names to the closest listed item.
- "move X to new workspace" means: create a top-level folder named after X (capitalized; append " Workspace" if that equals X) and move X into it. "move X to new workspace Y" uses Y as the folder name.
- Words like "as well", "too", "also", "please", "thanks" are never names.
- When moving into a nested folder, prefix the destination with the folder path: {"from": "a.pdf", "to": "Docs/Work/a.pdf"}.
- For several operations respond with {"action": "multi_step", "steps": [{"action": "...", "params": {...}}, ...]}.
- If the request is unclear respond with {"action": "list", "params": {}}.`

const intentExample = `Example:
Listing: - madhav2 (directory)
Request: "move madhav2 to new workspace"
Response: {"action": "multi_step", "steps": [{"action": "create_folder", "params": {"name": "Madhav2 Workspace", "path": ""}}, {"action": "move", "params": {"from": "madhav2", "to": "Madhav2 Workspace/madhav2"}}]}`

// BuildIntentPrompt renders the single-command prompt.
func BuildIntentPrompt(spec PromptSpec) string {
	var sb strings.Builder
	sb.WriteString("You are a file organizer assistant. Translate the user's request into one action.\n")
	fmt.Fprintf(&sb, "Current folder: %q\n\n", displayDir(spec.Current))

	sb.WriteString("## Listing\n")
	writeListing(&sb, spec.Listing)

	sb.WriteString("\n## Actions\n")
	for i, a := range actionCatalogue {
		fmt.Fprintf(&sb, "%d. %s - %s. Params: %s\n", i+1, a.Action, a.Use, a.Params)
	}

	sb.WriteString("\n")
	sb.WriteString(intentRules)
	sb.WriteString("\n\n")
	sb.WriteString(intentExample)
	sb.WriteString("\n\nRespond ONLY with valid JSON: {\"action\": \"...\", \"params\": {...}}\n\n")
	fmt.Fprintf(&sb, "User request: %q", spec.Query)
	return sb.String()
}

// BuildPlanPrompt renders the multi-step agent prompt.
func BuildPlanPrompt(goal, current string, listing []types.DirectoryEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an autonomous file organizer agent. The user's goal: %q\n", goal)
	fmt.Fprintf(&sb, "Current folder: %q\n", displayDir(current))
	sb.WriteString("Files in this folder:\n")
	writeListing(&sb, listing)
	sb.WriteString(`
Create a step-by-step plan to achieve the goal. Use ONLY these actions:
- list {"path": "dir"}
- create_folder {"name": "FolderName", "path": "parent"}
- move {"from": "source_path", "to": "dest_path"}
- copy {"from": "source_path", "to": "dest_path"}
- rename {"path": "item", "newName": "name"}
- delete {"path": "path_to_delete"}

Rules:
- Paths are relative to the workspace root. Use the exact paths from the list.
- For "organize" goals create folders first, then move files into them.
- For "clean up" goals suggest moving duplicates or unused files.
- Move and delete always require user confirmation.
- Return 1-10 steps. Be specific with paths.

Respond with JSON only: {"steps": [{"action": "create_folder", "params": {"name": "X"}, "requiresConfirm": false}, {"action": "move", "params": {"from": "a.pdf", "to": "Documents/a.pdf"}, "requiresConfirm": true}], "summary": "Brief description of the plan"}`)
	return sb.String()
}

func writeListing(sb *strings.Builder, listing []types.DirectoryEntry) {
	if len(listing) == 0 {
		sb.WriteString("(empty)\n")
		return
	}
	for _, e := range listing {
		if e.IsDir() {
			fmt.Fprintf(sb, "- %s (directory)\n", e.Path)
		} else {
			fmt.Fprintf(sb, "- %s (file, %dB)\n", e.Path, e.Size)
		}
	}
}

func displayDir(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}
