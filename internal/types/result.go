package types

import "time"

// DuplicateGroup is a set of files believed to be copies of each other.
type DuplicateGroup struct {
	Files  []string `json:"files"`
	Reason string   `json:"reason,omitempty"`
}

// FolderSuggestion proposes moving Files into Folder.
type FolderSuggestion struct {
	Folder string   `json:"folder"`
	Files  []string `json:"files"`
	Reason string   `json:"reason,omitempty"`
}

// Result is the normalized outcome of one executed action. Only the fields
// relevant to Action are populated.
type Result struct {
	Success  bool       `json:"success"`
	Action   ActionKind `json:"action"`
	Fallback bool       `json:"fallback,omitempty"`
	Message  string     `json:"message,omitempty"`

	Path       string `json:"path,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Name       string `json:"name,omitempty"`
	SelectFile string `json:"selectFile,omitempty"`

	Items []DirectoryEntry `json:"items,omitempty"`
	Count int              `json:"count,omitempty"`

	IsDirectory   bool       `json:"isDirectory,omitempty"`
	Size          int64      `json:"size,omitempty"`
	SizeFormatted string     `json:"sizeFormatted,omitempty"`
	ItemCount     int        `json:"itemCount,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	ModifiedAt    *time.Time `json:"modifiedAt,omitempty"`

	Folder  string   `json:"folder,omitempty"`
	Moved   int      `json:"moved,omitempty"`
	Failed  int      `json:"failed,omitempty"`
	Deleted []string `json:"deleted,omitempty"`
	Kept    []string `json:"kept,omitempty"`

	Duplicates  []DuplicateGroup   `json:"duplicates,omitempty"`
	Suggestions []FolderSuggestion `json:"suggestions,omitempty"`

	Tags    []string `json:"tags,omitempty"`
	Comment string   `json:"comment,omitempty"`
	Starred *bool    `json:"starred,omitempty"`

	Steps []StepResult `json:"steps,omitempty"`
}

// StepResult records the outcome of one step in a multi-step run.
type StepResult struct {
	Step   CanonicalAction `json:"step"`
	Result *Result         `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// OK builds a successful result for action.
func OK(action ActionKind) *Result {
	return &Result{Success: true, Action: action}
}
