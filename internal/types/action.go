package types

import "strings"

// =============================================================================
// CANONICAL ACTIONS
// =============================================================================

// ActionKind is the closed set of operations the executor understands.
type ActionKind string

const (
	ActionList             ActionKind = "list"
	ActionCreateFolder     ActionKind = "create_folder"
	ActionMove             ActionKind = "move"
	ActionCopy             ActionKind = "copy"
	ActionDelete           ActionKind = "delete"
	ActionRename           ActionKind = "rename"
	ActionInfo             ActionKind = "info"
	ActionSearch           ActionKind = "search"
	ActionSemanticSearch   ActionKind = "semantic_search"
	ActionSuggest          ActionKind = "suggest"
	ActionOrganize         ActionKind = "organize"
	ActionNavigate         ActionKind = "navigate"
	ActionAddFavorite      ActionKind = "add_favorite"
	ActionRemoveFavorite   ActionKind = "remove_favorite"
	ActionAddTag           ActionKind = "add_tag"
	ActionAddComment       ActionKind = "add_comment"
	ActionRemoveDuplicates ActionKind = "remove_duplicates"
	ActionDirectorySize    ActionKind = "directory_size"
)

// AllActions lists every canonical action in catalogue order.
var AllActions = []ActionKind{
	ActionList,
	ActionCreateFolder,
	ActionMove,
	ActionCopy,
	ActionDelete,
	ActionRename,
	ActionInfo,
	ActionSearch,
	ActionSemanticSearch,
	ActionSuggest,
	ActionOrganize,
	ActionNavigate,
	ActionAddFavorite,
	ActionRemoveFavorite,
	ActionAddTag,
	ActionAddComment,
	ActionRemoveDuplicates,
	ActionDirectorySize,
}

var actionSet = func() map[ActionKind]bool {
	m := make(map[ActionKind]bool, len(AllActions))
	for _, a := range AllActions {
		m[a] = true
	}
	return m
}()

// ParseAction normalizes a raw action name. The boolean is false when the
// name is not part of the canonical enum.
func ParseAction(raw string) (ActionKind, bool) {
	k := ActionKind(strings.ToLower(strings.TrimSpace(raw)))
	return k, actionSet[k]
}

// Valid reports whether k is a canonical action.
func (k ActionKind) Valid() bool {
	return actionSet[k]
}

// Destructive reports whether the action must always be confirmed.
func (k ActionKind) Destructive() bool {
	return k == ActionDelete || k == ActionMove
}

// CanonicalAction is a fully parameterized request for the executor.
type CanonicalAction struct {
	Action          ActionKind `json:"action"`
	Params          Params     `json:"params"`
	RequiresConfirm bool       `json:"requiresConfirm"`
}

// NewAction builds a CanonicalAction with the destructive flag pre-set.
func NewAction(kind ActionKind, params Params) CanonicalAction {
	if params == nil {
		params = Params{}
	}
	return CanonicalAction{
		Action:          kind,
		Params:          params,
		RequiresConfirm: kind.Destructive(),
	}
}
