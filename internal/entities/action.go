package entities

import "strings"

// Action is the closed set of operations a caller can ask a decision for.
// Unknown action strings parse to ActionUnknown, which every policy denies.
type Action int

const (
	ActionUnknown Action = iota
	ActionCreate
	ActionRead
	ActionEdit
	ActionUpdate
	ActionDelete
	ActionShare
	ActionGrantPermission
	ActionExecute
	ActionRunTest
	ActionFormat
	ActionAnalyze
)

var actionNames = map[Action]string{
	ActionUnknown:         "unknown",
	ActionCreate:          "create",
	ActionRead:            "read",
	ActionEdit:            "edit",
	ActionUpdate:          "update",
	ActionDelete:          "delete",
	ActionShare:           "share",
	ActionGrantPermission: "grant_permission",
	ActionExecute:         "execute",
	ActionRunTest:         "run_test",
	ActionFormat:          "format",
	ActionAnalyze:         "analyze",
}

// ParseAction maps an action string to its Action value.
// Matching is case-insensitive but the input is never trimmed: a value like
// " read " is not a recognized action and parses to ActionUnknown. Callers
// relying on the decision engine depend on that exact behavior.
func ParseAction(s string) Action {
	switch strings.ToLower(s) {
	case "create":
		return ActionCreate
	case "read":
		return ActionRead
	case "edit":
		return ActionEdit
	case "update":
		return ActionUpdate
	case "delete":
		return ActionDelete
	case "share":
		return ActionShare
	case "grant_permission":
		return ActionGrantPermission
	case "execute":
		return ActionExecute
	case "run_test":
		return ActionRunTest
	case "format":
		return ActionFormat
	case "analyze":
		return ActionAnalyze
	default:
		return ActionUnknown
	}
}

// String returns the canonical lowercase name of the action
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}
