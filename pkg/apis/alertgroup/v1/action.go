package v1

import "strconv"

// Action mutating alert group action, equal to the api url suffix
type Action string

// Alert group actions
const (
	ActionAcknowledge   Action = "acknowledge"
	ActionUnacknowledge Action = "unacknowledge"
	ActionResolve       Action = "resolve"
	ActionUnresolve     Action = "unresolve"
	ActionSilence       Action = "silence"
	ActionUnsilence     Action = "unsilence"
	ActionAttach        Action = "attach"
	ActionUnattach      Action = "unattach"
	ActionUnpage        Action = "unpage"
)

var actions = []Action{
	ActionAcknowledge,
	ActionUnacknowledge,
	ActionResolve,
	ActionUnresolve,
	ActionSilence,
	ActionUnsilence,
	ActionAttach,
	ActionUnattach,
	ActionUnpage,
}

var undoActions = map[Action]Action{
	ActionAcknowledge:   ActionUnacknowledge,
	ActionUnacknowledge: ActionAcknowledge,
	ActionResolve:       ActionUnresolve,
	ActionUnresolve:     ActionResolve,
	ActionSilence:       ActionUnsilence,
	ActionUnsilence:     ActionSilence,
}

// Inverse returns the action undoing a
func (a Action) Inverse() (Action, bool) {
	undo, ok := undoActions[a]
	return undo, ok
}

// Valid reports whether a is a known action
func (a Action) Valid() bool {
	for _, known := range actions {
		if known == a {
			return true
		}
	}
	return false
}

// Filters list query filters, encoded as repeated query params
type Filters map[string][]string

// Normalize returns a copy of f with status names replaced by the numeric codes the api expects
func (f Filters) Normalize() (Filters, error) {
	out := make(Filters, len(f))
	for k, values := range f {
		if k != "status" {
			out[k] = append([]string(nil), values...)
			continue
		}
		codes := make([]string, 0, len(values))
		for _, value := range values {
			status, err := ParseStatus(value)
			if err != nil {
				return nil, err
			}
			codes = append(codes, strconv.Itoa(int(status)))
		}
		out[k] = codes
	}
	return out, nil
}
