package debt

import "fmt"

// ActionKind is the closed set of debtor-side lifecycle actions. Wire
// strings are parsed once at the edge so the engine can match on the
// variant exhaustively.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionAccept
	ActionDispute
	ActionMarkPaid
	// ActionConfirmPaid is accepted vocabulary but has no transition yet.
	ActionConfirmPaid
)

var actionNames = map[ActionKind]string{
	ActionAccept:      "accept",
	ActionDispute:     "dispute",
	ActionMarkPaid:    "mark_paid",
	ActionConfirmPaid: "confirm_paid",
}

func (a ActionKind) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

func ParseAction(s string) (ActionKind, error) {
	for kind, name := range actionNames {
		if name == s {
			return kind, nil
		}
	}
	return ActionUnknown, fmt.Errorf("unknown debt action %q", s)
}

type Action struct {
	Kind   ActionKind
	Reason string
}
