package domain

type MatchKind string

const (
	MatchPrimary     MatchKind = "primary"
	MatchAlternative MatchKind = "alternative"
)

// MatchResult pairs an item with a client and the score explaining the fit.
// It is transient: produced per dispatch request and never persisted.
type MatchResult struct {
	ItemID   string
	ClientID string
	Score    int
	Reasons  []string
	Kind     MatchKind
}

// ClientDispatch is the dispatch proposal for a single client of a tour.
// Validated stays false until the caller confirms each assignment.
type ClientDispatch struct {
	Client       *Client
	Primary      []MatchResult
	Alternatives []MatchResult
	Complete     bool
	Validated    bool
}

// TourDispatch is the proposal for a whole tour, in visiting order.
type TourDispatch struct {
	Tour    *Tour
	Clients []ClientDispatch
}

// AssignmentOutcome reports the result of a confirm-assignment command.
// Losing the race for an item is a normal outcome, not an error.
type AssignmentOutcome struct {
	ClientID  string
	ItemID    string
	Confirmed bool
	Conflict  bool
}
