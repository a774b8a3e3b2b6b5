package model

// Suggestion statuses. The only transition is pending -> approved;
// rejection is deliberately not modeled.
const (
	SuggestionPending  = "pending"
	SuggestionApproved = "approved"
)

// Suggestion is a user-proposed catalog entry awaiting admin approval.
// Approval copies its fields into a new Item and freezes the record.
type Suggestion struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Title    string `json:"title"`
	Year     int64  `json:"year"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
}

// IsPending returns true if the suggestion has not been approved yet.
func (s *Suggestion) IsPending() bool {
	return s.Status == SuggestionPending
}
