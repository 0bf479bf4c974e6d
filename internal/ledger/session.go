package ledger

import (
	"fmt"
	"slices"
)

// Expense is one recorded payment: who paid, how much (whole baht),
// and for whom. An empty Participants list means the full roster at
// the time of settlement. The payer does not have to participate;
// their own share is dropped during settlement either way.
type Expense struct {
	Payer        string   `json:"payer"`
	Amount       int64    `json:"amount"`
	Participants []string `json:"participants,omitempty"`
	Note         string   `json:"note,omitempty"`
}

// Session holds the roster and expense log for one chat. It is a plain
// value: callers load it from a store, mutate it through the methods
// below and put it back as one unit.
type Session struct {
	Members    []string  `json:"members"`
	Items      []Expense `json:"items"`
	LastResult string    `json:"last_result,omitempty"`
}

// NewSession returns a fresh session with the given default roster.
func NewSession(members []string) *Session {
	return &Session{Members: slices.Clone(members)}
}

// SetMembers replaces the roster. Recorded expenses reference member
// names, so the item list and any cached result are dropped with the
// old roster. size is the configured group size.
func (s *Session) SetMembers(names []string, size int) error {
	if len(names) != size {
		return fmt.Errorf("%w: got %d, want %d", ErrRosterSize, len(names), size)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateMember, n)
		}
		seen[n] = struct{}{}
	}
	s.Members = slices.Clone(names)
	s.Items = nil
	s.LastResult = ""
	return nil
}

// AddExpense validates the expense against the roster and appends it.
// Nothing is mutated when validation fails. Empty participants default
// to the full roster.
func (s *Session) AddExpense(e Expense) error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, e.Amount)
	}
	if !slices.Contains(s.Members, e.Payer) {
		return &UnknownMemberError{Name: e.Payer, Members: s.Members}
	}
	for _, p := range e.Participants {
		if !slices.Contains(s.Members, p) {
			return &UnknownMemberError{Name: p, Members: s.Members}
		}
	}
	if len(e.Participants) == 0 {
		e.Participants = slices.Clone(s.Members)
	}
	s.Items = append(s.Items, e)
	return nil
}

// Clear drops all recorded expenses and the cached result, keeping the
// roster.
func (s *Session) Clear() {
	s.Items = nil
	s.LastResult = ""
}

// RecordResult caches the most recent rendered settlement so it can be
// re-announced later.
func (s *Session) RecordResult(rendered string) {
	s.LastResult = rendered
}
