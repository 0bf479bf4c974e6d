package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRosterSize is returned when a roster update does not carry
	// exactly the configured number of names.
	ErrRosterSize = errors.New("roster must contain the configured number of names")

	// ErrDuplicateMember is returned when a roster update repeats a name.
	ErrDuplicateMember = errors.New("roster contains a duplicate name")

	// ErrInvalidAmount is returned for non-positive expense amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrEmptyParticipants signals an expense with no effective
	// participants reaching the settlement engine. Session validation
	// defaults participants to the full roster, so hitting this is a
	// bug in the caller, not user input.
	ErrEmptyParticipants = errors.New("expense has no participants")
)

// UnknownMemberError reports a payer or participant that is not part of
// the current roster, together with the valid names.
type UnknownMemberError struct {
	Name    string
	Members []string
}

func (e *UnknownMemberError) Error() string {
	return fmt.Sprintf("unknown member %q (valid: %s)", e.Name, strings.Join(e.Members, ", "))
}
