// Package command turns raw chat text into typed intents. The ledger
// core never sees message text; it receives one of the Intent values
// below, already tokenized and shaped.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Intent is a parsed chat command.
type Intent interface{ intent() }

type (
	// Help requests the usage text (/start).
	Help struct{}
	// ShowMembers requests the current roster (/names with no payload).
	ShowMembers struct{}
	// SetMembers replaces the roster (/names A,B,C,D).
	SetMembers struct{ Names []string }
	// AddExpense records one payment (/add, /spent). An empty
	// Participants list means the full roster.
	AddExpense struct {
		Payer        string
		Amount       int64
		Participants []string
		Note         string
	}
	// Compute runs the settlement (/chia, /split).
	Compute struct{}
	// ClearLedger drops recorded expenses (/clear, /reset).
	ClearLedger struct{}
	// GetIdentifier asks for the chat ID (/getchatid).
	GetIdentifier struct{}
	// Announce re-sends the last settlement (/send, /announce).
	Announce struct{}
	// Ping is the liveness check (/ping).
	Ping struct{}
)

func (Help) intent()          {}
func (ShowMembers) intent()   {}
func (SetMembers) intent()    {}
func (AddExpense) intent()    {}
func (Compute) intent()       {}
func (ClearLedger) intent()   {}
func (GetIdentifier) intent() {}
func (Announce) intent()      {}
func (Ping) intent()          {}

var (
	// ErrBadAmount is returned when the amount token is not a positive
	// whole number.
	ErrBadAmount = errors.New("invalid amount")

	// ErrAddUsage is returned when /add carries too few arguments.
	ErrAddUsage = errors.New("add command needs a payer and an amount")
)

// BadParticipantsError reports an explicit participant list containing
// names outside the roster.
type BadParticipantsError struct {
	Members []string
}

func (e *BadParticipantsError) Error() string {
	return fmt.Sprintf("invalid participant list (valid: %s)", strings.Join(e.Members, ", "))
}

// Parse maps text to an intent. Non-command text and unknown commands
// yield (nil, nil): the bot stays silent on anything it does not own.
// roster is needed to disambiguate the space-separated /add form,
// where the third token is a participant list only when every entry is
// a known member.
func Parse(text string, roster []string) (Intent, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return nil, nil
	}
	cmd, rest, _ := strings.Cut(text, " ")
	// In group chats Telegram appends the bot mention: /chia@somebot.
	cmd, _, _ = strings.Cut(cmd, "@")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "/start", "/help":
		return Help{}, nil
	case "/names":
		if rest == "" {
			return ShowMembers{}, nil
		}
		return SetMembers{Names: splitList(rest)}, nil
	case "/add", "/spent":
		return parseAdd(rest, roster)
	case "/chia", "/split":
		return Compute{}, nil
	case "/clear", "/reset":
		return ClearLedger{}, nil
	case "/getchatid":
		return GetIdentifier{}, nil
	case "/send", "/announce":
		return Announce{}, nil
	case "/ping":
		return Ping{}, nil
	}
	return nil, nil
}

// parseAdd accepts two shapes:
//
//	/add payer - amount - A,B|all - note   (hyphen-separated, explicit)
//	/add payer amount [A,B|all] [note]     (space-separated, quick)
func parseAdd(rest string, roster []string) (Intent, error) {
	if dash := splitDashes(rest); len(dash) >= 2 {
		amount, err := parseAmount(dash[1])
		if err != nil {
			return nil, err
		}
		out := AddExpense{Payer: dash[0], Amount: amount}
		if len(dash) > 2 {
			participants, ok := parseParticipants(dash[2], roster)
			if !ok {
				return nil, &BadParticipantsError{Members: roster}
			}
			out.Participants = participants
		}
		if len(dash) > 3 {
			out.Note = dash[3]
		}
		return out, nil
	}

	args := strings.Fields(rest)
	if len(args) < 2 {
		return nil, ErrAddUsage
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return nil, err
	}
	out := AddExpense{Payer: args[0], Amount: amount}
	noteStart := 2
	if len(args) > 2 {
		// Third token is a participant list only when it resolves
		// against the roster; otherwise it is the start of the note.
		if participants, ok := parseParticipants(args[2], roster); ok {
			out.Participants = participants
			noteStart = 3
		}
	}
	out.Note = strings.Join(args[noteStart:], " ")
	return out, nil
}

// parseParticipants resolves a comma-separated name list. "all" (any
// case, optionally bracketed) means the full roster, returned as nil so
// the ledger applies its default.
func parseParticipants(raw string, roster []string) ([]string, bool) {
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if strings.EqualFold(raw, "all") {
		return nil, true
	}
	names := splitList(raw)
	if len(names) == 0 {
		return nil, false
	}
	for _, n := range names {
		if !slices.Contains(roster, n) {
			return nil, false
		}
	}
	return names, true
}

func parseAmount(raw string) (int64, error) {
	normalized := strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseInt(normalized, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, raw)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var dashSep = regexp.MustCompile(`\s*-\s*`)

func splitDashes(raw string) []string {
	var out []string
	for _, part := range dashSep.Split(raw, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
