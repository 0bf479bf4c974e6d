package command

import (
	"errors"
	"reflect"
	"testing"
)

var roster = []string{"An", "Bình", "Chi", "Dũng"}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{name: "start", text: "/start", want: Help{}},
		{name: "ping", text: "/ping", want: Ping{}},
		{name: "chia", text: "/chia", want: Compute{}},
		{name: "split alias", text: "/split", want: Compute{}},
		{name: "clear", text: "/clear", want: ClearLedger{}},
		{name: "reset alias", text: "/reset", want: ClearLedger{}},
		{name: "getchatid", text: "/getchatid", want: GetIdentifier{}},
		{name: "send", text: "/send", want: Announce{}},
		{name: "announce alias", text: "/announce", want: Announce{}},
		{name: "bot mention suffix", text: "/chia@chiabot", want: Compute{}},
		{name: "uppercase command", text: "/CHIA", want: Compute{}},
		{name: "names without payload", text: "/names", want: ShowMembers{}},
		{
			name: "names with payload",
			text: "/names An, Bình ,Chi,Dũng",
			want: SetMembers{Names: []string{"An", "Bình", "Chi", "Dũng"}},
		},
		{
			name: "add space form",
			text: "/add An 125000",
			want: AddExpense{Payer: "An", Amount: 125000},
		},
		{
			name: "add space form with participants and note",
			text: "/add An 100 An,Bình tiền taxi",
			want: AddExpense{Payer: "An", Amount: 100, Participants: []string{"An", "Bình"}, Note: "tiền taxi"},
		},
		{
			name: "add space form all keyword",
			text: "/add An 100 all ăn tối",
			want: AddExpense{Payer: "An", Amount: 100, Note: "ăn tối"},
		},
		{
			name: "add space form note only",
			text: "/add An 100 taxi về nhà",
			want: AddExpense{Payer: "An", Amount: 100, Note: "taxi về nhà"},
		},
		{
			name: "add dash form",
			text: "/spent An - 125,000 - [An,Bình] - ăn tối",
			want: AddExpense{Payer: "An", Amount: 125000, Participants: []string{"An", "Bình"}, Note: "ăn tối"},
		},
		{
			name: "add dash form all",
			text: "/add An - 100 - all",
			want: AddExpense{Payer: "An", Amount: 100},
		},
		{
			name: "non-command text ignored",
			text: "hello everyone",
			want: nil,
		},
		{
			name: "unknown command ignored",
			text: "/weather",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text, roster)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.text, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "add without amount", text: "/add An", wantErr: ErrAddUsage},
		{name: "non-numeric amount", text: "/add An abc", wantErr: ErrBadAmount},
		{name: "zero amount", text: "/add An 0", wantErr: ErrBadAmount},
		{name: "dash form bad amount", text: "/add An - xx - all", wantErr: ErrBadAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text, roster)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.text, err, tt.wantErr)
			}
		})
	}
}

func TestParseDashFormRejectsUnknownParticipants(t *testing.T) {
	_, err := Parse("/add An - 100 - An,Zed - note", roster)
	var bad *BadParticipantsError
	if !errors.As(err, &bad) {
		t.Fatalf("Parse() error = %v, want BadParticipantsError", err)
	}
	if !reflect.DeepEqual(bad.Members, roster) {
		t.Errorf("valid set = %v, want %v", bad.Members, roster)
	}
}

func TestParseSpaceFormUnknownListBecomesNote(t *testing.T) {
	// In the quick form an unresolvable third token is not an error;
	// it is simply the start of the note.
	got, err := Parse("/add An 100 An,Zed lunch", roster)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := AddExpense{Payer: "An", Amount: 100, Note: "An,Zed lunch"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %#v, want %#v", got, want)
	}
}
