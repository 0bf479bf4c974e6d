package ledger

import (
	"reflect"
	"testing"
)

var roster = []string{"A", "B", "C", "D"}

func TestSettle(t *testing.T) {
	tests := []struct {
		name  string
		items []Expense
		want  []Transfer
	}{
		{
			name:  "no expenses",
			items: nil,
			want:  nil,
		},
		{
			name: "single expense split two ways",
			items: []Expense{
				{Payer: "A", Amount: 100, Participants: []string{"A", "B"}},
			},
			want: []Transfer{{From: "B", To: "A", Amount: 50}},
		},
		{
			name: "opposing expenses cancel out",
			items: []Expense{
				{Payer: "A", Amount: 100, Participants: []string{"A", "B"}},
				{Payer: "B", Amount: 100, Participants: []string{"A", "B"}},
			},
			want: nil,
		},
		{
			name: "full roster split",
			items: []Expense{
				{Payer: "A", Amount: 100},
			},
			want: []Transfer{
				{From: "B", To: "A", Amount: 25},
				{From: "C", To: "A", Amount: 25},
				{From: "D", To: "A", Amount: 25},
			},
		},
		{
			name: "three-way split rounds per item",
			items: []Expense{
				{Payer: "A", Amount: 100, Participants: []string{"A", "B", "C"}},
			},
			// round(100/3) = 33 per head; the unit lost to rounding is
			// absorbed by the payer, by design.
			want: []Transfer{
				{From: "B", To: "A", Amount: 33},
				{From: "C", To: "A", Amount: 33},
			},
		},
		{
			name: "payer outside participants still collects",
			items: []Expense{
				{Payer: "A", Amount: 90, Participants: []string{"B", "C", "D"}},
			},
			want: []Transfer{
				{From: "B", To: "A", Amount: 30},
				{From: "C", To: "A", Amount: 30},
				{From: "D", To: "A", Amount: 30},
			},
		},
		{
			name: "partial netting leaves one direction",
			items: []Expense{
				{Payer: "A", Amount: 200, Participants: []string{"A", "B"}},
				{Payer: "B", Amount: 100, Participants: []string{"A", "B"}},
			},
			want: []Transfer{{From: "B", To: "A", Amount: 50}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Settle(roster, tt.items)
			if err != nil {
				t.Fatalf("Settle() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Settle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettleIsDeterministic(t *testing.T) {
	items := []Expense{
		{Payer: "A", Amount: 301, Participants: []string{"A", "B", "C"}},
		{Payer: "B", Amount: 120},
		{Payer: "C", Amount: 75, Participants: []string{"C", "D"}},
		{Payer: "D", Amount: 999, Participants: []string{"A", "D"}},
	}
	first, err := Settle(roster, items)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	rendered := RenderTransfers(first)
	for i := 0; i < 10; i++ {
		again, err := Settle(roster, items)
		if err != nil {
			t.Fatalf("Settle() error = %v", err)
		}
		if !reflect.DeepEqual(again, first) {
			t.Fatalf("run %d: Settle() = %v, want %v", i, again, first)
		}
		if r := RenderTransfers(again); r != rendered {
			t.Fatalf("run %d: rendering changed: %q vs %q", i, r, rendered)
		}
	}
}

func TestSettleEmitsOneDirectionPerPair(t *testing.T) {
	items := []Expense{
		{Payer: "A", Amount: 400},
		{Payer: "B", Amount: 333, Participants: []string{"A", "B", "C"}},
		{Payer: "C", Amount: 50, Participants: []string{"B", "C"}},
		{Payer: "D", Amount: 1000},
	}
	transfers, err := Settle(roster, items)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	seen := make(map[[2]string]bool)
	for _, tr := range transfers {
		if tr.Amount <= 0 {
			t.Errorf("non-positive transfer %v", tr)
		}
		pair := [2]string{tr.From, tr.To}
		if tr.To < tr.From {
			pair = [2]string{tr.To, tr.From}
		}
		if seen[pair] {
			t.Errorf("pair %v settled in both directions", pair)
		}
		seen[pair] = true
	}
}

func TestSettleEmptyParticipants(t *testing.T) {
	_, err := Settle(nil, []Expense{{Payer: "A", Amount: 100}})
	if err == nil {
		t.Fatal("Settle() with no possible participants should fail")
	}
}

func TestRenderTransfers(t *testing.T) {
	if got := RenderTransfers(nil); got != NoExpenses {
		t.Errorf("RenderTransfers(nil) = %q, want %q", got, NoExpenses)
	}

	got := RenderTransfers([]Transfer{
		{From: "B", To: "A", Amount: 50},
		{From: "C", To: "A", Amount: 1250},
	})
	want := "B → A: ฿50\nC → A: ฿1,250"
	if got != want {
		t.Errorf("RenderTransfers() = %q, want %q", got, want)
	}
}
