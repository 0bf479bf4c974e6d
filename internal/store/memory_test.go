package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/ptchy/chiabot/internal/ledger"
)

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemory()
	s, err := m.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s != nil {
		t.Errorf("Get() on missing key = %v, want nil", s)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	s := ledger.NewSession([]string{"A", "B", "C", "D"})
	if err := s.AddExpense(ledger.Expense{Payer: "A", Amount: 100, Note: "taxi"}); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	s.RecordResult("B → A: ฿50")

	if err := m.Put(context.Background(), 7, s); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := m.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Errorf("Get() = %+v, want %+v", got, s)
	}
}

func TestMemoryIsolatesStoredState(t *testing.T) {
	m := NewMemory()
	s := ledger.NewSession([]string{"A", "B", "C", "D"})
	if err := m.Put(context.Background(), 1, s); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Mutating the value after Put must not leak into the store.
	if err := s.AddExpense(ledger.Expense{Payer: "A", Amount: 100}); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	stored, err := m.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(stored.Items) != 0 {
		t.Errorf("stored session picked up an outside mutation: %v", stored.Items)
	}

	// Mutating a loaded value must not leak either.
	if err := stored.AddExpense(ledger.Expense{Payer: "B", Amount: 50}); err != nil {
		t.Fatalf("AddExpense() error = %v", err)
	}
	again, err := m.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(again.Items) != 0 {
		t.Errorf("loaded session mutation leaked into the store: %v", again.Items)
	}
}
