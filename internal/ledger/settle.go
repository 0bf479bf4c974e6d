package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ptchy/chiabot/internal/currency"
)

// Transfer is one netted debt: From pays To. Always derived, never
// stored as authoritative state.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// NoExpenses is the reply used when a settlement has nothing to show.
const NoExpenses = "Chưa có khoản chi nào."

// debtMatrix accumulates directed pairwise debts. Go maps iterate in
// random order, and the netting pass relies on visiting pairs in a
// stable order, so keys are tracked in insertion order alongside the
// maps.
type debtMatrix struct {
	order []string
	rows  map[string]*debtRow
}

type debtRow struct {
	order   []string
	amounts map[string]int64
}

func newDebtMatrix() *debtMatrix {
	return &debtMatrix{rows: make(map[string]*debtRow)}
}

func (m *debtMatrix) add(from, to string, amount int64) {
	if amount <= 0 {
		return
	}
	row, ok := m.rows[from]
	if !ok {
		row = &debtRow{amounts: make(map[string]int64)}
		m.rows[from] = row
		m.order = append(m.order, from)
	}
	if _, ok := row.amounts[to]; !ok {
		row.order = append(row.order, to)
	}
	row.amounts[to] += amount
}

func (m *debtMatrix) get(from, to string) int64 {
	if row, ok := m.rows[from]; ok {
		return row.amounts[to]
	}
	return 0
}

func (m *debtMatrix) zero(from, to string) {
	if row, ok := m.rows[from]; ok {
		if _, exists := row.amounts[to]; exists {
			row.amounts[to] = 0
		}
	}
}

// Settle converts the expense log into the minimal set of positive net
// transfers. Each expense's share is rounded to whole baht per item,
// half away from zero; the rounding drift this accumulates (at most
// half a baht per item) is accepted and never reconciled.
func Settle(members []string, items []Expense) ([]Transfer, error) {
	debts := newDebtMatrix()

	for _, item := range items {
		participants := item.Participants
		if len(participants) == 0 {
			participants = members
		}
		if len(participants) == 0 {
			return nil, ErrEmptyParticipants
		}
		share := decimal.NewFromInt(item.Amount).
			DivRound(decimal.NewFromInt(int64(len(participants))), 0).
			IntPart()
		for _, p := range participants {
			if p == item.Payer {
				continue
			}
			debts.add(p, item.Payer, share)
		}
	}

	// Net opposing directions. Zeroing the reverse cell right after
	// computing a net guarantees each unordered pair is resolved
	// exactly once even when both directions carry debt.
	var transfers []Transfer
	for _, from := range debts.order {
		row := debts.rows[from]
		for _, to := range row.order {
			amt := row.amounts[to]
			back := debts.get(to, from)
			if net := amt - back; net > 0 {
				transfers = append(transfers, Transfer{From: from, To: to, Amount: net})
			}
			if back > 0 {
				debts.zero(to, from)
			}
		}
	}

	// Merge duplicate (from, to) pairs, keeping first-seen order.
	merged := newDebtMatrix()
	for _, t := range transfers {
		merged.add(t.From, t.To, t.Amount)
	}
	out := make([]Transfer, 0, len(transfers))
	for _, from := range merged.order {
		row := merged.rows[from]
		for _, to := range row.order {
			if amt := row.amounts[to]; amt > 0 {
				out = append(out, Transfer{From: from, To: to, Amount: amt})
			}
		}
	}
	return out, nil
}

// RenderTransfers formats transfers one per line as
// "from → to: ฿amount". An empty set renders the NoExpenses sentinel.
func RenderTransfers(transfers []Transfer) string {
	if len(transfers) == 0 {
		return NoExpenses
	}
	lines := make([]string, 0, len(transfers))
	for _, t := range transfers {
		lines = append(lines, t.From+" → "+t.To+": "+currency.Format(t.Amount))
	}
	return strings.Join(lines, "\n")
}
