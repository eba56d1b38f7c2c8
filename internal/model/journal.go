package model

import "math"

// JournalLine is a single debit or credit posting.
type JournalLine struct {
	Account string
	Amount  float64
}

// JournalEntry is a balanced double-entry posting derived from a
// reconciliation match.
type JournalEntry struct {
	Description string
	Debits      []JournalLine
	Credits     []JournalLine
}

// DebitTotal sums the debit side.
func (e *JournalEntry) DebitTotal() float64 {
	var total float64
	for _, line := range e.Debits {
		total += line.Amount
	}
	return total
}

// CreditTotal sums the credit side.
func (e *JournalEntry) CreditTotal() float64 {
	var total float64
	for _, line := range e.Credits {
		total += line.Amount
	}
	return total
}

// Balanced reports whether debit and credit totals agree to the paisa.
func (e *JournalEntry) Balanced() bool {
	return math.Abs(e.DebitTotal()-e.CreditTotal()) < 0.005
}
