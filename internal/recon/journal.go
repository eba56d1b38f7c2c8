package recon

import (
	"fmt"

	"github.com/munimhq/munim/internal/model"
)

// Ledger account names used in derived entries.
const (
	accountBank       = "Bank"
	accountReceivable = "Accounts Receivable"
)

// JournalEntry derives a balanced double-entry posting from a match. Only
// invoice-payment matches produce an entry; every other type returns nil.
func (e *Engine) JournalEntry(match model.ReconciliationMatch) *model.JournalEntry {
	if match.Type != model.MatchInvoicePayment {
		return nil
	}

	amount := match.Target.Amount
	return &model.JournalEntry{
		Description: fmt.Sprintf("Payment received for %s", match.Source.Title),
		Debits:      []model.JournalLine{{Account: accountBank, Amount: amount}},
		Credits:     []model.JournalLine{{Account: accountReceivable, Amount: amount}},
	}
}
