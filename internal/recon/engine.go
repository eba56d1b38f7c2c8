// Package recon implements document-to-bank-transaction reconciliation and
// anomaly detection.
package recon

import (
	"fmt"
	"math"

	"github.com/munimhq/munim/internal/model"
)

// amountTolerance is the absolute variance allowed between a document amount
// and a candidate payment.
const amountTolerance = 100

// matchConfidence is a placeholder, not computed from any signal. Consumers
// must not threshold on it.
const matchConfidence = 0.92

// Result holds the outcome of one reconciliation pass. Both lists may be
// empty; that is a valid result, not an error.
type Result struct {
	Matches   []model.ReconciliationMatch
	Anomalies []model.Anomaly
}

// Engine matches outstanding documents against bank transactions. It is a
// pure function over its inputs: no I/O, no stored state, deterministic for
// identical inputs.
type Engine struct{}

// NewEngine creates a reconciliation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// FindMatches scans sent invoices for credit transactions of matching amount
// on or after the issue date. Matching is greedy first-fit in input order; no
// globally optimal assignment is attempted. Vendor bills are not matched
// against debits; the bill-payment match type is reserved until that behavior
// is specified.
func (e *Engine) FindMatches(documents []model.Document, transactions []model.BankTransaction) Result {
	result := Result{}

	for _, doc := range documents {
		if doc.Type != model.DocTypeInvoice || doc.Status != model.StatusSent || !doc.HasAmount {
			continue
		}

		for _, txn := range transactions {
			if txn.Type != model.TypeCredit {
				continue
			}
			if math.Abs(txn.Amount-doc.Amount) >= amountTolerance {
				continue
			}
			if txn.Date.Before(doc.IssueDate) {
				continue
			}

			result.Matches = append(result.Matches, model.ReconciliationMatch{
				ID:         doc.ID + "-" + txn.ID,
				Type:       model.MatchInvoicePayment,
				Confidence: matchConfidence,
				Source:     doc,
				Target:     txn,
				Suggestion: fmt.Sprintf("Match invoice %s with payment of ₹%.0f", doc.Title, txn.Amount),
				AutoApply:  true,
			})
			break
		}
	}

	result.Anomalies = e.findDuplicates(transactions)
	return result
}

// findDuplicates groups transactions by (amount, date) and reports each group
// with more than one member once, using the first member as representative.
func (e *Engine) findDuplicates(transactions []model.BankTransaction) []model.Anomaly {
	type group struct {
		first model.BankTransaction
		count int
	}

	groups := make(map[string]*group)
	var order []string

	for _, txn := range transactions {
		key := fmt.Sprintf("%.2f-%s", txn.Amount, txn.Date.Format("2006-01-02"))
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{first: txn, count: 1}
			order = append(order, key)
			continue
		}
		g.count++
	}

	var anomalies []model.Anomaly
	for _, key := range order {
		g := groups[key]
		if g.count < 2 {
			continue
		}
		anomalies = append(anomalies, model.Anomaly{
			ID:   fmt.Sprintf("duplicate-%.0f", g.first.Amount),
			Type: model.AnomalyDoubleEntry,
			Description: fmt.Sprintf("Potential duplicate entries of ₹%.0f on %s",
				g.first.Amount, g.first.Date.Format("2006-01-02")),
			Severity: model.SeverityMedium,
		})
	}
	return anomalies
}
