package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munimhq/munim/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sentInvoice(id string, amount float64, issued string) model.Document {
	return model.Document{
		ID:        id,
		Title:     "INV-" + id,
		Type:      model.DocTypeInvoice,
		Status:    model.StatusSent,
		Amount:    amount,
		HasAmount: true,
		IssueDate: date(issued),
	}
}

func credit(id string, amount float64, day string) model.BankTransaction {
	return model.BankTransaction{
		ID:     id,
		Type:   model.TypeCredit,
		Amount: amount,
		Date:   date(day),
	}
}

func TestFindMatchesInvoicePayment(t *testing.T) {
	engine := NewEngine()

	docs := []model.Document{sentInvoice("d1", 50000, "2024-01-15")}
	txns := []model.BankTransaction{credit("t1", 50000, "2024-01-16")}

	result := engine.FindMatches(docs, txns)
	require.Len(t, result.Matches, 1)

	match := result.Matches[0]
	assert.Equal(t, model.MatchInvoicePayment, match.Type)
	assert.Equal(t, "d1-t1", match.ID)
	assert.Equal(t, "d1", match.Source.ID)
	assert.Equal(t, "t1", match.Target.ID)
	assert.Equal(t, 0.92, match.Confidence)
	assert.True(t, match.AutoApply)
	assert.Contains(t, match.Suggestion, "INV-d1")
}

func TestFindMatchesFilters(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name string
		docs []model.Document
		txns []model.BankTransaction
	}{
		{
			name: "draft invoice is skipped",
			docs: []model.Document{{
				ID: "d1", Type: model.DocTypeInvoice, Status: model.StatusDraft,
				Amount: 50000, HasAmount: true, IssueDate: date("2024-01-15"),
			}},
			txns: []model.BankTransaction{credit("t1", 50000, "2024-01-16")},
		},
		{
			name: "vendor bill is never matched",
			docs: []model.Document{{
				ID: "d1", Type: model.DocTypeVendorBill, Status: model.StatusSent,
				Amount: 50000, HasAmount: true, IssueDate: date("2024-01-15"),
			}},
			txns: []model.BankTransaction{{
				ID: "t1", Type: model.TypeDebit, Amount: 50000, Date: date("2024-01-16"),
			}},
		},
		{
			name: "debit transaction is skipped",
			docs: []model.Document{sentInvoice("d1", 50000, "2024-01-15")},
			txns: []model.BankTransaction{{
				ID: "t1", Type: model.TypeDebit, Amount: 50000, Date: date("2024-01-16"),
			}},
		},
		{
			name: "payment before issue date is skipped",
			docs: []model.Document{sentInvoice("d1", 50000, "2024-01-15")},
			txns: []model.BankTransaction{credit("t1", 50000, "2024-01-10")},
		},
		{
			name: "amount outside tolerance is skipped",
			docs: []model.Document{sentInvoice("d1", 50000, "2024-01-15")},
			txns: []model.BankTransaction{credit("t1", 50100, "2024-01-16")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.FindMatches(tt.docs, tt.txns)
			assert.Empty(t, result.Matches)
		})
	}
}

func TestFindMatchesWithinTolerance(t *testing.T) {
	engine := NewEngine()

	docs := []model.Document{sentInvoice("d1", 50000, "2024-01-15")}
	txns := []model.BankTransaction{credit("t1", 50099, "2024-01-16")}

	result := engine.FindMatches(docs, txns)
	require.Len(t, result.Matches, 1)
}

func TestFindMatchesGreedyFirstFit(t *testing.T) {
	engine := NewEngine()

	docs := []model.Document{sentInvoice("d1", 50000, "2024-01-15")}
	txns := []model.BankTransaction{
		credit("t1", 50000, "2024-01-16"),
		credit("t2", 50000, "2024-01-20"),
	}

	result := engine.FindMatches(docs, txns)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "t1", result.Matches[0].Target.ID)
}

func TestDuplicateAnomalies(t *testing.T) {
	engine := NewEngine()

	t.Run("pair yields one anomaly", func(t *testing.T) {
		txns := []model.BankTransaction{
			credit("t1", 9999, "2024-02-01"),
			credit("t2", 9999, "2024-02-01"),
		}
		result := engine.FindMatches(nil, txns)
		require.Len(t, result.Anomalies, 1)

		anomaly := result.Anomalies[0]
		assert.Equal(t, model.AnomalyDoubleEntry, anomaly.Type)
		assert.Equal(t, model.SeverityMedium, anomaly.Severity)
		assert.Contains(t, anomaly.Description, "9999")
		assert.Contains(t, anomaly.Description, "2024-02-01")
	})

	t.Run("triple still yields one anomaly", func(t *testing.T) {
		txns := []model.BankTransaction{
			credit("t1", 9999, "2024-02-01"),
			credit("t2", 9999, "2024-02-01"),
			credit("t3", 9999, "2024-02-01"),
		}
		result := engine.FindMatches(nil, txns)
		assert.Len(t, result.Anomalies, 1)
	})

	t.Run("same amount different date is not a duplicate", func(t *testing.T) {
		txns := []model.BankTransaction{
			credit("t1", 9999, "2024-02-01"),
			credit("t2", 9999, "2024-02-02"),
		}
		result := engine.FindMatches(nil, txns)
		assert.Empty(t, result.Anomalies)
	})
}

func TestFindMatchesIdempotent(t *testing.T) {
	engine := NewEngine()

	docs := []model.Document{
		sentInvoice("d1", 50000, "2024-01-15"),
		sentInvoice("d2", 29500, "2024-01-05"),
	}
	txns := []model.BankTransaction{
		credit("t1", 50000, "2024-01-16"),
		credit("t2", 29500, "2024-01-08"),
		credit("t3", 29500, "2024-01-08"),
	}

	first := engine.FindMatches(docs, txns)
	second := engine.FindMatches(docs, txns)
	assert.Equal(t, first, second)
}

func TestJournalEntry(t *testing.T) {
	engine := NewEngine()

	t.Run("invoice payment produces balanced entry", func(t *testing.T) {
		docs := []model.Document{sentInvoice("d1", 50000, "2024-01-15")}
		txns := []model.BankTransaction{credit("t1", 50000, "2024-01-16")}
		result := engine.FindMatches(docs, txns)
		require.Len(t, result.Matches, 1)

		entry := engine.JournalEntry(result.Matches[0])
		require.NotNil(t, entry)
		require.Len(t, entry.Debits, 1)
		require.Len(t, entry.Credits, 1)
		assert.Equal(t, "Bank", entry.Debits[0].Account)
		assert.Equal(t, "Accounts Receivable", entry.Credits[0].Account)
		assert.Equal(t, float64(50000), entry.DebitTotal())
		assert.True(t, entry.Balanced())
	})

	t.Run("every invoice-payment match balances", func(t *testing.T) {
		docs := []model.Document{
			sentInvoice("d1", 50000, "2024-01-15"),
			sentInvoice("d2", 29450, "2024-01-05"),
		}
		txns := []model.BankTransaction{
			credit("t1", 50050, "2024-01-16"),
			credit("t2", 29500, "2024-01-08"),
		}
		result := engine.FindMatches(docs, txns)
		require.Len(t, result.Matches, 2)

		for _, match := range result.Matches {
			entry := engine.JournalEntry(match)
			require.NotNil(t, entry)
			assert.True(t, entry.Balanced())
			assert.Equal(t, match.Target.Amount, entry.DebitTotal())
		}
	})

	t.Run("other match types produce no entry", func(t *testing.T) {
		entry := engine.JournalEntry(model.ReconciliationMatch{Type: model.MatchBillPayment})
		assert.Nil(t, entry)
		entry = engine.JournalEntry(model.ReconciliationMatch{Type: model.MatchDuplicate})
		assert.Nil(t, entry)
	})
}
