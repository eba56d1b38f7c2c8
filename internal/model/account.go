package model

// LedgerType classifies accounts per the standard accounting equation.
type LedgerType string

// Ledger type constants.
const (
	LedgerAsset     LedgerType = "Asset"
	LedgerLiability LedgerType = "Liability"
	LedgerEquity    LedgerType = "Equity"
	LedgerRevenue   LedgerType = "Revenue"
	LedgerExpense   LedgerType = "Expense"
)

// AccountCategory is a chart-of-accounts entry. The keyword set drives
// automatic categorization of free-text transaction descriptions.
type AccountCategory struct {
	ID             string
	Name           string
	Type           LedgerType
	Keywords       []string
	DefaultTaxRate float64
	HasTaxRate     bool
}
