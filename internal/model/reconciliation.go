package model

// MatchType classifies a reconciliation match.
type MatchType string

// Match type constants.
const (
	MatchInvoicePayment MatchType = "invoice-payment"
	MatchBillPayment    MatchType = "bill-payment"
	MatchDuplicate      MatchType = "duplicate"
	MatchMismatch       MatchType = "mismatch"
)

// ReconciliationMatch links one document to one bank transaction. Matches are
// ephemeral: recomputed per invocation, never persisted.
type ReconciliationMatch struct {
	ID         string
	Type       MatchType
	Suggestion string
	Source     Document
	Target     BankTransaction
	Confidence float64
	AutoApply  bool
}

// AnomalyType classifies a detected irregularity.
type AnomalyType string

// Anomaly type constants.
const (
	AnomalyDoubleEntry     AnomalyType = "double_entry"
	AnomalyUnmatchedInflow AnomalyType = "unmatched_inflow"
	AnomalyAmountMismatch  AnomalyType = "amount_mismatch"
)

// Severity grades how urgently an anomaly needs attention.
type Severity string

// Severity constants.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Anomaly is an irregularity flagged during reconciliation.
type Anomaly struct {
	ID          string
	Type        AnomalyType
	Description string
	Severity    Severity
}
