package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// TransactionType indicates the direction of a bank transaction.
type TransactionType string

const (
	// TypeCredit represents money flowing into the account.
	TypeCredit TransactionType = "credit"
	// TypeDebit represents money flowing out of the account.
	TypeDebit TransactionType = "debit"
)

// BankTransaction represents a single bank statement entry. Immutable once
// fetched; created by bank-sync import.
type BankTransaction struct {
	Date            time.Time
	ID              string
	AccountID       string
	Description     string
	Category        string
	ReferenceNumber string
	Hash            string
	Type            TransactionType
	Amount          float64 // Positive magnitude; direction is in Type
	BalanceAfter    float64
}

// GenerateHash creates a unique hash for duplicate detection on import.
func (t *BankTransaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Type,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// AccountType distinguishes current from savings accounts.
type AccountType string

const (
	// AccountCurrent is a business current account.
	AccountCurrent AccountType = "current"
	// AccountSavings is a savings account.
	AccountSavings AccountType = "savings"
)

// BankAccount represents a connected bank account.
type BankAccount struct {
	ID            string
	AccountNumber string
	IFSCCode      string
	BankName      string
	CompanyID     string
	Type          AccountType
	Balance       float64
	IsActive      bool
}
