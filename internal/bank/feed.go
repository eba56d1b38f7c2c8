// Package bank connects accounts and imports transactions from bank feeds.
package bank

import (
	"context"
	"time"

	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// MockFeed is a deterministic bank feed used for demos and tests. A real
// deployment would swap in an aggregator integration behind the same
// interface.
type MockFeed struct {
	// GetTransactionsFn can be set by tests to control behavior.
	GetTransactionsFn func(ctx context.Context, accountID string, startDate, endDate time.Time) ([]model.BankTransaction, error)
}

// NewMockFeed creates a mock bank feed.
func NewMockFeed() *MockFeed {
	return &MockFeed{}
}

// GetTransactions returns the fixture statement for the account, filtered to
// the requested window.
func (f *MockFeed) GetTransactions(ctx context.Context, accountID string, startDate, endDate time.Time) ([]model.BankTransaction, error) {
	if f.GetTransactionsFn != nil {
		return f.GetTransactionsFn(ctx, accountID, startDate, endDate)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var filtered []model.BankTransaction
	for _, txn := range fixtureTransactions(accountID) {
		if txn.Date.Before(startDate) || txn.Date.After(endDate) {
			continue
		}
		filtered = append(filtered, txn)
	}
	return filtered, nil
}

func fixtureTransactions(accountID string) []model.BankTransaction {
	return []model.BankTransaction{
		{
			ID:              "1",
			AccountID:       accountID,
			Amount:          50000,
			Type:            model.TypeCredit,
			Description:     "Flipkart Invoice Payment",
			Date:            time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Category:        "Revenue",
			ReferenceNumber: "TXN001",
			BalanceAfter:    150000,
		},
		{
			ID:              "2",
			AccountID:       accountID,
			Amount:          25000,
			Type:            model.TypeDebit,
			Description:     "AWS Infrastructure Bill",
			Date:            time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Category:        "Infrastructure",
			ReferenceNumber: "TXN002",
			BalanceAfter:    100000,
		},
	}
}

var _ service.BankFeed = (*MockFeed)(nil)
