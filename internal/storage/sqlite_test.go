package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/munimhq/munim/internal/model"
)

func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper to create test bank transactions.
func createTestTransactions(count int) []model.BankTransaction {
	transactions := make([]model.BankTransaction, count)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range transactions {
		transactions[i] = model.BankTransaction{
			ID:          fmt.Sprintf("txn-%03d", i),
			AccountID:   "acct-1",
			Amount:      float64(1000 * (i + 1)),
			Type:        model.TypeCredit,
			Description: fmt.Sprintf("Payment %d", i),
			Date:        base.AddDate(0, 0, i),
		}
	}
	return transactions
}
