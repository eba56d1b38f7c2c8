package bank

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
	"github.com/munimhq/munim/internal/storage"
)

func createTestSyncer(t *testing.T, feed service.BankFeed) (*Syncer, *storage.SQLiteStorage) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	syncer, err := NewSyncer(store, feed, slog.Default())
	require.NoError(t, err)
	return syncer, store
}

func TestConnectAccount(t *testing.T) {
	ctx := context.Background()
	syncer, store := createTestSyncer(t, NewMockFeed())

	account, err := syncer.ConnectAccount(ctx, model.BankAccount{
		AccountNumber: "1234567890",
		IFSCCode:      "HDFC0000123",
		BankName:      "HDFC Bank",
		Type:          model.AccountCurrent,
		CompanyID:     "company-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.True(t, account.IsActive)

	accounts, err := store.GetBankAccounts(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "HDFC Bank", accounts[0].BankName)
}

func TestConnectAccountValidation(t *testing.T) {
	ctx := context.Background()
	syncer, _ := createTestSyncer(t, NewMockFeed())

	tests := []struct {
		name    string
		account model.BankAccount
	}{
		{"missing account number", model.BankAccount{BankName: "HDFC Bank", Type: model.AccountCurrent}},
		{"missing bank name", model.BankAccount{AccountNumber: "123", Type: model.AccountCurrent}},
		{"bad account type", model.BankAccount{AccountNumber: "123", BankName: "HDFC Bank", Type: "checking"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := syncer.ConnectAccount(ctx, tt.account)
			assert.ErrorIs(t, err, common.ErrInvalidAccount)
		})
	}
}

func TestSyncImportsFixtureTransactions(t *testing.T) {
	ctx := context.Background()
	syncer, store := createTestSyncer(t, NewMockFeed())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	summary, err := syncer.Sync(ctx, "acct-1", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FetchedCount)
	assert.Equal(t, 2, summary.SyncedCount)

	txns, err := store.GetTransactions(ctx, service.TransactionFilter{AccountID: "acct-1"})
	require.NoError(t, err)
	require.Len(t, txns, 2)
	// Oldest first.
	assert.Equal(t, "AWS Infrastructure Bill", txns[0].Description)
	assert.Equal(t, model.TypeDebit, txns[0].Type)
	assert.Equal(t, "Flipkart Invoice Payment", txns[1].Description)
	assert.Equal(t, model.TypeCredit, txns[1].Type)
}

func TestSyncIsIdempotent(t *testing.T) {
	ctx := context.Background()
	syncer, _ := createTestSyncer(t, NewMockFeed())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	first, err := syncer.Sync(ctx, "acct-1", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, first.SyncedCount)

	second, err := syncer.Sync(ctx, "acct-1", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, second.FetchedCount)
	assert.Equal(t, 0, second.SyncedCount)
}

func TestSyncWindowFiltering(t *testing.T) {
	ctx := context.Background()
	syncer, _ := createTestSyncer(t, NewMockFeed())

	// Only the Jan 10 debit falls inside this window.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	summary, err := syncer.Sync(ctx, "acct-1", start, end)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FetchedCount)

	_, err = syncer.Sync(ctx, "acct-1", end, start)
	assert.Error(t, err)
}

func TestSyncFeedFailure(t *testing.T) {
	ctx := context.Background()
	feed := NewMockFeed()
	feed.GetTransactionsFn = func(context.Context, string, time.Time, time.Time) ([]model.BankTransaction, error) {
		return nil, &common.RetryableError{Err: errors.New("feed offline"), Retryable: false}
	}
	syncer, _ := createTestSyncer(t, feed)

	_, err := syncer.Sync(ctx, "acct-1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, common.ErrFeedUnavailable)
}
