package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// SaveTransactions saves bank transactions, skipping duplicates by hash.
// Returns the number of newly inserted rows.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.BankTransaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}
	if len(transactions) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO bank_transactions (
			id, hash, account_id, amount, transaction_type, description,
			date, category, reference_number, balance_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for i := range transactions {
		txn := &transactions[i]
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		result, err := stmt.ExecContext(ctx,
			txn.ID, txn.Hash, txn.AccountID, txn.Amount, string(txn.Type),
			txn.Description, txn.Date, nullString(txn.Category),
			nullString(txn.ReferenceNumber), txn.BalanceAfter)
		if err != nil {
			return 0, fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to check insert result: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}

	slog.Info("saved bank transactions",
		"total", len(transactions),
		"inserted", inserted,
		"duplicates", len(transactions)-inserted)
	return inserted, nil
}

// GetTransactions returns bank transactions matching the filter, oldest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.BankTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, ErrInvalidDateRange
	}

	query := `
		SELECT id, hash, account_id, amount, transaction_type, description,
		       date, category, reference_number, balance_after
		FROM bank_transactions WHERE 1=1`
	var args []any

	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.Type != "" {
		query += " AND transaction_type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY date, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.BankTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// GetTransactionByID returns a single bank transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.BankTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, hash, account_id, amount, transaction_type, description,
		       date, category, reference_number, balance_after
		FROM bank_transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

func scanTransaction(row rowScanner) (*model.BankTransaction, error) {
	var txn model.BankTransaction
	var txnType string
	var description, category, reference sql.NullString
	var balanceAfter sql.NullFloat64

	err := row.Scan(&txn.ID, &txn.Hash, &txn.AccountID, &txn.Amount, &txnType,
		&description, &txn.Date, &category, &reference, &balanceAfter)
	if err != nil {
		return nil, err
	}

	txn.Type = model.TransactionType(txnType)
	txn.Description = description.String
	txn.Category = category.String
	txn.ReferenceNumber = reference.String
	txn.BalanceAfter = balanceAfter.Float64
	return &txn, nil
}

// SaveBankAccount inserts or replaces a connected bank account.
func (s *SQLiteStorage) SaveBankAccount(ctx context.Context, account *model.BankAccount) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if account.ID == "" || account.AccountNumber == "" {
		return common.ErrInvalidAccount
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO bank_accounts (
			id, account_number, ifsc_code, bank_name, account_type,
			balance, company_id, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.AccountNumber, nullString(account.IFSCCode),
		account.BankName, string(account.Type), account.Balance,
		account.CompanyID, account.IsActive)
	if err != nil {
		return fmt.Errorf("failed to save bank account: %w", err)
	}
	return nil
}

// GetBankAccounts returns all active accounts for a company.
func (s *SQLiteStorage) GetBankAccounts(ctx context.Context, companyID string) ([]model.BankAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_number, ifsc_code, bank_name, account_type,
		       balance, company_id, is_active
		FROM bank_accounts WHERE company_id = ? AND is_active = 1
		ORDER BY bank_name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.BankAccount
	for rows.Next() {
		var acct model.BankAccount
		var ifsc sql.NullString
		var acctType string
		if err := rows.Scan(&acct.ID, &acct.AccountNumber, &ifsc, &acct.BankName,
			&acctType, &acct.Balance, &acct.CompanyID, &acct.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		acct.IFSCCode = ifsc.String
		acct.Type = model.AccountType(acctType)
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank accounts: %w", err)
	}
	return accounts, nil
}
