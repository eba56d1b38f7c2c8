package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
)

// GetAccountCategories returns the chart of accounts in catalog order.
func (s *SQLiteStorage) GetAccountCategories(ctx context.Context) ([]model.AccountCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, ledger_type, keywords, default_tax_rate
		FROM account_categories
		ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.AccountCategory
	for rows.Next() {
		cat, err := scanAccountCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account category: %w", err)
		}
		categories = append(categories, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account categories: %w", err)
	}

	slog.Debug("retrieved account categories", "count", len(categories))
	return categories, nil
}

// GetAccountCategoryByID returns a single chart-of-accounts entry.
func (s *SQLiteStorage) GetAccountCategoryByID(ctx context.Context, id string) (*model.AccountCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, ledger_type, keywords, default_tax_rate
		FROM account_categories WHERE id = ?`, id)

	cat, err := scanAccountCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account category: %w", err)
	}
	return cat, nil
}

func scanAccountCategory(row rowScanner) (*model.AccountCategory, error) {
	var cat model.AccountCategory
	var ledgerType, keywords string
	var taxRate sql.NullFloat64

	if err := row.Scan(&cat.ID, &cat.Name, &ledgerType, &keywords, &taxRate); err != nil {
		return nil, err
	}

	cat.Type = model.LedgerType(ledgerType)
	if keywords != "" {
		cat.Keywords = strings.Split(keywords, ",")
	}
	if taxRate.Valid {
		cat.DefaultTaxRate = taxRate.Float64
		cat.HasTaxRate = true
	}
	return &cat, nil
}
