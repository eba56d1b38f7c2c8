package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
)

// SaveGSTReturn inserts or replaces a GST return.
func (s *SQLiteStorage) SaveGSTReturn(ctx context.Context, ret *model.GSTReturn) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if ret == nil {
		return fmt.Errorf("%w: return", ErrNilParameter)
	}
	if err := model.ValidatePeriod(ret.Period); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidPeriod, err)
	}

	var filingDate any
	if ret.FilingDate != nil {
		filingDate = *ret.FilingDate
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO gst_returns (
			id, return_type, period, filing_date, status,
			total_taxable_value, total_tax_amount, input_tax_credit,
			ack_number, company_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ret.ID, string(ret.ReturnType), ret.Period, filingDate,
		string(ret.Status), ret.TotalTaxableValue, ret.TotalTaxAmount,
		ret.InputTaxCredit, nullString(ret.AckNumber), ret.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to save GST return: %w", err)
	}
	return nil
}

// GetGSTReturnByID returns a single GST return.
func (s *SQLiteStorage) GetGSTReturnByID(ctx context.Context, id string) (*model.GSTReturn, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, gstReturnSelect+" WHERE id = ?", id)
	ret, err := scanGSTReturn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query GST return: %w", err)
	}
	return ret, nil
}

// GetGSTReturns returns all returns for a company, newest period first.
func (s *SQLiteStorage) GetGSTReturns(ctx context.Context, companyID string) ([]model.GSTReturn, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		gstReturnSelect+` WHERE company_id = ? ORDER BY period DESC, return_type`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query GST returns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var returns []model.GSTReturn
	for rows.Next() {
		ret, err := scanGSTReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan GST return: %w", err)
		}
		returns = append(returns, *ret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating GST returns: %w", err)
	}
	return returns, nil
}

const gstReturnSelect = `
	SELECT id, return_type, period, filing_date, status,
	       total_taxable_value, total_tax_amount, input_tax_credit,
	       ack_number, company_id
	FROM gst_returns`

func scanGSTReturn(row rowScanner) (*model.GSTReturn, error) {
	var ret model.GSTReturn
	var returnType, status string
	var filingDate sql.NullTime
	var ackNumber sql.NullString

	err := row.Scan(&ret.ID, &returnType, &ret.Period, &filingDate, &status,
		&ret.TotalTaxableValue, &ret.TotalTaxAmount, &ret.InputTaxCredit,
		&ackNumber, &ret.CompanyID)
	if err != nil {
		return nil, err
	}

	ret.ReturnType = model.GSTReturnType(returnType)
	ret.Status = model.GSTReturnStatus(status)
	ret.AckNumber = ackNumber.String
	if filingDate.Valid {
		t := filingDate.Time
		ret.FilingDate = &t
	}
	return &ret, nil
}
