package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/munimhq/munim/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of bank transactions before save.
func validateTransactions(transactions []model.BankTransaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}

	for i, txn := range transactions {
		if txn.ID == "" {
			return fmt.Errorf("transaction at index %d: missing ID", i)
		}
		if txn.Type != model.TypeCredit && txn.Type != model.TypeDebit {
			return fmt.Errorf("transaction at index %d: invalid type %q", i, txn.Type)
		}
		if txn.Amount < 0 {
			return fmt.Errorf("transaction at index %d: amount must be a positive magnitude", i)
		}
	}
	return nil
}
