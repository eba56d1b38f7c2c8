package gst

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// Service computes and files GST returns from stored invoices and expenses.
type Service struct {
	storage   service.Storage
	gateway   service.FilingGateway
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewService creates a GST service.
func NewService(storage service.Storage, gateway service.FilingGateway, logger *slog.Logger) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		storage: storage,
		gateway: gateway,
		logger:  logger,
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 2 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// GenerateGSTR3B builds a draft GSTR-3B return for the filing period.
// Output tax comes from invoices issued in the period; input tax credit
// from expense tax amounts dated in the period.
func (s *Service) GenerateGSTR3B(ctx context.Context, period, companyID string) (*model.GSTReturn, error) {
	start, end, err := model.PeriodRange(period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidPeriod, err)
	}

	invoices, err := s.storage.GetInvoicesByPeriod(ctx, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices for period: %w", err)
	}

	var taxableValue, outputTax float64
	for _, inv := range invoices {
		taxableValue += inv.Subtotal
		outputTax += inv.TaxAmount
	}

	// Expense date filters are inclusive; the period end is the first
	// instant of the next month.
	periodEnd := end.Add(-time.Nanosecond)
	expenses, err := s.storage.GetExpenses(ctx, companyID, model.ExpenseFilter{
		DateFrom: &start,
		DateTo:   &periodEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses for period: %w", err)
	}

	var inputCredit float64
	for _, exp := range expenses {
		inputCredit += exp.TaxAmount
	}

	ret := &model.GSTReturn{
		ID:                uuid.New().String(),
		ReturnType:        model.ReturnGSTR3B,
		Period:            period,
		Status:            model.GSTDraft,
		TotalTaxableValue: taxableValue,
		TotalTaxAmount:    outputTax,
		InputTaxCredit:    inputCredit,
		CompanyID:         companyID,
	}

	if err := s.storage.SaveGSTReturn(ctx, ret); err != nil {
		return nil, fmt.Errorf("failed to save GST return: %w", err)
	}

	s.logger.Info("Generated GSTR-3B",
		"period", period,
		"taxable_value", taxableValue,
		"output_tax", outputTax,
		"input_credit", inputCredit,
		"net_payable", ret.NetTaxPayable())
	return ret, nil
}

// FileReturn submits a draft return to the portal gateway and records the
// acknowledgment. Already-filed returns are rejected.
func (s *Service) FileReturn(ctx context.Context, returnID string) (*model.GSTReturn, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: no filing gateway configured", common.ErrFilingFailed)
	}

	ret, err := s.storage.GetGSTReturnByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if ret.Status != model.GSTDraft {
		return nil, fmt.Errorf("%w: return %s is %s", common.ErrAlreadyFiled, returnID, ret.Status)
	}

	var ackNumber string
	err = common.WithRetry(ctx, func() error {
		var fileErr error
		ackNumber, fileErr = s.gateway.FileReturn(ctx, ret)
		return fileErr
	}, s.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFilingFailed, err)
	}

	now := time.Now().UTC()
	ret.Status = model.GSTFiled
	ret.FilingDate = &now
	ret.AckNumber = ackNumber

	if err := s.storage.SaveGSTReturn(ctx, ret); err != nil {
		return nil, fmt.Errorf("failed to record filing: %w", err)
	}

	s.logger.Info("Filed GST return",
		"return_id", returnID,
		"period", ret.Period,
		"ack_number", ackNumber)
	return ret, nil
}

// Returns lists all GST returns for a company, newest period first.
func (s *Service) Returns(ctx context.Context, companyID string) ([]model.GSTReturn, error) {
	return s.storage.GetGSTReturns(ctx, companyID)
}
