package model

import (
	"fmt"
	"regexp"
	"time"
)

// GSTReturnType identifies the GST return form.
type GSTReturnType string

// GST return type constants.
const (
	ReturnGSTR1  GSTReturnType = "GSTR1"
	ReturnGSTR3B GSTReturnType = "GSTR3B"
	ReturnGSTR9  GSTReturnType = "GSTR9"
)

// GSTReturnStatus tracks a return through filing.
type GSTReturnStatus string

// GST return status constants.
const (
	GSTDraft     GSTReturnStatus = "draft"
	GSTFiled     GSTReturnStatus = "filed"
	GSTProcessed GSTReturnStatus = "processed"
)

// GSTReturn represents a GST return for a filing period.
type GSTReturn struct {
	FilingDate        *time.Time
	ID                string
	ReturnType        GSTReturnType
	Period            string // YYYY-MM
	CompanyID         string
	AckNumber         string
	Status            GSTReturnStatus
	TotalTaxableValue float64
	TotalTaxAmount    float64
	InputTaxCredit    float64
}

// NetTaxPayable is output tax less input credit, floored at zero.
func (r *GSTReturn) NetTaxPayable() float64 {
	net := r.TotalTaxAmount - r.InputTaxCredit
	if net < 0 {
		return 0
	}
	return net
}

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidatePeriod checks a YYYY-MM filing period string.
func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return fmt.Errorf("invalid period %q: expected YYYY-MM", period)
	}
	return nil
}

// PeriodRange returns the inclusive start and exclusive end of a filing period.
func PeriodRange(period string) (time.Time, time.Time, error) {
	if err := ValidatePeriod(period); err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q: %w", period, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}
