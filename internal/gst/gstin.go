// Package gst generates, validates and files GST returns.
package gst

import (
	"fmt"
	"regexp"

	"github.com/munimhq/munim/internal/common"
)

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// GSTINDetails holds the fields recoverable from a structurally valid GSTIN.
type GSTINDetails struct {
	GSTIN     string
	StateCode string
	PAN       string
}

// ValidateGSTIN checks the structural format of a GST identification number
// and returns its embedded details. This is format validation only; it does
// not confirm registration with the portal.
func ValidateGSTIN(gstin string) (*GSTINDetails, error) {
	if !gstinPattern.MatchString(gstin) {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidGSTIN, gstin)
	}
	return &GSTINDetails{
		GSTIN:     gstin,
		StateCode: gstin[:2],
		PAN:       gstin[2:12],
	}, nil
}
