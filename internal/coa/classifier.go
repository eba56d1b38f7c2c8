package coa

import (
	"strings"

	"github.com/munimhq/munim/internal/model"
)

// FallbackTaxRate is applied when a category has no configured rate or the
// category is unknown.
const FallbackTaxRate = 18

// Classifier maps free-text transaction descriptions to chart-of-accounts
// categories by keyword matching. It never errors: a description that matches
// nothing simply yields no category.
type Classifier struct {
	catalog []model.AccountCategory
	byID    map[string]*model.AccountCategory
}

// NewClassifier creates a classifier over the given catalog. Catalog order is
// preserved for tie-breaking.
func NewClassifier(catalog []model.AccountCategory) *Classifier {
	c := &Classifier{
		catalog: catalog,
		byID:    make(map[string]*model.AccountCategory, len(catalog)),
	}
	for i := range c.catalog {
		c.byID[c.catalog[i].ID] = &c.catalog[i]
	}
	return c
}

// NewDefaultClassifier creates a classifier over the built-in chart.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultChart())
}

// Classify returns the category whose keywords best match the description and
// optional vendor, or nil when nothing matches. Ties keep the first-seen
// catalog entry; only a strictly greater keyword count displaces the current
// best.
func (c *Classifier) Classify(description, vendor string) *model.AccountCategory {
	searchText := strings.ToLower(description + " " + vendor)

	var best *model.AccountCategory
	maxMatches := 0

	for i := range c.catalog {
		cat := &c.catalog[i]
		matches := 0
		for _, keyword := range cat.Keywords {
			if strings.Contains(searchText, strings.ToLower(keyword)) {
				matches++
			}
		}
		if matches > maxMatches {
			maxMatches = matches
			best = cat
		}
	}

	return best
}

// Categories returns catalog entries, optionally filtered by ledger type.
func (c *Classifier) Categories(ledgerType model.LedgerType) []model.AccountCategory {
	if ledgerType == "" {
		return c.catalog
	}
	var filtered []model.AccountCategory
	for _, cat := range c.catalog {
		if cat.Type == ledgerType {
			filtered = append(filtered, cat)
		}
	}
	return filtered
}

// TaxRate returns the category's configured rate, or FallbackTaxRate when the
// category is unknown or carries no rate.
func (c *Classifier) TaxRate(categoryID string) float64 {
	cat, ok := c.byID[categoryID]
	if !ok || !cat.HasTaxRate {
		return FallbackTaxRate
	}
	return cat.DefaultTaxRate
}
