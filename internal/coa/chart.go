// Package coa provides the chart of accounts and keyword-based transaction
// categorization.
package coa

import "github.com/munimhq/munim/internal/model"

// DefaultChart returns the built-in chart of accounts. Catalog order matters:
// the classifier breaks keyword-count ties in favor of the first-seen entry.
func DefaultChart() []model.AccountCategory {
	return []model.AccountCategory{
		{
			ID:             "revenue-software",
			Name:           "Software Revenue",
			Type:           model.LedgerRevenue,
			Keywords:       []string{"software", "license", "subscription", "saas", "platform"},
			DefaultTaxRate: 18,
			HasTaxRate:     true,
		},
		{
			ID:             "revenue-consulting",
			Name:           "Consulting Revenue",
			Type:           model.LedgerRevenue,
			Keywords:       []string{"consulting", "service", "professional", "advisory"},
			DefaultTaxRate: 18,
			HasTaxRate:     true,
		},
		{
			ID:             "expense-infrastructure",
			Name:           "Infrastructure & Cloud",
			Type:           model.LedgerExpense,
			Keywords:       []string{"aws", "amazon", "google cloud", "azure", "server", "hosting", "cloud"},
			DefaultTaxRate: 18,
			HasTaxRate:     true,
		},
		{
			ID:             "expense-office",
			Name:           "Office Expenses",
			Type:           model.LedgerExpense,
			Keywords:       []string{"office", "supplies", "furniture", "utilities", "rent"},
			DefaultTaxRate: 18,
			HasTaxRate:     true,
		},
		{
			ID:             "expense-marketing",
			Name:           "Marketing & Advertising",
			Type:           model.LedgerExpense,
			Keywords:       []string{"marketing", "advertising", "promotion", "google ads", "facebook"},
			DefaultTaxRate: 18,
			HasTaxRate:     true,
		},
		{
			ID:             "expense-professional",
			Name:           "Professional Services",
			Type:           model.LedgerExpense,
			Keywords:       []string{"legal", "accounting", "audit", "consultant", "lawyer"},
			DefaultTaxRate: 18,
			HasTaxRate:     true,
		},
		{
			ID:             "expense-travel",
			Name:           "Travel & Entertainment",
			Type:           model.LedgerExpense,
			Keywords:       []string{"travel", "hotel", "flight", "uber", "taxi", "meal", "entertainment"},
			DefaultTaxRate: 5,
			HasTaxRate:     true,
		},
		{
			ID:             "expense-software",
			Name:           "Software & Tools",
			Type:           model.LedgerExpense,
			Keywords:       []string{"software", "tool", "license", "subscription", "github", "slack"},
			DefaultTaxRate: 18,
			HasTaxRate:     true,
		},
	}
}
