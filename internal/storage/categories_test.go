package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munimhq/munim/internal/coa"
	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
)

func TestAccountCategoriesSeeded(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	got, err := store.GetAccountCategories(ctx)
	require.NoError(t, err)

	// Migration seeds the default chart of accounts in catalog order.
	want := coa.DefaultChart()
	require.Len(t, got, len(want))
	for i, cat := range want {
		assert.Equal(t, cat.ID, got[i].ID)
		assert.Equal(t, cat.Name, got[i].Name)
		assert.Equal(t, cat.Type, got[i].Type)
		assert.Equal(t, cat.Keywords, got[i].Keywords)
		assert.Equal(t, cat.HasTaxRate, got[i].HasTaxRate)
		if cat.HasTaxRate {
			assert.Equal(t, cat.DefaultTaxRate, got[i].DefaultTaxRate)
		}
	}
}

func TestGetAccountCategoryByID(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	got, err := store.GetAccountCategoryByID(ctx, "expense-travel")
	require.NoError(t, err)
	assert.Equal(t, "Travel & Entertainment", got.Name)
	assert.Equal(t, model.LedgerExpense, got.Type)
	require.True(t, got.HasTaxRate)
	assert.Equal(t, float64(5), got.DefaultTaxRate)

	_, err = store.GetAccountCategoryByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
