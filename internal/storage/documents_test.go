package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
)

func testDocument(id string) *model.Document {
	return &model.Document{
		ID:        id,
		Title:     "INV-2024-001",
		Type:      model.DocTypeInvoice,
		Category:  model.CategoryInvoices,
		Entity:    "Flipkart India",
		IssueDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:    59000,
		HasAmount: true,
		Status:    model.StatusSent,
		Tags:      []string{"q4", "software"},
		CreatedBy: "admin",
	}
}

func TestSaveAndGetDocument(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	doc := testDocument("doc-1")
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocumentByID(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Type, got.Type)
	assert.Equal(t, doc.Entity, got.Entity)
	assert.Equal(t, doc.Tags, got.Tags)
	require.True(t, got.HasAmount)
	assert.Equal(t, doc.Amount, got.Amount)
}

func TestGetDocumentNotFound(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetDocumentByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDocumentWithoutAmount(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	doc := &model.Document{
		ID:       "doc-legal",
		Title:    "NDA - Vendor",
		Type:     model.DocTypeLegal,
		Category: model.CategoryLegal,
		Status:   model.StatusCompleted,
	}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocumentByID(ctx, "doc-legal")
	require.NoError(t, err)
	assert.False(t, got.HasAmount)
	assert.Zero(t, got.Amount)
}

func TestGetDocumentsFilter(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	docs := []*model.Document{
		testDocument("d1"),
		{
			ID: "d2", Title: "AWS Bill", Type: model.DocTypeVendorBill,
			Category: model.CategoryVendorBills, Entity: "Amazon Web Services",
			IssueDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:    29500, HasAmount: true, Status: model.StatusPaid,
		},
		{
			ID: "d3", Title: "Payroll Jan", Type: model.DocTypePayroll,
			Category:  model.CategoryPayroll,
			IssueDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			Status:    model.StatusCompleted,
		},
	}
	for _, doc := range docs {
		require.NoError(t, store.SaveDocument(ctx, doc))
	}

	t.Run("by type", func(t *testing.T) {
		got, err := store.GetDocuments(ctx, model.DocumentFilter{Type: model.DocTypeInvoice})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "d1", got[0].ID)
	})

	t.Run("by status", func(t *testing.T) {
		got, err := store.GetDocuments(ctx, model.DocumentFilter{Status: model.StatusPaid})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "d2", got[0].ID)
	})

	t.Run("by entity", func(t *testing.T) {
		got, err := store.GetDocuments(ctx, model.DocumentFilter{Entity: "Amazon Web Services"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("by amount range", func(t *testing.T) {
		minAmount := float64(30000)
		got, err := store.GetDocuments(ctx, model.DocumentFilter{AmountMin: &minAmount})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "d1", got[0].ID)
	})

	t.Run("by issue date range", func(t *testing.T) {
		from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		got, err := store.GetDocuments(ctx, model.DocumentFilter{IssuedFrom: &from})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		got, err := store.GetDocuments(ctx, model.DocumentFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "d3", got[0].ID)
	})
}

func TestUpdateDocumentStatus(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	require.NoError(t, store.SaveDocument(ctx, testDocument("doc-1")))
	require.NoError(t, store.UpdateDocumentStatus(ctx, "doc-1", model.StatusPaid))

	got, err := store.GetDocumentByID(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, got.Status)

	err = store.UpdateDocumentStatus(ctx, "missing", model.StatusPaid)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
