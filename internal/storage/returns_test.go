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

func testGSTReturn(id, period string) *model.GSTReturn {
	return &model.GSTReturn{
		ID:                id,
		ReturnType:        model.ReturnGSTR3B,
		Period:            period,
		Status:            model.GSTDraft,
		TotalTaxableValue: 500000,
		TotalTaxAmount:    90000,
		InputTaxCredit:    45000,
		CompanyID:         "company-1",
	}
}

func TestSaveAndGetGSTReturn(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ret := testGSTReturn("ret-1", "2024-01")
	require.NoError(t, store.SaveGSTReturn(ctx, ret))

	got, err := store.GetGSTReturnByID(ctx, "ret-1")
	require.NoError(t, err)
	assert.Equal(t, model.ReturnGSTR3B, got.ReturnType)
	assert.Equal(t, "2024-01", got.Period)
	assert.Equal(t, model.GSTDraft, got.Status)
	assert.Nil(t, got.FilingDate)
	assert.InDelta(t, 45000.0, got.NetTaxPayable(), 0.001)
}

func TestSaveGSTReturnInvalidPeriod(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.SaveGSTReturn(ctx, testGSTReturn("ret-1", "2024-13"))
	assert.ErrorIs(t, err, common.ErrInvalidPeriod)

	err = store.SaveGSTReturn(ctx, testGSTReturn("ret-2", "Jan 2024"))
	assert.ErrorIs(t, err, common.ErrInvalidPeriod)
}

func TestSaveFiledGSTReturn(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ret := testGSTReturn("ret-1", "2024-01")
	filed := time.Date(2024, 2, 18, 0, 0, 0, 0, time.UTC)
	ret.Status = model.GSTFiled
	ret.FilingDate = &filed
	ret.AckNumber = "ACK-20240218-001"
	require.NoError(t, store.SaveGSTReturn(ctx, ret))

	got, err := store.GetGSTReturnByID(ctx, "ret-1")
	require.NoError(t, err)
	assert.Equal(t, model.GSTFiled, got.Status)
	assert.Equal(t, "ACK-20240218-001", got.AckNumber)
	require.NotNil(t, got.FilingDate)
	assert.True(t, got.FilingDate.Equal(filed))
}

func TestGetGSTReturnsOrdering(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	require.NoError(t, store.SaveGSTReturn(ctx, testGSTReturn("ret-jan", "2024-01")))
	require.NoError(t, store.SaveGSTReturn(ctx, testGSTReturn("ret-mar", "2024-03")))

	got, err := store.GetGSTReturns(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ret-mar", got[0].ID)
	assert.Equal(t, "ret-jan", got[1].ID)

	got, err = store.GetGSTReturns(ctx, "company-2")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetGSTReturnNotFound(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetGSTReturnByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
