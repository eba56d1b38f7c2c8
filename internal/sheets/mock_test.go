package sheets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/munimhq/munim/internal/service"
)

func TestMockWriterRecordsCalls(t *testing.T) {
	writer := NewMockWriter()
	report := &service.InvestorReport{CompanyName: "Test Company Ltd", Revenue: 50000}

	require.NoError(t, writer.Write(context.Background(), report))
	assert.Equal(t, 1, writer.WriteCallCount)
	assert.Equal(t, report, writer.LastReport)

	writer.Reset()
	assert.Equal(t, 0, writer.WriteCallCount)
	assert.Nil(t, writer.LastReport)
}

func TestMockWriterPropagatesError(t *testing.T) {
	writer := NewMockWriter()
	writer.WriteFunc = func(_ context.Context, _ *service.InvestorReport) error {
		return fmt.Errorf("quota exceeded")
	}

	err := writer.Write(context.Background(), &service.InvestorReport{})
	require.Error(t, err)
	assert.Equal(t, 1, writer.WriteCallCount)
}
