package gst

import (
	"context"
	"fmt"
	"time"

	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// MockGateway simulates the GST portal for demos and tests. A production
// deployment would implement service.FilingGateway against the portal APIs.
type MockGateway struct {
	// FileReturnFn can be set by tests to control behavior.
	FileReturnFn func(ctx context.Context, ret *model.GSTReturn) (string, error)

	// Call tracking
	FileReturnCalls int
}

// NewMockGateway creates a mock filing gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// FileReturn issues a deterministic-format acknowledgment number.
func (g *MockGateway) FileReturn(ctx context.Context, ret *model.GSTReturn) (string, error) {
	g.FileReturnCalls++
	if g.FileReturnFn != nil {
		return g.FileReturnFn(ctx, ret)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("ACK%d", time.Now().UnixNano()), nil
}

var _ service.FilingGateway = (*MockGateway)(nil)
