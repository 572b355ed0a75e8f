//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"sync"

	"stagepass/internal/usecase/commands"
)

// fakeGateway stands in for the payment service; arm err to force the
// failure path.
type fakeGateway struct {
	mu       sync.Mutex
	err      error
	captured int
}

func (g *fakeGateway) Capture(_ context.Context, _ string, _ int64, _ string) (commands.CaptureResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return commands.CaptureResult{}, g.err
	}
	g.captured++
	return commands.CaptureResult{TransactionRef: fmt.Sprintf("ch_%03d", g.captured)}, nil
}

func (g *fakeGateway) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *fakeGateway) Captured() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.captured
}
