package api

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/openvlm/lens/internal/inference"
)

// EngineGate serializes access to the engine, which is a shared,
// non-reentrant resource: only one generation call may be in flight at a
// time. Concurrent requests queue on the semaphore and respect context
// cancellation while waiting.
type EngineGate struct {
	eng inference.Engine
	sem *semaphore.Weighted
}

func NewEngineGate(eng inference.Engine) *EngineGate {
	return &EngineGate{
		eng: eng,
		sem: semaphore.NewWeighted(1),
	}
}

func (g *EngineGate) WithEngine(ctx context.Context, fn func(eng inference.Engine) error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)
	return fn(g.eng)
}

// ModelID reads the loaded model id without acquiring the gate; the id is
// fixed for the engine's lifetime.
func (g *EngineGate) ModelID() string {
	return g.eng.ModelID()
}

func (g *EngineGate) Device() string {
	return g.eng.Device()
}

func (g *EngineGate) Close() error {
	return g.eng.Close()
}
