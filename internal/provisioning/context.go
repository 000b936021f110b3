package provisioning

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/imamik/iotflow/internal/config"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config    *config.Config
	Target    CallerIdentity
	Providers Providers
	State     *State
	Observer  Observer
	Logger    Logger
	Metrics   *Metrics
	RunID     string
}

// NewContext creates a new provisioning context with a fresh run ID.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	target CallerIdentity,
	providers Providers,
) *Context {
	runID := uuid.NewString()
	observer := NewConsoleObserver().WithFields(map[string]string{"run": runID})
	return &Context{
		Context:   ctx,
		Config:    cfg,
		Target:    target,
		Providers: providers,
		State:     NewState(),
		Observer:  observer,
		Logger:    observer,
		RunID:     runID,
	}
}

// SetObserver replaces the observer, keeping the run ID attached.
func (c *Context) SetObserver(observer Observer) {
	c.Observer = observer.WithFields(map[string]string{"run": c.RunID})
	c.Logger = c.Observer
}

// Step runs one provider call of a phase. It logs the call, records its
// outcome in metrics and wraps a failure in a *StepError naming the step.
// fn returns the ID or ARN of what it created, if anything.
func (c *Context) Step(phase, step, resource string, fn func() (string, error)) error {
	LogResourceCreating(c.Observer, phase, step, resource)

	id, err := fn()
	c.Metrics.ObserveStep(phase, step, err)
	if err != nil {
		if errors.Is(err, ErrNameCollision) {
			LogResourceExists(c.Observer, phase, step, resource, id)
		} else {
			LogResourceFailed(c.Observer, phase, step, resource, err)
		}
		return &StepError{Phase: phase, Step: step, Resource: resource, Err: err}
	}

	LogResourceCreated(c.Observer, phase, step, resource, id)
	return nil
}
