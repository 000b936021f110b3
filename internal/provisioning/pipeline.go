package provisioning

import (
	"fmt"
	"time"
)

// Pipeline runs provisioning phases strictly in order.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline from the given phases.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes all phases sequentially. The first failure moves the state to
// FAILED and stops the run; later phases are never started. Nothing is
// retried and nothing created by earlier phases is removed.
func (p *Pipeline) Run(ctx *Context) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(p.Phases))

	for i, phase := range p.Phases {
		if ctx.State.Stage.Terminal() {
			return fmt.Errorf("cannot run %s phase: run already reached %s", phase.Name(), ctx.State.Stage)
		}

		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(p.Phases))
		LogPhaseStart(ctx.Observer, name)

		err := phase.Provision(ctx)
		if err == nil && phase.Reaches() != ctx.State.Stage {
			err = ctx.State.Advance(phase.Reaches())
		}
		ctx.Metrics.ObservePhase(phase.Name(), time.Since(phaseStart), err)

		if err != nil {
			ctx.State.Fail(phase.Name(), err)
			ctx.Metrics.SetStage(ctx.State.Stage)
			LogPhaseFailed(ctx.Observer, name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Metrics.SetStage(ctx.State.Stage)
		LogPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
		ctx.Observer.Progress("pipeline", i+1, len(p.Phases))
	}

	ctx.Observer.Printf("Provisioning completed in %v (stage %s)", time.Since(start).Round(time.Millisecond), ctx.State.Stage)
	return nil
}
