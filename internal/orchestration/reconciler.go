package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/iotflow/internal/config"
	"github.com/imamik/iotflow/internal/provisioning"
	"github.com/imamik/iotflow/internal/provisioning/analytics"
	"github.com/imamik/iotflow/internal/provisioning/identity"
	"github.com/imamik/iotflow/internal/provisioning/role"
	"github.com/imamik/iotflow/internal/provisioning/rule"
)

// Reconciler orchestrates the device provisioning workflow.
type Reconciler struct {
	config    *config.Config
	target    provisioning.CallerIdentity
	providers provisioning.Providers
	observer  provisioning.Observer
	metrics   *provisioning.Metrics
	state     *provisioning.State
	runID     string

	// Phases
	identityProvisioner  *identity.Provisioner
	analyticsProvisioner *analytics.Provisioner
	roleProvisioner      *role.Provisioner
	ruleProvisioner      *rule.Provisioner
}

// NewReconciler creates a new orchestration reconciler.
func NewReconciler(
	cfg *config.Config,
	target provisioning.CallerIdentity,
	providers provisioning.Providers,
) *Reconciler {
	return &Reconciler{
		config:               cfg,
		target:               target,
		providers:            providers,
		state:                provisioning.NewState(),
		identityProvisioner:  identity.NewProvisioner(),
		analyticsProvisioner: analytics.NewProvisioner(),
		roleProvisioner:      role.NewProvisioner(),
		ruleProvisioner:      rule.NewProvisioner(),
	}
}

// SetObserver replaces the default console observer.
func (r *Reconciler) SetObserver(observer provisioning.Observer) {
	r.observer = observer
}

// SetMetrics enables metrics recording for the run.
func (r *Reconciler) SetMetrics(metrics *provisioning.Metrics) {
	r.metrics = metrics
}

// State returns the state of the last run.
func (r *Reconciler) State() *provisioning.State {
	return r.state
}

// RunID returns the ID of the last run, or "" before the first run.
func (r *Reconciler) RunID() string {
	return r.runID
}

// Phases returns the phases in execution order.
func (r *Reconciler) Phases() []provisioning.Phase {
	return []provisioning.Phase{
		provisioning.NewValidationPhase(),
		r.identityProvisioner,
		r.analyticsProvisioner,
		r.roleProvisioner,
		r.ruleProvisioner,
	}
}

// Reconcile runs every phase once. The returned state is FAILED with the
// failing step recorded when an error is returned.
func (r *Reconciler) Reconcile(ctx context.Context) (*provisioning.State, error) {
	// 1. Setup Provisioning Context
	pCtx := provisioning.NewContext(ctx, r.config, r.target, r.providers)
	if r.observer != nil {
		pCtx.SetObserver(r.observer)
	}
	pCtx.Metrics = r.metrics
	r.state = pCtx.State
	r.runID = pCtx.RunID

	// 2. Sequential Execution of Provisioning Phases
	if err := provisioning.NewPipeline(r.Phases()...).Run(pCtx); err != nil {
		return r.state, err
	}

	// 3. Report where the device connects
	r.lookupDataEndpoint(pCtx)

	return r.state, nil
}

func (r *Reconciler) lookupDataEndpoint(ctx *provisioning.Context) {
	endpoint, err := ctx.Providers.Identity.DescribeDataEndpoint(ctx)
	if err != nil {
		ctx.Observer.Printf("Warning: failed to look up the device data endpoint: %v", err)
		return
	}
	r.state.DataEndpoint = endpoint
	ctx.Observer.Printf("Device data endpoint: %s", endpoint)
}

// Summary describes the outcome of a run in one line.
func Summary(state *provisioning.State) string {
	if state.Failure != nil {
		if state.Failure.Step != "" {
			return fmt.Sprintf("%s at %s/%s: %v", state.Stage, state.Failure.Phase, state.Failure.Step, state.Failure.Cause)
		}
		return fmt.Sprintf("%s at %s: %v", state.Stage, state.Failure.Phase, state.Failure.Cause)
	}
	return state.Stage.String()
}
