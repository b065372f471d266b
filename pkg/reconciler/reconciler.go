package reconciler

import (
	"context"

	"github.com/ezix/ezix/pkg/events"
	"github.com/ezix/ezix/pkg/metrics"
	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/types"
)

// Reconciler converges the system toward a desired configuration set by
// diffing it against the canonical registry.
type Reconciler struct {
	registry *module.Registry
	opts     options
}

// New creates a reconciler over the canonical registry
func New(registry *module.Registry, opts ...Option) *Reconciler {
	return &Reconciler{
		registry: registry,
		opts:     newOptions(opts),
	}
}

// Policy returns the configured failure policy
func (r *Reconciler) Policy() Policy {
	return r.opts.policy
}

// Registry returns the canonical registry
func (r *Reconciler) Registry() *module.Registry {
	return r.registry
}

// Plan computes, in registry order, the single action each canonical
// identity will receive for set. No action is invoked.
func (r *Reconciler) Plan(set *module.Set) ([]types.Step, error) {
	if set == nil {
		set = module.NewSet()
	}

	for _, id := range set.IDs() {
		if _, ok := r.registry.Lookup(id); !ok {
			return nil, &MissingCanonicalDefaultError{ID: id}
		}
	}

	steps := make([]types.Step, 0, r.registry.Len())
	for _, id := range r.registry.IDs() {
		step := types.Step{Module: id, Phase: types.PhaseDisable, Source: types.SourceDefault}
		if declared, ok := set.Lookup(id); ok {
			step.Source = types.SourceDeclared
			if declared.IsEnabled() {
				step.Phase = types.PhaseEnable
			}
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Apply runs one reconciliation pass. Every canonical identity receives
// exactly one action: declared modules are enabled or disabled according to
// their intent, undeclared ones have their canonical default disabled.
//
// The returned run is never nil. Under FailFast the error is the first
// *ActionError; under ContinueOnError it is an *ApplyError listing every
// failure.
func (r *Reconciler) Apply(ctx context.Context, set *module.Set) (*types.Run, error) {
	timer := metrics.NewTimer()
	run := r.opts.startRun("registry")

	if set != nil {
		for _, id := range set.Replaced() {
			r.opts.logger.Warn().Str("module", id).Msg("module declared more than once, last declaration wins")
		}
	}

	steps, err := r.Plan(set)
	if err != nil {
		r.opts.finishRun(run, timer, err)
		return run, err
	}

	var failures []*ActionError
	for i, step := range steps {
		target := r.target(set, step)

		outcome, actionErr := r.invoke(ctx, target, step)
		run.Outcomes = append(run.Outcomes, outcome)
		if actionErr == nil {
			continue
		}

		failures = append(failures, actionErr)
		if r.opts.policy == FailFast {
			for _, rest := range steps[i+1:] {
				run.Outcomes = append(run.Outcomes, r.skip(rest))
			}
			break
		}
	}

	err = r.opts.result(failures)
	r.opts.finishRun(run, timer, err)
	return run, err
}

// target picks the instance whose action runs: the declared one when
// present, otherwise the canonical default.
func (r *Reconciler) target(set *module.Set, step types.Step) module.Module {
	if step.Source == types.SourceDeclared {
		m, _ := set.Lookup(step.Module)
		return m
	}
	m, _ := r.registry.Lookup(step.Module)
	return m
}

func (r *Reconciler) invoke(ctx context.Context, m module.Module, step types.Step) (types.Outcome, *ActionError) {
	logger := r.opts.logger.With().Str("module", step.Module).Str("source", string(step.Source)).Logger()
	logger.Debug().Msgf("%s module", gerund(step.Phase))

	timer := metrics.NewTimer()
	var err error
	if step.Phase == types.PhaseEnable {
		err = m.Enable(ctx)
	} else {
		err = m.Disable(ctx)
	}
	elapsed := timer.Duration()
	timer.ObserveDurationVec(metrics.ModuleActionDuration, string(step.Phase))
	metrics.ModuleActionsTotal.WithLabelValues(step.Module, string(step.Phase), metrics.Result(err)).Inc()

	outcome := types.Outcome{
		Module:   step.Module,
		Phase:    step.Phase,
		Source:   step.Source,
		Status:   types.OutcomeSucceeded,
		Duration: elapsed,
	}
	meta := map[string]string{"phase": string(step.Phase), "source": string(step.Source)}

	if err != nil {
		actionErr := &ActionError{ID: step.Module, Phase: step.Phase, Err: err}
		outcome.Status = types.OutcomeFailed
		outcome.Error = err.Error()
		logger.Error().Err(err).Msgf("failed to %s module", step.Phase)
		r.opts.publish(events.EventModuleFailed, step.Module, actionErr.Error(), meta)
		return outcome, actionErr
	}

	logger.Debug().Dur("duration", elapsed).Msgf("module %sd", step.Phase)
	if step.Phase == types.PhaseEnable {
		r.opts.publish(events.EventModuleEnabled, step.Module, "module enabled", meta)
	} else {
		r.opts.publish(events.EventModuleDisabled, step.Module, "module disabled", meta)
	}
	return outcome, nil
}

func (r *Reconciler) skip(step types.Step) types.Outcome {
	r.opts.publish(events.EventModuleSkipped, step.Module, "skipped after earlier failure", map[string]string{
		"phase": string(step.Phase),
	})
	return types.Outcome{
		Module: step.Module,
		Phase:  step.Phase,
		Source: step.Source,
		Status: types.OutcomeSkipped,
	}
}

// Converge brings a single tree to the state where every reachable node's
// check holds. See Manager for the traversal rules.
func (r *Reconciler) Converge(ctx context.Context, id string, root *module.Node) error {
	w := newWalk(&r.opts)
	w.visit(ctx, id, root)
	return r.opts.result(w.failures)
}

func gerund(p types.Phase) string {
	if p == types.PhaseEnable {
		return "enabling"
	}
	return "disabling"
}
