package reconciler

import (
	"context"
	"time"

	"github.com/ezix/ezix/pkg/events"
	"github.com/ezix/ezix/pkg/metrics"
	"github.com/ezix/ezix/pkg/module"
	"github.com/ezix/ezix/pkg/types"
)

// walk is the state of one depth-first convergence pass over one or more
// trees. It is discarded when the pass ends.
type walk struct {
	opts     *options
	outcomes []types.Outcome
	failures []*ActionError
	blocked  []string
	aborted  bool
}

func newWalk(opts *options) *walk {
	return &walk{opts: opts}
}

// visit converges n and, once n is satisfied, its children in declaration
// order. A child never runs unless its parent's check holds. The walk only
// enables; it has no disable pass.
func (w *walk) visit(ctx context.Context, path string, n *module.Node) {
	if w.aborted || n == nil {
		return
	}

	logger := w.opts.logger.With().Str("module", path).Logger()

	if n.Check() {
		logger.Debug().Msg("node already satisfied")
		w.record(path, types.OutcomeSatisfied, 0, nil)
		w.opts.publish(events.EventNodeSatisfied, path, "node already satisfied", nil)
	} else {
		logger.Debug().Msg("enabling node")

		timer := metrics.NewTimer()
		err := n.Enable(ctx)
		elapsed := timer.Duration()
		timer.ObserveDurationVec(metrics.ModuleActionDuration, string(types.PhaseEnable))
		metrics.ModuleActionsTotal.WithLabelValues(path, string(types.PhaseEnable), metrics.Result(err)).Inc()

		if err != nil {
			actionErr := &ActionError{ID: path, Phase: types.PhaseEnable, Err: err}
			logger.Error().Err(err).Msg("failed to enable node")
			w.record(path, types.OutcomeFailed, elapsed, err)
			w.failures = append(w.failures, actionErr)
			w.opts.publish(events.EventNodeFailed, path, actionErr.Error(), nil)
			if w.opts.policy == FailFast {
				w.aborted = true
			}
			return
		}

		if !n.Check() {
			logger.Warn().Int("children", len(n.Children())).Msg("node not satisfied after enable, skipping children")
			w.record(path, types.OutcomeBlocked, elapsed, nil)
			w.blocked = append(w.blocked, path)
			metrics.NodesBlockedTotal.Inc()
			w.opts.publish(events.EventNodeBlocked, path, "node not satisfied after enable", nil)
			return
		}

		logger.Debug().Dur("duration", elapsed).Msg("node enabled")
		w.record(path, types.OutcomeSucceeded, elapsed, nil)
		w.opts.publish(events.EventNodeEnabled, path, "node enabled", nil)
	}

	for _, child := range n.Children() {
		w.visit(ctx, path+"/"+child.Name(), child)
		if w.aborted {
			return
		}
	}
}

func (w *walk) record(path string, status types.OutcomeStatus, elapsed time.Duration, err error) {
	o := types.Outcome{
		Module:   path,
		Phase:    types.PhaseEnable,
		Status:   status,
		Duration: elapsed,
	}
	if err != nil {
		o.Error = err.Error()
	}
	w.outcomes = append(w.outcomes, o)
}
