package reconciler

import (
	"fmt"
	"strings"
	"time"

	"github.com/ezix/ezix/pkg/events"
	"github.com/ezix/ezix/pkg/log"
	"github.com/ezix/ezix/pkg/metrics"
	"github.com/ezix/ezix/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Policy decides what happens after a module action fails
type Policy string

const (
	// FailFast stops at the first failure and leaves the remaining
	// identities untouched
	FailFast Policy = "fail-fast"

	// ContinueOnError attempts every identity and returns one aggregate
	// error listing all failures
	ContinueOnError Policy = "continue-on-error"
)

// ParsePolicy validates a policy name from a flag or config file. An empty
// string selects FailFast.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FailFast, nil
	case FailFast, ContinueOnError:
		return p, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (want %q or %q)", s, FailFast, ContinueOnError)
	}
}

// Option configures a Reconciler, Manager or TreeModule
type Option func(*options)

type options struct {
	policy    Policy
	publisher events.Publisher
	logger    zerolog.Logger
	newID     func() string
}

func newOptions(opts []Option) options {
	o := options{
		policy: FailFast,
		logger: log.WithComponent("reconciler"),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithPolicy sets the failure policy
func WithPolicy(p Policy) Option {
	return func(o *options) {
		if p != "" {
			o.policy = p
		}
	}
}

// WithPublisher sends reconciliation events to p
func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithLogger replaces the component logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRunIDs replaces the run identifier generator
func WithRunIDs(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

func (o *options) publish(t events.EventType, module, msg string, meta map[string]string) {
	if o.publisher == nil {
		return
	}
	o.publisher.Publish(&events.Event{
		ID:       o.newID(),
		Type:     t,
		Module:   module,
		Message:  msg,
		Metadata: meta,
	})
}

func (o *options) startRun(kind string) *types.Run {
	run := &types.Run{
		ID:        o.newID(),
		Kind:      kind,
		Policy:    string(o.policy),
		StartedAt: time.Now(),
	}
	o.publish(events.EventApplyStarted, "", "apply started", map[string]string{
		"run_id": run.ID,
		"kind":   kind,
		"policy": string(o.policy),
	})
	return run
}

func (o *options) finishRun(run *types.Run, timer *metrics.Timer, err error) {
	run.FinishedAt = time.Now()
	run.Status = types.RunSucceeded
	if err != nil {
		run.Status = types.RunFailed
		run.Error = err.Error()
	}

	timer.ObserveDurationVec(metrics.ApplyDuration, run.Kind)
	metrics.ApplyRunsTotal.WithLabelValues(run.Kind, metrics.Result(err)).Inc()
	metrics.LastApplyTimestamp.Set(float64(run.FinishedAt.Unix()))

	o.publish(events.EventApplyFinished, "", "apply finished", map[string]string{
		"run_id": run.ID,
		"status": string(run.Status),
	})

	logger := o.logger.With().Str("run_id", run.ID).Str("kind", run.Kind).Logger()
	if err != nil {
		logger.Error().Err(err).Dur("duration", run.Duration()).Msg("apply finished with errors")
		return
	}
	logger.Info().Dur("duration", run.Duration()).Int("actions", len(run.Outcomes)).Msg("apply finished")
}

// result turns collected failures into the policy's error shape
func (o *options) result(failures []*ActionError) error {
	switch {
	case len(failures) == 0:
		return nil
	case o.policy == FailFast:
		return failures[0]
	default:
		return &ApplyError{Failures: failures}
	}
}
