package types

import "time"

// Phase names the action taken for a module
type Phase string

const (
	PhaseEnable  Phase = "enable"
	PhaseDisable Phase = "disable"
)

// OutcomeStatus is the result of one module action
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeSatisfied OutcomeStatus = "satisfied" // check already held, no action taken
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped" // not attempted after a fail-fast abort
	OutcomeBlocked   OutcomeStatus = "blocked" // node still unsatisfied after enable
)

// Source records why an action was chosen
type Source string

const (
	SourceDeclared Source = "declared"
	SourceDefault  Source = "default" // undeclared, canonical default disabled
)

// Step is one planned action for a canonical identity
type Step struct {
	Module string `json:"module"`
	Phase  Phase  `json:"phase"`
	Source Source `json:"source"`
}

// Outcome is the recorded result of a step or a node visit
type Outcome struct {
	Module   string        `json:"module"`
	Phase    Phase         `json:"phase"`
	Source   Source        `json:"source,omitempty"`
	Status   OutcomeStatus `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RunStatus summarizes an apply pass
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is the journal entry written for every apply pass
type Run struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"` // "registry" or "tree"
	Policy     string    `json:"policy"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Failed returns the outcomes that did not succeed
func (r *Run) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == OutcomeFailed {
			out = append(out, o)
		}
	}
	return out
}

// Duration returns the wall time of the run
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
