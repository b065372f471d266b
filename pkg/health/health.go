package health

import (
	"context"
	"time"
)

// Result represents the outcome of a health check
type Result struct {
	Name      string
	Healthy   bool
	Message   string
	CheckedAt time.Time
	Duration  time.Duration
}

// Checker is the interface that all health checkers must implement
type Checker interface {
	// Name identifies the check in reports
	Name() string

	// Check performs the health check and returns the result
	Check(ctx context.Context) Result
}

// FuncChecker adapts a function to Checker. A nil error is healthy.
type FuncChecker struct {
	Label string
	Fn    func(ctx context.Context) (string, error)
}

func (f FuncChecker) Name() string {
	return f.Label
}

func (f FuncChecker) Check(ctx context.Context) Result {
	start := time.Now()
	msg, err := f.Fn(ctx)
	if err != nil {
		msg = err.Error()
	}
	return Result{
		Name:      f.Label,
		Healthy:   err == nil,
		Message:   msg,
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

// RunAll runs every checker in order
func RunAll(ctx context.Context, checkers ...Checker) []Result {
	results := make([]Result, 0, len(checkers))
	for _, c := range checkers {
		r := c.Check(ctx)
		if r.Name == "" {
			r.Name = c.Name()
		}
		results = append(results, r)
	}
	return results
}

// Healthy reports whether every result is healthy
func Healthy(results []Result) bool {
	for _, r := range results {
		if !r.Healthy {
			return false
		}
	}
	return true
}
