package cmdrun

import (
	"context"
	"strings"
	"sync"
)

// Recorder is a Runner that records command lines instead of executing them.
// Commands succeed unless a scripted failure matches.
type Recorder struct {
	mu       sync.Mutex
	commands []string
	failures []scripted
	outputs  map[string][]byte
}

type scripted struct {
	prefix string
	err    error
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{outputs: make(map[string][]byte)}
}

// Fail makes every command whose line starts with prefix return err
func (r *Recorder) Fail(prefix string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, scripted{prefix: prefix, err: err})
}

// Output sets the output returned for an exact command line
func (r *Recorder) Output(line string, out []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[line] = out
}

// Run records the command line
func (r *Recorder) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	line := Line(name, args...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, line)

	for _, f := range r.failures {
		if strings.HasPrefix(line, f.prefix) {
			return nil, f.err
		}
	}
	return r.outputs[line], nil
}

// Commands returns every recorded command line in order
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.commands))
	copy(out, r.commands)
	return out
}

// Reset forgets recorded commands but keeps scripted failures
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}
