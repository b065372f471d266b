package health

import (
	"context"
	"fmt"
	"os"
	"time"
)

// WritableDirChecker checks that a directory exists or can be created and
// accepts new files
type WritableDirChecker struct {
	Label string
	Dir   string
}

func (d WritableDirChecker) Name() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Dir
}

func (d WritableDirChecker) Check(ctx context.Context) Result {
	start := time.Now()
	result := Result{Name: d.Name(), CheckedAt: start}

	err := d.probe()
	result.Duration = time.Since(start)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Healthy = true
	result.Message = fmt.Sprintf("%s is writable", d.Dir)
	return result
}

func (d WritableDirChecker) probe() error {
	if err := os.MkdirAll(d.Dir, 0700); err != nil {
		return fmt.Errorf("cannot create %s: %w", d.Dir, err)
	}
	f, err := os.CreateTemp(d.Dir, ".ezix-probe-*")
	if err != nil {
		return fmt.Errorf("cannot write to %s: %w", d.Dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
