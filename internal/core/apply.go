package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// ApplyOptions configures Apply.
type ApplyOptions struct {
	DryRun      bool
	Concurrency int // 0 means GOMAXPROCS
}

// OpError is a write that failed.
type OpError struct {
	Op  Operation
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", e.Op.Direction, e.Op.Skill, e.Op.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Report is the outcome of applying a plan. Each list keeps plan order.
type Report struct {
	DryRun    bool
	Planned   []Operation // writes that a dry run would perform
	Applied   []Operation
	Failed    []OpError
	Skipped   []Operation // no-op and skip operations
	Cancelled []Operation // writes not started before the context was done
}

// Err aggregates every failed write, or returns nil.
func (r *Report) Err() error {
	var result *multierror.Error
	for i := range r.Failed {
		result = multierror.Append(result, &r.Failed[i])
	}
	return result.ErrorOrNil()
}

// Fatal reports whether every attempted write failed.
func (r *Report) Fatal() bool {
	return len(r.Failed) > 0 && len(r.Applied) == 0
}

// pathLocks serializes writes to the same destination.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *pathLocks) lock(path string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	l, ok := p.locks[path]
	if !ok {
		l = &sync.Mutex{}
		p.locks[path] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

type applyOutcome int

const (
	outcomePending applyOutcome = iota
	outcomeApplied
	outcomeFailed
	outcomeCancelled
)

// Apply performs the writes of a plan. Each write is independent: a failure
// is recorded and the remaining writes continue. Writes to the same path run
// one at a time; writes to different paths run concurrently. Once ctx is
// done, writes that have not started are reported as cancelled.
func (e *Engine) Apply(ctx context.Context, plan Plan, opts ApplyOptions) *Report {
	return ApplyPlan(ctx, plan, opts)
}

// ApplyPlan is Apply without an Engine.
func ApplyPlan(ctx context.Context, plan Plan, opts ApplyOptions) *Report {
	report := &Report{DryRun: opts.DryRun}
	if opts.DryRun {
		for _, op := range plan.Ops {
			if op.IsWrite() {
				report.Planned = append(report.Planned, op)
			} else {
				report.Skipped = append(report.Skipped, op)
			}
		}
		return report
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]applyOutcome, len(plan.Ops))
	errs := make([]error, len(plan.Ops))
	var locks pathLocks

	var g errgroup.Group
	g.SetLimit(limit)
	for i, op := range plan.Ops {
		if !op.IsWrite() {
			continue
		}
		if ctx.Err() != nil {
			outcomes[i] = outcomeCancelled
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				outcomes[i] = outcomeCancelled
				return nil
			}
			unlock := locks.lock(op.Path)
			defer unlock()
			if err := writeFileAtomic(op.Path, []byte(op.New)); err != nil {
				outcomes[i] = outcomeFailed
				errs[i] = err
				return nil
			}
			outcomes[i] = outcomeApplied
			return nil
		})
	}
	_ = g.Wait()

	for i, op := range plan.Ops {
		if !op.IsWrite() {
			report.Skipped = append(report.Skipped, op)
			continue
		}
		switch outcomes[i] {
		case outcomeApplied:
			report.Applied = append(report.Applied, op)
		case outcomeFailed:
			report.Failed = append(report.Failed, OpError{Op: op, Err: errs[i]})
		case outcomeCancelled:
			report.Cancelled = append(report.Cancelled, op)
		}
	}
	return report
}
