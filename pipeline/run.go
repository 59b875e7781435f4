package pipeline

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// Report collects per-animation results, in the order the animations were
// given to Run.
type Report struct {
	Results []Result
}

// Failed returns the results of animations that did not reach StageWritten.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// OK reports whether every animation was written.
func (r Report) OK() bool { return len(r.Failed()) == 0 }

func (r Report) String() string {
	return fmt.Sprintf("%d animations, %d failed", len(r.Results), len(r.Failed()))
}

// Run processes the animations over a bounded worker pool. An animation's
// failure is recorded in the report and never stops its siblings; only ctx
// cancellation stops the run early.
func (p *Pipeline) Run(ctx context.Context, anims []Animation) Report {
	results := make([]Result, len(anims))

	g, ctx := errgroup.WithContext(ctx)
	if p.Workers > 0 {
		g.SetLimit(p.Workers)
	}
	for i, a := range anims {
		i, a := i, a
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Animation: a.Name, Stage: StageDiscovered, Err: err}
				return nil
			}
			results[i] = p.Process(ctx, a)
			return nil
		})
	}
	g.Wait()

	report := Report{Results: results}
	glog.Infof("run complete: %s", report)
	return report
}
