package driver

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"cxxfront/internal/trace"
)

// LowerFiles lowers every path concurrently, at most opts.Jobs at a time
// (GOMAXPROCS when zero). Results come back in input order. A failing unit
// is recorded in its Result and does not stop the others; the returned
// error is only set when ctx is cancelled.
func LowerFiles(ctx context.Context, loader *Loader, paths []string, opts Options) ([]Result, error) {
	if loader == nil {
		loader = NewLoader()
	}
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "lower_files")
	span.Attr("files", strconv.Itoa(len(paths)))
	defer span.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, p := range paths {
		emit(opts.Sink, Event{File: p, Stage: StageDecode, Status: StatusQueued})
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: p, Err: err}
				return err
			}
			results[i] = lowerFile(gctx, loader, p, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Failed counts results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
