// Package judge implements component G: concurrent subtask/test fan-out
// with skip-budget cancellation, reducing into a single aggregated Report.
//
// Unlike the teacher's sandbox worker, which judges a submission's tests
// sequentially on one goroutine, this fans every subtask out in parallel
// and every test within a subtask out in parallel, using
// golang.org/x/sync/errgroup for cooperative cancellation instead of a
// hand-rolled WaitGroup, matching the concurrency shape the reference
// judge's per-subtask/per-test task spawning describes.
package judge

import (
	"context"
	"sync/atomic"

	"judge/internal/judge/event"
	"judge/internal/judge/model"
	"judge/internal/judge/sandbox/classifier"
	"judge/internal/judge/sandbox/runner"

	"golang.org/x/sync/errgroup"
)

// Executor runs a single sandboxed test. *runner.Runner satisfies this.
type Executor interface {
	Run(ctx context.Context, dir string, cmd model.Command, stdin []byte, profile runner.Profile) (model.Output, error)
}

// Params bundles the inputs shared by every test run within a submission.
type Params struct {
	Dir            string
	RunCommand     model.Command
	Limits         model.ResourceLimits
	SkipThreshold  uint8
	SeccompProfile string
	RootFS         string
}

// Judge runs every test of task against Params.RunCommand inside dir,
// aggregates the per-test verdicts into a Report, and streams Judging and
// Skipping events as they happen. Subtasks and the tests within them run
// concurrently; a subtask whose skip counter strictly exceeds
// SkipThreshold aborts its remaining tests and reports them Skipped.
func Judge(ctx context.Context, exec Executor, params Params, task model.Task, events event.Channel) (model.Report, error) {
	report := model.Report{
		Task:     model.Accepted,
		Subtasks: make([]model.Verdict, len(task.Subtasks)),
		Tests:    make([][]model.TestReport, len(task.Subtasks)),
	}
	for i := range report.Subtasks {
		report.Subtasks[i] = model.Accepted
	}

	results := make([]subtaskResult, len(task.Subtasks))

	g, gctx := errgroup.WithContext(ctx)
	for subtaskIdx, subtask := range task.Subtasks {
		subtaskIdx, subtask := subtaskIdx, subtask
		g.Go(func() error {
			res, err := judgeSubtask(gctx, exec, params, subtaskIdx, subtask, events)
			if err != nil {
				return err
			}
			results[subtaskIdx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Report{}, err
	}

	for _, res := range results {
		report.Task = model.Min(report.Task, res.verdict)
		report.Subtasks[res.idx] = res.verdict
		report.Tests[res.idx] = res.tests
	}
	return report, nil
}

type subtaskResult struct {
	idx     int
	verdict model.Verdict
	tests   []model.TestReport
}

func judgeSubtask(ctx context.Context, exec Executor, params Params, subtaskIdx int, subtask model.Subtask, events event.Channel) (subtaskResult, error) {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tests := make([]model.TestReport, len(subtask.Tests))
	for i := range tests {
		tests[i] = model.TestReport{Verdict: model.Skipped}
	}

	var skipCount atomic.Uint32
	var tripped atomic.Bool

	g, gctx := errgroup.WithContext(subCtx)
	for testIdx, test := range subtask.Tests {
		testIdx, test := testIdx, test
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			default:
			}

			out, err := exec.Run(gctx, params.Dir, params.RunCommand, []byte(test.Input), runner.Profile{
				Limits:         params.Limits,
				SeccompProfile: params.SeccompProfile,
				RootFS:         params.RootFS,
			})
			if err != nil {
				return err
			}
			// A run cut short by the budget tripping keeps its Skipped slot
			// and emits no Judging event.
			if gctx.Err() != nil {
				return nil
			}

			verdict := classifier.Classify(out, params.Limits, test.ExpectedOutput)
			tests[testIdx] = model.TestReport{Verdict: verdict, ResourceUsage: out.ResourceUsage}

			events <- event.Judging(verdict)

			if classifier.ExceededBySignal(out, params.Limits) {
				if skipCount.Add(1) > uint32(params.SkipThreshold) && tripped.CompareAndSwap(false, true) {
					events <- event.Skipping(uint32(len(subtask.Tests)) - uint32(params.SkipThreshold))
					cancel()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && !tripped.Load() {
		return subtaskResult{}, err
	}

	// Untouched slots default to Skipped, but tripping the budget always
	// leaves at least one already-recorded TLE/MLE verdict behind, which
	// dominates Skipped under the total order regardless.
	verdict := model.Accepted
	for _, tr := range tests {
		verdict = model.Min(verdict, tr.Verdict)
	}

	return subtaskResult{idx: subtaskIdx, verdict: verdict, tests: tests}, nil
}
