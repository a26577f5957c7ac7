// Package submit implements component H: the top-level submission driver
// that prepares a submission's working directory, drives the compile and
// judge stages in order, and turns any error bubbling out of either into a
// terminal Error event.
package submit

import (
	"context"
	"os"
	"path/filepath"

	"judge/internal/judge/event"
	"judge/internal/judge/judge"
	"judge/internal/judge/model"
	"judge/internal/judge/sandbox/compile"
	"judge/internal/judge/sandbox/runner"
	"judge/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Executor is everything a submission needs from the sandbox: compiling
// unsandboxed and running confined. *runner.Runner satisfies this.
type Executor interface {
	judge.Executor
	compile.Compiler
}

// Driver owns everything a submission needs to run: the sandbox executor
// and the scratch root submissions are staged under.
type Driver struct {
	Executor   Executor
	ScratchDir string
}

// NewDriver builds a Driver backed by the sandbox-init helper at
// helperPath, staging submissions under scratchDir.
func NewDriver(helperPath, scratchDir string) *Driver {
	return &Driver{Executor: runner.New(helperPath), ScratchDir: scratchDir}
}

// Submit runs one submission end to end: writes the source under the
// language's filename, emits Queued, runs F (if the language compiles)
// then G, and emits the terminal Done or Error event. It never returns an
// error itself — every failure is folded into an Error event so the
// caller's event stream is always properly terminated.
func (d *Driver) Submit(ctx context.Context, task model.Task, language model.Language, limits model.ResourceLimits, skipThreshold uint8, code []byte, events event.Channel) {
	id := uuid.NewString()

	dir, err := d.prepare(id, language, code)
	if err != nil {
		events <- event.Error(err.Error())
		return
	}
	defer os.RemoveAll(dir)

	events <- event.Queued(uint32(task.TotalTests()), id)

	if language.Compile != nil {
		ok, err := compile.Run(ctx, d.Executor, dir, language, events)
		if err != nil {
			events <- event.Error(err.Error())
			return
		}
		if !ok {
			events <- event.Done(compileErrorReport(task))
			return
		}
	}

	params := judge.Params{
		Dir:            dir,
		RunCommand:     language.Run,
		Limits:         limits,
		SkipThreshold:  skipThreshold,
		SeccompProfile: language.SeccompProfile,
		RootFS:         language.RootFS,
	}

	report, err := judge.Judge(ctx, d.Executor, params, task, events)
	if err != nil {
		logger.Error(ctx, "judge stage failed", zap.Error(err))
		events <- event.Error(err.Error())
		return
	}

	events <- event.Done(report)
}

func (d *Driver) prepare(id string, language model.Language, code []byte) (string, error) {
	dir := filepath.Join(d.ScratchDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, language.Filename)
	if err := os.WriteFile(path, code, 0o644); err != nil {
		return "", err
	}
	return dir, nil
}

func compileErrorReport(task model.Task) model.Report {
	report := model.Report{
		Task:     model.CompileError,
		Subtasks: make([]model.Verdict, len(task.Subtasks)),
		Tests:    make([][]model.TestReport, len(task.Subtasks)),
	}
	for i, subtask := range task.Subtasks {
		report.Subtasks[i] = model.CompileError
		tests := make([]model.TestReport, len(subtask.Tests))
		for j := range tests {
			tests[j] = model.TestReport{Verdict: model.CompileError}
		}
		report.Tests[i] = tests
	}
	return report
}
