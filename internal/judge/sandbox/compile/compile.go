// Package compile implements component F: running a submission's compile
// command, unsandboxed, and reporting whether compilation succeeded.
package compile

import (
	"context"

	"judge/internal/judge/event"
	"judge/internal/judge/model"
)

// Compiler runs a submission's compile command unsandboxed. *runner.Runner
// satisfies this.
type Compiler interface {
	Compile(ctx context.Context, dir string, cmd model.Command) (model.Output, error)
}

// Run executes language's compile command in dir and emits the
// corresponding events: always Compiling at entry; CompilerOutput with the
// exit code and stderr whenever stderr is non-empty or compilation failed.
// It returns whether compilation succeeded.
func Run(ctx context.Context, r Compiler, dir string, language model.Language, events event.Channel) (bool, error) {
	events <- event.Compiling()

	out, err := r.Compile(ctx, dir, *language.Compile)
	if err != nil {
		return false, err
	}

	exitCode := exitCodeFor(out.ExitStatus)
	if out.ExitStatus.Success() {
		if len(out.Stderr) > 0 {
			events <- event.CompilerOutput(exitCode, string(out.Stderr))
		}
		return true, nil
	}

	events <- event.CompilerOutput(exitCode, string(out.Stderr))
	return false, nil
}

func exitCodeFor(status model.ExitStatus) int32 {
	if status.Signaled {
		return -1
	}
	return int32(status.Code)
}
