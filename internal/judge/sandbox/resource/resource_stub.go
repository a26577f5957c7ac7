//go:build !linux

package resource

import (
	"os"

	"judge/internal/judge/model"
	"judge/pkg/errors"
)

type stubLimiter struct{}

// NewLimiter returns a Limiter that always fails; sandboxed execution is
// Linux-only (rlimits, seccomp and mount namespaces have no portable
// equivalent).
func NewLimiter() Limiter { return stubLimiter{} }

func (stubLimiter) ApplyLimits(model.ResourceLimits) error {
	return errors.Newf(errors.SandboxSetupFailed, "resource limits are only supported on linux")
}

// ApplyLimits mirrors the Linux entry point for callers that reference it
// directly rather than through the Limiter interface.
func ApplyLimits(model.ResourceLimits) error {
	return errors.Newf(errors.SandboxSetupFailed, "resource limits are only supported on linux")
}

// Reap always returns a zero usage on non-Linux hosts.
func Reap(*os.ProcessState) model.ResourceUsage {
	return model.ResourceUsage{}
}

// ExitStatusFrom falls back to os.ProcessState's portable ExitCode.
func ExitStatusFrom(_ error, state *os.ProcessState) model.ExitStatus {
	if state == nil {
		return model.ExitStatus{Code: -1}
	}
	return model.ExitStatus{Code: state.ExitCode()}
}
