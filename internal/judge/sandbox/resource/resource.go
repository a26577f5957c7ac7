// Package resource implements component A: per-process resource limits
// applied before exec, and reaping a finished child into a ResourceUsage.
package resource

import (
	"judge/internal/judge/model"
)

// Limiter applies resource limits in the current process, meant to be
// called in the narrow pre-exec window of the sandbox-init helper (see
// cmd/sandbox-init). Reaping a finished process's usage is done by the
// package-level Reap function, not through this interface.
type Limiter interface {
	// ApplyLimits sets the per-process CPU-time and memory limits. It must
	// be called before exec in the process the limits apply to.
	ApplyLimits(limits model.ResourceLimits) error
}
