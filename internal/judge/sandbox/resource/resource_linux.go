//go:build linux

package resource

import (
	"os"
	"syscall"
	"time"

	"judge/internal/judge/model"
	"judge/pkg/errors"

	"golang.org/x/sys/unix"
)

type linuxLimiter struct{}

// NewLimiter returns the Linux resource-limit implementation.
func NewLimiter() Limiter { return linuxLimiter{} }

// ApplyLimits sets RLIMIT_CPU (hard CPU-time limit; the kernel sends
// SIGXCPU/SIGKILL when exceeded) and RLIMIT_AS (virtual address space,
// approximating the memory limit) in the calling process. Intended to run
// in the sandbox-init helper, between fork and exec.
func ApplyLimits(limits model.ResourceLimits) error {
	if limits.CPUSeconds > 0 {
		cpu := &unix.Rlimit{Cur: limits.CPUSeconds, Max: limits.CPUSeconds}
		if err := unix.Setrlimit(unix.RLIMIT_CPU, cpu); err != nil {
			return errors.Wrap(err, errors.SandboxSetupFailed)
		}
	}
	if limits.MemoryBytes > 0 {
		mem := &unix.Rlimit{Cur: limits.MemoryBytes, Max: limits.MemoryBytes}
		if err := unix.Setrlimit(unix.RLIMIT_AS, mem); err != nil {
			return errors.Wrap(err, errors.SandboxSetupFailed)
		}
	}
	return nil
}

func (linuxLimiter) ApplyLimits(limits model.ResourceLimits) error {
	return ApplyLimits(limits)
}

// Reap extracts resource usage from a finished process's state. It must be
// called only after Wait has returned, on a goroutine dedicated to the
// blocking wait — it performs no further syscalls itself.
func Reap(state *os.ProcessState) model.ResourceUsage {
	if state == nil {
		return model.ResourceUsage{}
	}
	rusage, ok := state.SysUsage().(*syscall.Rusage)
	if !ok || rusage == nil {
		return model.ResourceUsage{}
	}
	return model.ResourceUsage{
		UserTime:    timevalToDuration(rusage.Utime),
		SysTime:     timevalToDuration(rusage.Stime),
		MemoryBytes: uint64(rusage.Maxrss) * 1024, // ru_maxrss is reported in KB on Linux
	}
}

func timevalToDuration(tv syscall.Timeval) (d time.Duration) {
	return time.Duration(tv.Sec)*time.Second + time.Duration(tv.Usec)*time.Microsecond
}

// ExitStatusFrom converts a process-wait error and final state into the
// model's ExitStatus, distinguishing a normal exit from signal
// termination.
func ExitStatusFrom(waitErr error, state *os.ProcessState) model.ExitStatus {
	if state == nil {
		return model.ExitStatus{Signaled: false, Code: -1}
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return model.ExitStatus{Code: state.ExitCode()}
	}
	if ws.Signaled() {
		return model.ExitStatus{Signaled: true, Signal: int(ws.Signal())}
	}
	return model.ExitStatus{Code: ws.ExitStatus()}
}
