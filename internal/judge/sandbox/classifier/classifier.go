// Package classifier implements component E: turning a single sandboxed
// Output plus the expected test output into a Verdict.
package classifier

import (
	"strings"
	"unicode/utf8"

	"judge/internal/judge/model"
)

// ExceededBySignal reports whether a run was terminated by signal (e.g.
// SIGKILL/SIGXCPU delivered by the kernel once an rlimit fires) while its
// measured usage falls within the breach band of the limits. This is the
// condition component G counts against a subtask's skip budget — a normal
// exit is never counted, even if its usage happens to land in the band.
func ExceededBySignal(out model.Output, limits model.ResourceLimits) bool {
	return out.ExitStatus.Signaled && out.ResourceUsage.Exceeded(limits)
}

// Classify derives a single test's verdict from its sandboxed run output,
// the resource limits that run was subject to, and the expected output.
//
// A run terminated by signal while its usage is in the breach band is
// TimeLimitExceeded or MemoryLimitExceeded, whichever resource the usage
// breached (time takes priority when both do). Any other non-zero or
// signaled exit is RuntimeError. A clean exit is Accepted only if its
// trimmed stdout matches the trimmed expected output, else WrongAnswer.
func Classify(out model.Output, limits model.ResourceLimits, expected string) model.Verdict {
	if ExceededBySignal(out, limits) {
		if out.ResourceUsage.ExceededTime(limits) {
			return model.TimeLimitExceeded
		}
		return model.MemoryLimitExceeded
	}

	if !out.ExitStatus.Success() {
		return model.RuntimeError
	}

	if !utf8.Valid(out.Stdout) {
		return model.WrongAnswer
	}
	if strings.TrimSpace(string(out.Stdout)) != strings.TrimSpace(expected) {
		return model.WrongAnswer
	}
	return model.Accepted
}
