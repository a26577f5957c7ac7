// Package model holds the judge's data model: the Contest/Task/Subtask/Test
// tree, the language and resource-limit configuration, and the result types
// (Output, Verdict, TestReport, Report) that flow out of a sandboxed run.
package model

import "time"

// Test is a single (input, expected-output) pair.
type Test struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// Subtask is an ordered sequence of tests.
type Subtask struct {
	Tests []Test `json:"tests"`
}

// Task is an ordered sequence of subtasks.
type Task struct {
	Subtasks []Subtask `json:"subtasks"`
}

// Contest is a named, ordered sequence of tasks.
type Contest struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// TotalTests returns the number of tests across every subtask of the task.
func (t Task) TotalTests() int {
	n := 0
	for _, s := range t.Subtasks {
		n += len(s.Tests)
	}
	return n
}

// Command is an executable path plus its ordered arguments.
type Command struct {
	Executable string   `json:"executable"`
	Args       []string `json:"args"`
}

// Empty reports whether the command has no executable at all.
func (c Command) Empty() bool {
	return c.Executable == ""
}

// Language describes how a submission in a given language is compiled (if
// at all) and run.
type Language struct {
	// Filename is the name under which the submission source is written in
	// the sandbox working directory, e.g. "main.cpp" or "main.py".
	Filename string   `json:"filename" toml:"filename"`
	Compile  *Command `json:"compile,omitempty" toml:"compile,omitempty"`
	Run      Command  `json:"run" toml:"run"`
	// SeccompProfile names the on-disk seccomp policy document applied to
	// the run profile for this language family.
	SeccompProfile string `json:"seccomp_profile,omitempty" toml:"seccomp_profile,omitempty"`
	// RootFS is the read-only library root bind-mounted into the run
	// profile's confined filesystem view; empty means no chroot is applied.
	RootFS string `json:"root_fs,omitempty" toml:"root_fs,omitempty"`
}

// ResourceLimits bounds a single sandboxed run.
type ResourceLimits struct {
	CPUSeconds           uint64        `json:"cpu_seconds" toml:"cpu_seconds"`
	MemoryBytes          uint64        `json:"memory_bytes" toml:"memory_bytes"`
	CPUToleranceSeconds  float64       `json:"cpu_tolerance_seconds" toml:"cpu_tolerance_seconds"`
	MemoryToleranceBytes uint64        `json:"memory_tolerance_bytes" toml:"memory_tolerance_bytes"`
}

// CPULimit returns the CPU limit as a time.Duration.
func (r ResourceLimits) CPULimit() time.Duration {
	return time.Duration(r.CPUSeconds) * time.Second
}

// CPUTolerance returns the CPU tolerance as a time.Duration.
func (r ResourceLimits) CPUTolerance() time.Duration {
	return time.Duration(r.CPUToleranceSeconds * float64(time.Second))
}

// Config is the global judge configuration: the skip budget applied to
// every subtask and the table of supported languages.
type Config struct {
	SkipCount      uint8               `toml:"skip_count"`
	ResourceLimits ResourceLimits      `toml:"resource_limits"`
	Languages      map[string]Language `toml:"languages"`
}

// ResourceUsage is the resource consumption reaped from a finished process.
type ResourceUsage struct {
	UserTime   time.Duration `json:"user_time"`
	SysTime    time.Duration `json:"sys_time"`
	MemoryBytes uint64       `json:"memory_bytes"`
}

// TotalTime is user_time + sys_time.
func (u ResourceUsage) TotalTime() time.Duration {
	return u.UserTime + u.SysTime
}

// ExceededTime reports whether total CPU time falls within the tolerance
// band around the limit (spec's resolved Open Question: a band, not a
// strict ceiling).
func (u ResourceUsage) ExceededTime(limits ResourceLimits) bool {
	delta := u.TotalTime() - limits.CPULimit()
	if delta < 0 {
		delta = -delta
	}
	return delta <= limits.CPUTolerance()
}

// ExceededMemory reports whether peak memory falls within the tolerance
// band around the limit.
func (u ResourceUsage) ExceededMemory(limits ResourceLimits) bool {
	var delta int64
	if u.MemoryBytes >= limits.MemoryBytes {
		delta = int64(u.MemoryBytes - limits.MemoryBytes)
	} else {
		delta = int64(limits.MemoryBytes - u.MemoryBytes)
	}
	if delta < 0 {
		delta = -delta
	}
	return uint64(delta) <= limits.MemoryToleranceBytes
}

// Exceeded reports whether either resource is within its breach band.
func (u ResourceUsage) Exceeded(limits ResourceLimits) bool {
	return u.ExceededTime(limits) || u.ExceededMemory(limits)
}

// ExitStatus captures a process's termination: either a normal exit with a
// code, or termination by signal.
type ExitStatus struct {
	Signaled bool
	Code     int // valid only if !Signaled
	Signal   int // valid only if Signaled
}

// Success reports whether the process exited normally with code 0.
func (s ExitStatus) Success() bool {
	return !s.Signaled && s.Code == 0
}

// Output is the full result of a single sandboxed run.
type Output struct {
	ExitStatus    ExitStatus
	Stdout        []byte
	Stderr        []byte
	ResourceUsage ResourceUsage
}

// Verdict is the totally ordered classification of a test (or the
// aggregate of several). The order below, least to greatest, is load
// bearing: aggregation is the minimum under this order, so any failure
// dominates any success.
type Verdict int

const (
	CompileError Verdict = iota
	RuntimeError
	MemoryLimitExceeded
	TimeLimitExceeded
	WrongAnswer
	Skipped
	Accepted
)

var verdictNames = [...]string{
	CompileError:        "CompileError",
	RuntimeError:        "RuntimeError",
	MemoryLimitExceeded: "MemoryLimitExceeded",
	TimeLimitExceeded:   "TimeLimitExceeded",
	WrongAnswer:         "WrongAnswer",
	Skipped:             "Skipped",
	Accepted:            "Accepted",
}

func (v Verdict) String() string {
	if v < 0 || int(v) >= len(verdictNames) {
		return "Unknown"
	}
	return verdictNames[v]
}

// MarshalJSON encodes a Verdict as its name, matching the wire contract.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON decodes a Verdict from its name.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	for i, name := range verdictNames {
		if name == s {
			*v = Verdict(i)
			return nil
		}
	}
	return &unknownVerdictError{s}
}

type unknownVerdictError struct{ name string }

func (e *unknownVerdictError) Error() string { return "model: unknown verdict " + e.name }

// Min returns the worse (lesser) of two verdicts under the total order.
func Min(a, b Verdict) Verdict {
	if a < b {
		return a
	}
	return b
}

// TestReport is a single test's classification and resource usage.
type TestReport struct {
	Verdict       Verdict       `json:"verdict"`
	ResourceUsage ResourceUsage `json:"resource_usage"`
}

// Report is the full aggregated result of a submission: the overall task
// verdict, one verdict per subtask, and the full per-test detail.
type Report struct {
	Task     Verdict        `json:"task"`
	Subtasks []Verdict      `json:"subtasks"`
	Tests    [][]TestReport `json:"tests"`
}
