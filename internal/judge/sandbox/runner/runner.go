// Package runner implements components D and L: running a contestant's
// compile or test command inside the sandbox-init helper and collecting
// its output and resource usage.
//
// Stdio is not staged through files the way the teacher's original helper
// protocol did it (StdinPath/StdoutPath/StderrPath). Instead the parent
// hands the helper three extra file descriptors — the read end of a stdin
// pipe, and the write ends of stdout/stderr pipes — over os/exec's
// ExtraFiles, and streams stdin_bytes / drains output concurrently while
// the sandboxed process runs. fd 0 of the helper process stays reserved
// for the JSON control request so the two channels never collide.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"

	"judge/internal/judge/model"
	"judge/internal/judge/sandbox/resource"
	"judge/pkg/errors"
)

// stdio fds handed to the helper via ExtraFiles, in order.
const (
	fdStdin  = 3
	fdStdout = 4
	fdStderr = 5
)

// Profile configures the confinement applied to a Run (never a Compile).
type Profile struct {
	Limits         model.ResourceLimits
	SeccompProfile string // path to a seccomp profile document; empty disables filtering
	RootFS         string // chroot root; empty disables the chroot (BindMounts are still applied)
	BindMounts     []MountSpec
}

// MountSpec is a single read-only or read-write bind mount layered under
// RootFS.
type MountSpec struct {
	Source   string
	Target   string
	ReadOnly bool
}

// Request is the JSON document written to the helper's stdin describing
// the sandboxed run it must perform.
type Request struct {
	WorkDir        string            `json:"WorkDir"`
	Cmd            []string          `json:"Cmd"`
	Env            []string          `json:"Env"`
	RootFS         string            `json:"RootFS"`
	BindMounts     []MountSpec       `json:"BindMounts"`
	SeccompProfile string            `json:"SeccompProfile"`
	EnableSeccomp  bool              `json:"EnableSeccomp"`
	EnableNs       bool              `json:"EnableNs"`
	Limits         model.ResourceLimits `json:"Limits"`
}

// Runner executes contestant commands: Compile directly, Run through the
// sandbox-init helper binary.
type Runner struct {
	// HelperPath is the absolute path to the built cmd/sandbox-init binary.
	HelperPath string
}

// New returns a Runner that spawns the sandbox-init helper at helperPath
// for every Run call.
func New(helperPath string) *Runner {
	return &Runner{HelperPath: helperPath}
}

// Compile runs a language's compile command unsandboxed in dir.
func (r *Runner) Compile(ctx context.Context, dir string, cmd model.Command) (model.Output, error) {
	if cmd.Empty() {
		return model.Output{}, errors.Newf(errors.EmptyCommand, "compile command is empty")
	}

	c := exec.CommandContext(ctx, cmd.Executable, cmd.Args...)
	c.Dir = dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	runErr := c.Run()
	return buildOutput(runErr, c.ProcessState, stdout.Bytes(), stderr.Bytes())
}

// Run executes command inside the sandbox-init helper, confined and
// resource-limited per profile, feeding stdin and collecting stdout,
// stderr and resource usage.
func (r *Runner) Run(ctx context.Context, dir string, cmd model.Command, stdin []byte, profile Profile) (model.Output, error) {
	if cmd.Empty() {
		return model.Output{}, errors.Newf(errors.EmptyCommand, "run command is empty")
	}
	if r.HelperPath == "" {
		return model.Output{}, errors.Newf(errors.SandboxSpawnFailed, "no sandbox helper configured")
	}

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return model.Output{}, errors.Wrap(err, errors.SandboxSpawnFailed)
	}
	defer stdinR.Close()

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return model.Output{}, errors.Wrap(err, errors.SandboxSpawnFailed)
	}
	defer stdoutR.Close()

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		return model.Output{}, errors.Wrap(err, errors.SandboxSpawnFailed)
	}
	defer stderrR.Close()

	req := Request{
		WorkDir:        dir,
		Cmd:            append([]string{cmd.Executable}, cmd.Args...),
		RootFS:         profile.RootFS,
		BindMounts:     profile.BindMounts,
		SeccompProfile: profile.SeccompProfile,
		EnableSeccomp:  profile.SeccompProfile != "",
		EnableNs:       profile.RootFS != "" || len(profile.BindMounts) > 0,
		Limits:         profile.Limits,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return model.Output{}, errors.Wrap(err, errors.SandboxSpawnFailed)
	}

	helper := exec.CommandContext(ctx, r.HelperPath)
	helper.Stdin = bytes.NewReader(payload)
	helper.ExtraFiles = []*os.File{stdinR, stdoutW, stderrW}
	// The helper's own fd 2 (before it dups the contestant's stderr onto it)
	// is free to carry the helper's diagnostic logging, since fd 0 carries
	// the control request and nothing else claims fd 2 yet.
	helper.Stderr = os.Stderr

	if err := helper.Start(); err != nil {
		return model.Output{}, errors.Wrap(err, errors.SandboxSpawnFailed)
	}

	// The parent's ends of the pipes it handed off are only meaningful to
	// the child now; closing the write/read ends it doesn't use lets EOF
	// propagate once the contestant process exits.
	stdinR.Close()
	stdoutW.Close()
	stderrW.Close()

	done := make(chan struct{})
	var stdinErr error
	go func() {
		_, stdinErr = stdinW.Write(stdin)
		stdinW.Close()
		close(done)
	}()

	stdoutCh := make(chan []byte, 1)
	stderrCh := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(stdoutR)
		stdoutCh <- b
	}()
	go func() {
		b, _ := io.ReadAll(stderrR)
		stderrCh <- b
	}()

	waitErr := helper.Wait()
	<-done
	_ = stdinErr // a contestant that never reads stdin yields a broken pipe; not fatal to the run
	stdout := <-stdoutCh
	stderr := <-stderrCh

	return buildOutput(waitErr, helper.ProcessState, stdout, stderr)
}

func buildOutput(runErr error, state *os.ProcessState, stdout, stderr []byte) (model.Output, error) {
	if runErr != nil {
		if _, ok := runErr.(*exec.ExitError); !ok {
			return model.Output{}, errors.Wrap(runErr, errors.SandboxSpawnFailed)
		}
	}
	return model.Output{
		ExitStatus:    resource.ExitStatusFrom(runErr, state),
		Stdout:        stdout,
		Stderr:        stderr,
		ResourceUsage: resource.Reap(state),
	}, nil
}
