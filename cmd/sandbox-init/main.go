//go:build linux

// Command sandbox-init is the narrow helper a sandboxed run execs into: it
// reads its control request from stdin, applies filesystem confinement,
// resource limits and a seccomp filter, then execs the contestant command
// with its stdio wired to the file descriptors the parent handed over via
// ExtraFiles (fd 3 = stdin, fd 4 = stdout, fd 5 = stderr; fd 0 stays
// reserved for the control request so the two channels never collide).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"judge/internal/judge/sandbox/fs"
	"judge/internal/judge/sandbox/resource"
	"judge/internal/judge/sandbox/runner"
	"judge/internal/judge/sandbox/seccomp"
	"judge/pkg/logger"

	"golang.org/x/sys/unix"
)

const (
	fdStdin  = 3
	fdStdout = 4
	fdStderr = 5
)

func main() {
	// A minimal logger writing to the helper's own fd 2, which the parent
	// wires to its own stderr (see runner.Run) — this helper has no config
	// file of its own, so partial-enforcement warnings from fs.Confine would
	// otherwise have nowhere to go before fd 2 is dup'd onto the contestant's
	// stderr pipe.
	_ = logger.Init(logger.Config{Level: "info", Format: "json", OutputPath: "stderr", Service: "sandbox-init"})
	defer func() { _ = logger.Sync() }()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	req, err := decodeRequest(os.Stdin)
	if err != nil {
		return err
	}
	if err := validateRequest(req); err != nil {
		return err
	}

	if req.EnableNs {
		if err := fs.PrivatizeMountNamespace(); err != nil {
			return err
		}
		if err := fs.Confine(ctx, fs.Profile{RootFS: req.RootFS, Mounts: toFSMounts(req.BindMounts)}); err != nil {
			return err
		}
	} else if req.RootFS != "" || len(req.BindMounts) > 0 {
		return fmt.Errorf("namespaces disabled with rootfs or bind mounts")
	}

	if err := os.Chdir(req.WorkDir); err != nil {
		return fmt.Errorf("chdir workdir: %w", err)
	}

	if err := resource.ApplyLimits(req.Limits); err != nil {
		return err
	}

	if err := dupStdio(); err != nil {
		return err
	}

	if req.EnableSeccomp && req.SeccompProfile != "" {
		if err := seccomp.InstallFromFile(req.SeccompProfile); err != nil {
			return err
		}
	}

	env := buildEnv(req.Env)
	os.Clearenv()
	for _, kv := range env {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		_ = os.Setenv(parts[0], parts[1])
	}

	cmdPath, err := exec.LookPath(req.Cmd[0])
	if err != nil {
		return fmt.Errorf("resolve command: %w", err)
	}
	return unix.Exec(cmdPath, req.Cmd, env)
}

func decodeRequest(r *os.File) (runner.Request, error) {
	var req runner.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return runner.Request{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func validateRequest(req runner.Request) error {
	if len(req.Cmd) == 0 {
		return fmt.Errorf("command is required")
	}
	if req.WorkDir == "" {
		return fmt.Errorf("work dir is required")
	}
	return nil
}

func toFSMounts(mounts []runner.MountSpec) []fs.Mount {
	out := make([]fs.Mount, len(mounts))
	for i, m := range mounts {
		out[i] = fs.Mount{Source: m.Source, Target: m.Target, ReadOnly: m.ReadOnly}
	}
	return out
}

// dupStdio moves the extra file descriptors the parent attached via
// ExtraFiles onto 0/1/2, then closes the now-duplicate originals.
func dupStdio() error {
	if err := unix.Dup2(fdStdin, int(os.Stdin.Fd())); err != nil {
		return fmt.Errorf("dup stdin: %w", err)
	}
	if err := unix.Dup2(fdStdout, int(os.Stdout.Fd())); err != nil {
		return fmt.Errorf("dup stdout: %w", err)
	}
	if err := unix.Dup2(fdStderr, int(os.Stderr.Fd())); err != nil {
		return fmt.Errorf("dup stderr: %w", err)
	}
	unix.Close(fdStdin)
	unix.Close(fdStdout)
	unix.Close(fdStderr)
	return nil
}

func buildEnv(env []string) []string {
	if len(env) > 0 {
		return env
	}
	return []string{"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"}
}
