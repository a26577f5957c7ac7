//go:build !linux

package fs

import (
	"context"

	"judge/pkg/errors"
)

// Mount is a single bind mount applied into the confined view.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// Profile describes the filesystem confinement applied before a sandboxed
// run.
type Profile struct {
	RootFS string
	Mounts []Mount
}

// Confine always fails on non-Linux hosts: chroot/bind-mount confinement
// has no portable equivalent here.
func Confine(context.Context, Profile) error {
	return errors.Newf(errors.SandboxSetupFailed, "filesystem confinement is only supported on linux")
}

// PrivatizeMountNamespace always fails on non-Linux hosts.
func PrivatizeMountNamespace() error {
	return errors.Newf(errors.SandboxSetupFailed, "filesystem confinement is only supported on linux")
}
