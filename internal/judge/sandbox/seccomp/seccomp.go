//go:build linux

// Package seccomp implements component B: loading a named syscall filter
// profile and installing it in the calling process via libseccomp.
package seccomp

import (
	"encoding/json"
	"os"
	"strings"

	"judge/pkg/errors"

	libseccomp "github.com/seccomp/libseccomp-golang"
	"golang.org/x/sys/unix"
)

// Profile is the on-disk document describing a syscall filter: a default
// action applied to every syscall not otherwise listed, plus per-syscall
// overrides.
type Profile struct {
	DefaultAction string `json:"defaultAction"`
	Syscalls      []Rule `json:"syscalls"`
}

// Rule grants one action to a group of syscalls named by their libc name.
type Rule struct {
	Names  []string `json:"names"`
	Action string   `json:"action"`
}

// LoadProfile reads and parses a profile document from disk.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, errors.Wrapf(err, errors.SandboxSetupFailed, "read seccomp profile %s", path)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, errors.Wrapf(err, errors.SandboxSetupFailed, "parse seccomp profile %s", path)
	}
	return p, nil
}

// Install builds the filter described by the profile and loads it into the
// calling process, setting PR_SET_NO_NEW_PRIVS itself just before loading.
// It must run immediately before the final exec into the contestant
// binary — no further syscalls
// the filter denies may be made afterward, including by Go's runtime, so
// callers should keep remaining work to the exec itself.
func Install(p Profile) error {
	defaultAction, err := parseAction(p.DefaultAction)
	if err != nil {
		return err
	}
	filter, err := libseccomp.NewFilter(defaultAction)
	if err != nil {
		return errors.Wrap(err, errors.SandboxSetupFailed)
	}
	for _, rule := range p.Syscalls {
		action, err := parseAction(rule.Action)
		if err != nil {
			return err
		}
		for _, name := range rule.Names {
			if err := filter.AddRuleExact(name, action); err != nil {
				return errors.Wrapf(err, errors.SandboxSetupFailed, "add seccomp rule for %s", name)
			}
		}
	}
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return errors.Wrap(err, errors.SandboxSetupFailed)
	}
	if err := filter.Load(); err != nil {
		return errors.Wrap(err, errors.SandboxSetupFailed)
	}
	return nil
}

// InstallFromFile is the common path: load a profile document and install
// it in one step.
func InstallFromFile(path string) error {
	p, err := LoadProfile(path)
	if err != nil {
		return err
	}
	return Install(p)
}

func parseAction(action string) (libseccomp.ScmpAction, error) {
	switch strings.ToUpper(action) {
	case "SCMP_ACT_ALLOW":
		return libseccomp.ActAllow, nil
	case "SCMP_ACT_KILL", "SCMP_ACT_KILL_PROCESS":
		return libseccomp.ActKillProcess, nil
	case "SCMP_ACT_ERRNO":
		return libseccomp.ActErrno, nil
	default:
		return libseccomp.ActKillProcess, errors.Newf(errors.SandboxSetupFailed, "unsupported seccomp action: %s", action)
	}
}
