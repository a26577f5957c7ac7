//go:build !linux

package seccomp

import (
	"encoding/json"
	"os"

	"judge/pkg/errors"
)

// Profile is the on-disk document describing a syscall filter.
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

// Install always fails on non-Linux hosts: libseccomp has no portable
// equivalent.
func Install(Profile) error {
	return errors.Newf(errors.SandboxSetupFailed, "seccomp filtering is only supported on linux")
}

// InstallFromFile always fails on non-Linux hosts.
func InstallFromFile(string) error {
	return errors.Newf(errors.SandboxSetupFailed, "seccomp filtering is only supported on linux")
}
