package runner

import (
	"context"
	"encoding/json"
	"testing"

	"judge/internal/judge/model"
)

func TestCompileRunsUnsandboxed(t *testing.T) {
	r := New("")
	dir := t.TempDir()
	out, err := r.Compile(context.Background(), dir, model.Command{
		Executable: "/bin/echo",
		Args:       []string{"compiling"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !out.ExitStatus.Success() {
		t.Fatalf("expected successful exit, got %+v", out.ExitStatus)
	}
	if string(out.Stdout) != "compiling\n" {
		t.Fatalf("stdout = %q", out.Stdout)
	}
}

func TestCompileRejectsEmptyCommand(t *testing.T) {
	r := New("")
	if _, err := r.Compile(context.Background(), t.TempDir(), model.Command{}); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestRunRejectsEmptyCommand(t *testing.T) {
	r := New("/bin/true")
	if _, err := r.Run(context.Background(), t.TempDir(), model.Command{}, nil, Profile{}); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestRunRejectsMissingHelper(t *testing.T) {
	r := New("")
	cmd := model.Command{Executable: "./main"}
	if _, err := r.Run(context.Background(), t.TempDir(), cmd, nil, Profile{}); err == nil {
		t.Fatalf("expected error for missing helper path")
	}
}

func TestRequestRoundTrip(t *testing.T) {
	req := Request{
		WorkDir: "/tmp/work",
		Cmd:     []string{"./main"},
		Limits:  model.ResourceLimits{CPUSeconds: 1, MemoryBytes: 1 << 20},
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Request
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.WorkDir != req.WorkDir || decoded.Limits.CPUSeconds != 1 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
