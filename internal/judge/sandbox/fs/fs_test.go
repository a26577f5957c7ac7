//go:build linux

package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureTargetCreatesDirForDirSource(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "src-dir")
	if err := os.Mkdir(source, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	target := filepath.Join(root, "nested", "target-dir")

	if err := ensureTarget(source, target); err != nil {
		t.Fatalf("ensureTarget: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat target: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected target to be a directory")
	}
}

func TestEnsureTargetCreatesFileForFileSource(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "src-file")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	target := filepath.Join(root, "nested", "target-file")

	if err := ensureTarget(source, target); err != nil {
		t.Fatalf("ensureTarget: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat target: %v", err)
	}
	if info.IsDir() {
		t.Fatalf("expected target to be a regular file")
	}
}

func TestEnsureTargetMissingSource(t *testing.T) {
	root := t.TempDir()
	if err := ensureTarget(filepath.Join(root, "missing"), filepath.Join(root, "target")); err == nil {
		t.Fatalf("expected error for missing source")
	}
}

func TestConfineNoopWithEmptyProfile(t *testing.T) {
	if err := Confine(context.Background(), Profile{}); err != nil {
		t.Fatalf("Confine with empty profile should be a no-op, got: %v", err)
	}
}
