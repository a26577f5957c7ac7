package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
skip_count = 2

[resource_limits]
cpu_seconds = 1
memory_bytes = 268435456
cpu_tolerance_seconds = 0.1
memory_tolerance_bytes = 1048576

[languages.cpp]
filename = "main.cpp"
seccomp_profile = "native.json"

[languages.cpp.compile]
executable = "/usr/bin/g++"
args = ["-O2", "-o", "main", "main.cpp"]

[languages.cpp.run]
executable = "./main"
args = []
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SkipCount != 2 {
		t.Fatalf("skip_count = %d, want 2", cfg.SkipCount)
	}
	lang, ok := cfg.Languages["cpp"]
	if !ok {
		t.Fatalf("missing cpp language")
	}
	if lang.Compile == nil || lang.Compile.Executable != "/usr/bin/g++" {
		t.Fatalf("compile command not decoded: %+v", lang.Compile)
	}
}

func TestLoadConfigRejectsNoLanguages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("skip_count = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for config with no languages")
	}
}

func TestLoadContest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.json")
	contents := `{
		"name": "sample",
		"tasks": [
			{"subtasks": [{"tests": [{"input": "3\n", "expected_output": "9\n"}]}]}
		]
	}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	contest, err := LoadContest(path)
	if err != nil {
		t.Fatalf("LoadContest: %v", err)
	}
	if contest.Name != "sample" {
		t.Fatalf("name = %q, want sample", contest.Name)
	}
	if len(contest.Tasks) != 1 || len(contest.Tasks[0].Subtasks) != 1 {
		t.Fatalf("unexpected contest shape: %+v", contest)
	}
}

func TestLoadContestRejectsEmptySubtask(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	contents := `{"name": "bad", "tasks": [{"subtasks": [{"tests": []}]}]}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadContest(path); err == nil {
		t.Fatalf("expected error for subtask with no tests")
	}
}

func TestLoadContests(t *testing.T) {
	dir := t.TempDir()
	contents := `{"name": "a", "tasks": []}`
	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	contests, err := LoadContests(dir)
	if err != nil {
		t.Fatalf("LoadContests: %v", err)
	}
	if _, ok := contests["a"]; !ok {
		t.Fatalf("expected contest keyed by id %q", "a")
	}
}
