// Package config loads the judge's on-disk state: the global config.toml
// and per-contest JSON documents.
package config

import (
	"encoding/json"
	"os"

	"judge/internal/judge/model"
	"judge/pkg/errors"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and decodes the global judge configuration from a TOML file.
func Load(path string) (*model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ConfigLoadFailed, "read config %s", path)
	}

	var cfg model.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ConfigLoadFailed, "decode config %s", path)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *model.Config) error {
	if len(cfg.Languages) == 0 {
		return errors.Newf(errors.ConfigLoadFailed, "config declares no languages")
	}
	for name, lang := range cfg.Languages {
		if lang.Filename == "" {
			return errors.Newf(errors.ConfigLoadFailed, "language %q missing filename", name)
		}
		if lang.Run.Empty() {
			return errors.Newf(errors.ConfigLoadFailed, "language %q missing run command", name)
		}
	}
	return nil
}

// LoadContest reads and decodes a single contest from a JSON file.
func LoadContest(path string) (*model.Contest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ContestLoadFailed, "read contest %s", path)
	}

	var contest model.Contest
	if err := json.Unmarshal(data, &contest); err != nil {
		return nil, errors.Wrapf(err, errors.ContestLoadFailed, "decode contest %s", path)
	}

	if contest.Name == "" {
		return nil, errors.Newf(errors.ContestLoadFailed, "contest at %s missing name", path)
	}
	for ti, task := range contest.Tasks {
		for si, subtask := range task.Subtasks {
			if len(subtask.Tests) == 0 {
				return nil, errors.Newf(errors.ContestLoadFailed,
					"contest %s task %d subtask %d has no tests", contest.Name, ti, si)
			}
		}
	}
	return &contest, nil
}

// LoadContests reads every "*.json" file directly under dir as a contest,
// keyed by its file basename (without extension), matching the on-disk
// layout "./contests/<id>.json".
func LoadContests(dir string) (map[string]*model.Contest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ContestLoadFailed, "read contests dir %s", dir)
	}

	contests := make(map[string]*model.Contest)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		id, ok := trimJSONExt(name)
		if !ok {
			continue
		}
		contest, err := LoadContest(dir + "/" + name)
		if err != nil {
			return nil, err
		}
		contests[id] = contest
	}
	return contests, nil
}

func trimJSONExt(name string) (string, bool) {
	const ext = ".json"
	if len(name) <= len(ext) || name[len(name)-len(ext):] != ext {
		return "", false
	}
	return name[:len(name)-len(ext)], true
}
