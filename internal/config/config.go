// Package config handles configuration loading for batch conversion runs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root batch configuration file structure. Command
// line flags take precedence over values set here.
type Config struct {
	OutputDir    string `yaml:"output,omitempty"`
	MappingTable string `yaml:"mapping_table,omitempty"`
	CRS          string `yaml:"crs,omitempty"`
	Report       string `yaml:"report,omitempty"`
	Workers      int    `yaml:"workers,omitempty"`
	SkipGroups   bool   `yaml:"skip_groups,omitempty"`
	StopOnError  bool   `yaml:"stop_on_error,omitempty"`

	Jobs []Job `yaml:"jobs"`
}

// Job is a single input document to convert.
type Job struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output,omitempty"`  // overrides Config.OutputDir
	CRS     string `yaml:"crs,omitempty"`     // overrides Config.CRS
	Project bool   `yaml:"project,omitempty"` // input is APRX-extracted project JSON
}

// Load reads and parses the YAML configuration file from the specified path.
// Per-job fields left empty inherit the run-level values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i, job := range cfg.Jobs {
		if job.Input == "" {
			return nil, fmt.Errorf("config %s: job %d has no input", path, i)
		}
		if job.Output == "" {
			cfg.Jobs[i].Output = cfg.OutputDir
		}
		if job.CRS == "" {
			cfg.Jobs[i].CRS = cfg.CRS
		}
	}
	return &cfg, nil
}
