// Package config handles configuration loading and job definitions.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/topoloc/internal/geo"
	"github.com/woozymasta/topoloc/internal/topology"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Defaults of the historical conversion scripts.
const (
	DefaultInput = "toronto.topojson"
	DefaultLayer = "-"
)

// Format is the output encoding of a job.
type Format string

const (
	FormatText    Format = "txt"
	FormatGeoJSON Format = "geojson"
	FormatYAML    Format = "yaml"
)

// Valid reports whether f is a known output format.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatGeoJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Config represents the root configuration file structure.
type Config struct {
	Layer  string             `yaml:"layer,omitempty"`
	Mode   topology.ParseMode `yaml:"mode,omitempty"`
	Format Format             `yaml:"format,omitempty"`
	Jobs   []Job              `yaml:"jobs"`
}

// Job is a single flatten run: one input layer to one output file.
type Job struct {
	Name         string             `yaml:"name"`
	Input        string             `yaml:"input,omitempty"`
	Output       string             `yaml:"output"`
	Layer        string             `yaml:"layer,omitempty"`
	Mode         topology.ParseMode `yaml:"mode,omitempty"`
	Format       Format             `yaml:"format,omitempty"`
	H3Resolution int                `yaml:"h3_resolution,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
// Jobs inherit the top level layer, mode and format when they omit them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %q", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrapf(err, "parse config %q", path)
	}

	for i := range cfg.Jobs {
		cfg.Jobs[i] = cfg.Jobs[i].withDefaults(cfg.Layer, cfg.Mode, cfg.Format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "config %q", path)
	}

	return &cfg, nil
}

// Validate checks every job and rejects duplicate names.
func (c *Config) Validate() error {
	if len(c.Jobs) == 0 {
		return eris.New("no jobs defined")
	}

	seen := make(map[string]bool, len(c.Jobs))
	for _, j := range c.Jobs {
		if err := j.Validate(); err != nil {
			return err
		}
		if seen[j.Name] {
			return eris.Errorf("duplicate job name %q", j.Name)
		}
		seen[j.Name] = true
	}

	return nil
}

// withDefaults fills unset fields, falling back to the historical constants.
func (j Job) withDefaults(layer string, mode topology.ParseMode, format Format) Job {
	if j.Input == "" {
		j.Input = DefaultInput
	}
	if j.Layer == "" {
		j.Layer = layer
	}
	if j.Layer == "" {
		j.Layer = DefaultLayer
	}
	if j.Mode == "" {
		j.Mode = mode
	}
	if j.Mode == "" {
		j.Mode = topology.ModeAuto
	}
	if j.Format == "" {
		j.Format = format
	}
	if j.Format == "" {
		j.Format = FormatText
	}
	if j.Name == "" && j.Output != "" {
		j.Name = strings.TrimSuffix(filepath.Base(j.Output), filepath.Ext(j.Output))
	}

	return j
}

// Validate checks a fully defaulted job.
func (j Job) Validate() error {
	switch {
	case j.Name == "":
		return eris.New("job without name or output")
	case j.Output == "":
		return eris.Errorf("job %q: output is required", j.Name)
	case j.Input == "":
		return eris.Errorf("job %q: input is required", j.Name)
	case !j.Mode.Valid():
		return eris.Errorf("job %q: unknown mode %q", j.Name, j.Mode)
	case !j.Format.Valid():
		return eris.Errorf("job %q: unknown format %q", j.Name, j.Format)
	case j.H3Resolution < 0 || j.H3Resolution > geo.MaxH3Resolution:
		return eris.Errorf("job %q: h3 resolution %d out of range 0..%d", j.Name, j.H3Resolution, geo.MaxH3Resolution)
	case j.H3Resolution > 0 && j.Format == FormatText:
		return eris.Errorf("job %q: h3 resolution is not supported by format %q", j.Name, j.Format)
	}

	return nil
}
