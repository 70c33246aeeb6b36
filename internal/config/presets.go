package config

import (
	"sort"

	"github.com/woozymasta/topoloc/internal/topology"
)

// Preset names of the two historical conversions.
const (
	PresetBlockGroups        = "bgs"
	PresetDisseminationAreas = "das"
)

var presets = map[string]Job{
	// block groups: the source was read one JSON document per line
	PresetBlockGroups: {
		Name:   PresetBlockGroups,
		Input:  DefaultInput,
		Output: "toronto-bgs.locations.txt",
		Layer:  DefaultLayer,
		Mode:   topology.ModeLineDelimited,
		Format: FormatText,
	},
	PresetDisseminationAreas: {
		Name:   PresetDisseminationAreas,
		Input:  DefaultInput,
		Output: "toronto-das.locations.txt",
		Layer:  DefaultLayer,
		Mode:   topology.ModeSingleDocument,
		Format: FormatText,
	},
}

// Preset returns the job for a named preset.
func Preset(name string) (Job, bool) {
	j, ok := presets[name]
	return j, ok
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// DefaultJob is used when neither a preset nor a config file is given:
// the dissemination area paths with the parse mode detected from the input.
func DefaultJob() Job {
	j := presets[PresetDisseminationAreas]
	j.Name = "default"
	j.Mode = topology.ModeAuto

	return j
}

// Merge returns j with every non-zero field of override applied, then defaulted.
func (j Job) Merge(override Job) Job {
	if override.Name != "" {
		j.Name = override.Name
	}
	if override.Input != "" {
		j.Input = override.Input
	}
	if override.Output != "" {
		j.Output = override.Output
	}
	if override.Layer != "" {
		j.Layer = override.Layer
	}
	if override.Mode != "" {
		j.Mode = override.Mode
	}
	if override.Format != "" {
		j.Format = override.Format
	}
	if override.H3Resolution != 0 {
		j.H3Resolution = override.H3Resolution
	}

	return j.withDefaults("", "", "")
}
