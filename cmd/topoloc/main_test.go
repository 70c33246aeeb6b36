package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/topoloc/internal/config"
	"github.com/woozymasta/topoloc/internal/topology"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveJobsDefaults(t *testing.T) {
	jobs, err := resolveJobs(Options{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, "toronto.topojson", jobs[0].Input)
	assert.Equal(t, "toronto-das.locations.txt", jobs[0].Output)
	assert.Equal(t, "-", jobs[0].Layer)
	assert.Equal(t, topology.ModeAuto, jobs[0].Mode)
	assert.Equal(t, config.FormatText, jobs[0].Format)
}

func TestResolveJobsPresetWithOverrides(t *testing.T) {
	jobs, err := resolveJobs(Options{Preset: "bgs", Input: "in.json", Layer: "tracts"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, "in.json", jobs[0].Input)
	assert.Equal(t, "toronto-bgs.locations.txt", jobs[0].Output)
	assert.Equal(t, "tracts", jobs[0].Layer)
	assert.Equal(t, topology.ModeLineDelimited, jobs[0].Mode)
}

func TestResolveJobsRejectsInvalidCombination(t *testing.T) {
	_, err := resolveJobs(Options{Format: "txt", H3Resolution: 6})
	require.Error(t, err)

	_, err = resolveJobs(Options{ConfigFile: "config.yaml", Input: "x"})
	require.Error(t, err)

	_, err = resolveJobs(Options{Preset: "nope"})
	require.Error(t, err)
}

func TestResolveJobsFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - name: bgs
    output: bgs.txt
  - name: das
    output: das.txt
  - name: tracts
    output: tracts.txt
`), 0644))

	jobs, err := resolveJobs(Options{ConfigFile: path})
	require.NoError(t, err)
	assert.Len(t, jobs, 3)

	jobs, err = resolveJobs(Options{ConfigFile: path, Limit: []string{"tracts", "missing", "bgs", "tracts"}})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "tracts", jobs[0].Name)
	assert.Equal(t, "bgs", jobs[1].Name)

	_, err = resolveJobs(Options{ConfigFile: path, Limit: []string{"missing"}})
	require.Error(t, err)
}

func TestRunConfigJobs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "toronto.topojson")
	// one physical line, so the line-delimited and single-document jobs read the same data
	require.NoError(t, os.WriteFile(in, []byte(
		`{"objects":{"-":{"geometries":[{"properties":{"geo_id":"001","INTPTLAT":"43.7","INTPTLON":"-79.4"}}]}}}`+"\n"), 0644))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - name: bgs
    input: `+in+`
    output: `+filepath.Join(dir, "bgs.txt")+`
    mode: line-delimited
  - name: das
    input: `+in+`
    output: `+filepath.Join(dir, "das.txt")+`
    mode: single-document
`), 0644))

	require.NoError(t, run(Options{ConfigFile: path}))

	for _, name := range []string{"bgs.txt", "das.txt"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, "id,latitude,longitude\n001,43.7,-79.4\n", string(data))
	}
}

func TestRunStopsOnFirstFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	err := run(Options{Input: filepath.Join(dir, "missing.topojson"), Output: out})
	require.Error(t, err)
	assert.True(t, topology.IsNotFound(err))
	assert.NoFileExists(t, out)
}
