// Package processor turns topojson layers into location files.
package processor

import (
	"io"
	"os"
	"time"

	"github.com/woozymasta/topoloc/internal/config"
	"github.com/woozymasta/topoloc/internal/geo"
	"github.com/woozymasta/topoloc/internal/topology"

	"github.com/mattn/go-isatty"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// StdioPath selects stdin for input or stdout for output.
const StdioPath = "-"

// Result summarizes a finished job.
type Result struct {
	Output    string
	Mode      topology.ParseMode
	Rows      int
	Documents int
	Duration  time.Duration
}

// Flatten reads the job input, extracts one location row per geometry of the
// job layer and writes them to the job output. Nothing is written unless every
// geometry yields a row.
func Flatten(job config.Job, progress bool) (Result, error) {
	start := time.Now()

	log.Info().
		Str("job", job.Name).
		Str("input", job.Input).
		Str("layer", job.Layer).
		Str("mode", string(job.Mode)).
		Msg("Flattening topology")

	data, err := readInput(job.Input)
	if err != nil {
		return Result{}, eris.Wrapf(err, "job %q", job.Name)
	}

	doc, err := topology.Parse(job.Input, data, job.Mode)
	if err != nil {
		return Result{}, eris.Wrapf(err, "job %q", job.Name)
	}

	if doc.Mode != job.Mode {
		log.Info().
			Str("job", job.Name).
			Str("mode", string(doc.Mode)).
			Int("documents", doc.Parts()).
			Msg("Parse mode detected")
	}

	layer, err := doc.Layer(job.Layer)
	if err != nil {
		return Result{}, eris.Wrapf(err, "job %q", job.Name)
	}

	locs, err := collect(layer, newProgress(job.Name, layer.Len(), progress))
	if err != nil {
		return Result{}, eris.Wrapf(err, "job %q", job.Name)
	}

	payload, err := encode(job, locs)
	if err != nil {
		return Result{}, eris.Wrapf(err, "job %q", job.Name)
	}

	if err := save(job.Output, payload); err != nil {
		return Result{}, eris.Wrapf(err, "job %q", job.Name)
	}

	res := Result{
		Output:    job.Output,
		Mode:      doc.Mode,
		Rows:      len(locs),
		Documents: doc.Parts(),
		Duration:  time.Since(start),
	}

	log.Info().
		Str("job", job.Name).
		Str("output", res.Output).
		Str("format", string(job.Format)).
		Str("mode", string(res.Mode)).
		Int("rows", res.Rows).
		Dur("duration", res.Duration).
		Msg("Locations written")

	return res, nil
}

// readInput loads the whole input into memory.
func readInput(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if path == StdioPath {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, &topology.NotFoundError{Path: path, Err: err}
	}

	return data, nil
}

// collect drains the layer into rows, stopping at the first schema error.
func collect(layer *topology.Layer, bar *progressbar.ProgressBar) ([]geo.Location, error) {
	locs := make([]geo.Location, 0, layer.Len())

	for loc, err := range layer.Locations() {
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)

		if bar != nil {
			if err := bar.Add(1); err != nil {
				log.Trace().Err(err).Msg("Failed to update progress bar")
			}
		}
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			log.Trace().Err(err).Msg("Failed to finish progress bar")
		}
	}

	return locs, nil
}

// newProgress returns nil unless progress is enabled and stderr is a terminal.
func newProgress(name string, total int, enabled bool) *progressbar.ProgressBar {
	if !enabled || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Flattening "+name),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
