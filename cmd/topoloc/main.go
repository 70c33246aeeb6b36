package main

import (
	"os"

	"github.com/woozymasta/topoloc/internal/config"
	"github.com/woozymasta/topoloc/internal/logger"
	"github.com/woozymasta/topoloc/internal/processor"
	"github.com/woozymasta/topoloc/internal/topology"

	"github.com/jessevdk/go-flags"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input        string   `short:"i" long:"in"            env:"TOPOLOC_INPUT"  description:"Input topojson file, - for stdin (default: toronto.topojson)"`
	Output       string   `short:"o" long:"out"           env:"TOPOLOC_OUTPUT" description:"Output file, - for stdout (default: preset output)"`
	Layer        string   `short:"k" long:"layer"         env:"TOPOLOC_LAYER"  description:"Topojson object key to read (default: -)"`
	Mode         string   `short:"m" long:"mode"          env:"TOPOLOC_MODE"   description:"Input parse mode" choice:"auto" choice:"single-document" choice:"line-delimited"`
	Format       string   `short:"f" long:"format"        env:"TOPOLOC_FORMAT" description:"Output format" choice:"txt" choice:"geojson" choice:"yaml"`
	Preset       string   `short:"P" long:"preset"        description:"Reproduce a historical conversion" choice:"bgs" choice:"das"`
	ConfigFile   string   `short:"c" long:"config"        env:"CONFIG_FILE"    description:"Path to a YAML job file; runs every job in it"`
	Limit        []string `short:"l" long:"limit"         env:"LIMIT_JOBS"     description:"Limit a config run to specific job names"`
	H3Resolution int      `long:"h3-resolution"           env:"H3_RESOLUTION"  description:"Add H3 cells at this resolution (geojson and yaml only)"`
	Progress     bool     `long:"progress"                description:"Show a progress bar when stderr is a terminal"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if err := run(opts); err != nil {
		log.Fatal().Err(err).Msg("Failed to flatten topology")
	}
}

func run(opts Options) error {
	jobs, err := resolveJobs(opts)
	if err != nil {
		return err
	}

	log.Debug().Int("jobs", len(jobs)).Msg("Starting topoloc")

	for _, job := range jobs {
		if _, err := processor.Flatten(job, opts.Progress); err != nil {
			return err
		}
	}

	return nil
}

// resolveJobs builds the job list from a config file or from single job flags.
func resolveJobs(opts Options) ([]config.Job, error) {
	if opts.ConfigFile != "" {
		if opts.Input != "" || opts.Output != "" || opts.Preset != "" {
			return nil, eris.New("--config cannot be combined with --in, --out or --preset")
		}

		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			return nil, err
		}

		return limitJobs(cfg.Jobs, opts.Limit)
	}

	base := config.DefaultJob()
	if opts.Preset != "" {
		preset, ok := config.Preset(opts.Preset)
		if !ok {
			return nil, eris.Errorf("unknown preset %q, known: %v", opts.Preset, config.PresetNames())
		}
		base = preset
	}

	job := base.Merge(config.Job{
		Input:        opts.Input,
		Output:       opts.Output,
		Layer:        opts.Layer,
		Mode:         topology.ParseMode(opts.Mode),
		Format:       config.Format(opts.Format),
		H3Resolution: opts.H3Resolution,
	})

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return []config.Job{job}, nil
}

// limitJobs keeps the named jobs in the order given; unknown names are logged.
func limitJobs(jobs []config.Job, limit []string) ([]config.Job, error) {
	if len(limit) == 0 {
		return jobs, nil
	}

	available := make(map[string]config.Job, len(jobs))
	for _, j := range jobs {
		available[j.Name] = j
	}

	selected := make([]config.Job, 0, len(limit))
	seen := make(map[string]bool)

	for _, name := range limit {
		if seen[name] {
			continue
		}
		seen[name] = true

		if j, ok := available[name]; ok {
			selected = append(selected, j)
		} else {
			log.Error().
				Str("name", name).
				Msg("Job specified in --limit not found in configuration")
		}
	}

	if len(selected) == 0 {
		return nil, eris.New("no jobs left after --limit")
	}

	return selected, nil
}
