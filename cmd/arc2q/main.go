// Command arc2q converts ArcGIS Pro layer files (.lyrx) and APRX-extracted
// project JSON into QGIS layer definitions (.qlr) and projects (.qgs).
package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/config"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/convert"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/logger"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/mapping"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile   string `short:"C" long:"config"         env:"CONFIG_FILE" description:"YAML batch configuration with conversion jobs"`
	Output       string `short:"o" long:"out"            env:"OUTPUT_DIR" description:"Output directory. Defaults to the input file's directory"`
	MappingTable string `short:"m" long:"mapping-table"  env:"MAPPING_TABLE" description:"YAML symbol mapping table extending the built-in one"`
	ReportFile   string `short:"r" long:"report"         description:"Write the conversion report as JSON to this path"`
	CRS          string `short:"c" long:"crs"            description:"Override every layer CRS with this authority code (e.g. EPSG:4326)"`
	Project      bool   `short:"P" long:"project"        description:"Treat inputs as APRX-extracted project JSON"`
	Workers      int    `short:"w" long:"workers"        description:"Parallel layer conversions per document" default:"0"`
	SkipGroups   bool   `short:"G" long:"skip-groups"    description:"Skip group layers instead of converting their subtree"`
	StopOnError  bool   `short:"e" long:"stop-on-error"  description:"Stop converting further layers after the first failure"`

	Args struct {
		Inputs []string `positional-arg-name:"FILE" description:"Input .lyrx or project .json files"`
	} `positional-args:"true"`
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

	jobs := buildJobs(&opts)
	if len(jobs) == 0 {
		log.Fatal().Msg("No inputs given, pass FILE arguments or a --config with jobs")
	}

	baseOpts := convert.Options{
		StopOnFirstError: opts.StopOnError,
		SkipGroupLayers:  opts.SkipGroups,
		Workers:          opts.Workers,
	}
	if opts.MappingTable != "" {
		tbl, err := mapping.Load(opts.MappingTable)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load mapping table")
		}
		baseOpts.Table = tbl
	}

	total := report.Report{}
	for _, job := range jobs {
		convOpts := baseOpts
		convOpts.ProjectName = strings.TrimSuffix(filepath.Base(job.Input), filepath.Ext(job.Input))
		if job.CRS != "" {
			convOpts.CRSOverride = &model.CoordinateReference{AuthID: job.CRS}
		}

		outDir := job.Output
		if outDir == "" {
			outDir = filepath.Dir(job.Input)
		}

		var rep *report.Report
		var err error
		if job.Project {
			rep, err = convert.ConvertProjectFile(job.Input, outDir, convOpts)
		} else {
			rep, err = convert.ConvertFile(job.Input, outDir, convOpts)
		}
		if err != nil {
			log.Fatal().Err(err).Str("input", job.Input).Msg("Conversion aborted")
		}
		total.Entries = append(total.Entries, rep.Entries...)
	}

	if opts.ReportFile != "" {
		if err := writeReport(opts.ReportFile, &total); err != nil {
			log.Fatal().Err(err).Msg("Failed to write report")
		}
	}

	summary := total.Summary()
	log.Info().
		Int("succeeded", summary.Succeeded).
		Int("partial", summary.Partial).
		Int("failed", summary.Failed).
		Msg("Conversion finished")

	if total.HasFailures() {
		os.Exit(1)
	}
}

// buildJobs merges the batch configuration with command line inputs. Flags
// set on the command line win over run-level config values.
func buildJobs(opts *Options) []config.Job {
	var jobs []config.Job

	if opts.ConfigFile != "" {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		if opts.MappingTable == "" {
			opts.MappingTable = cfg.MappingTable
		}
		if opts.ReportFile == "" {
			opts.ReportFile = cfg.Report
		}
		if opts.Workers <= 0 {
			opts.Workers = cfg.Workers
		}
		if !opts.SkipGroups {
			opts.SkipGroups = cfg.SkipGroups
		}
		if !opts.StopOnError {
			opts.StopOnError = cfg.StopOnError
		}
		if opts.Output == "" {
			opts.Output = cfg.OutputDir
		}
		if opts.CRS == "" {
			opts.CRS = cfg.CRS
		}
		jobs = append(jobs, cfg.Jobs...)
	}

	for _, input := range opts.Args.Inputs {
		jobs = append(jobs, config.Job{
			Input:   input,
			Output:  opts.Output,
			CRS:     opts.CRS,
			Project: opts.Project || strings.EqualFold(filepath.Ext(input), ".json"),
		})
	}
	return jobs
}

func writeReport(path string, rep *report.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
