// Package cli implements the batch command: process local files with a
// preset or config file and write the artifacts to disk.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"image-pipeline/internal/config"
	"image-pipeline/internal/domain"
	"image-pipeline/internal/repository/artifact"
	"image-pipeline/internal/repository/artifact/archive"
	artifact_fs "image-pipeline/internal/repository/artifact/fs"
	minio_repo "image-pipeline/internal/repository/artifact/minio"
	"image-pipeline/internal/repository/preset"
	"image-pipeline/internal/usecase/processor"
	"image-pipeline/internal/usecase/processor/surface"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/wb-go/wbf/zlog"
)

const (
	ExitOK          = 0
	ExitFileFailed  = 1
	ExitUsageError  = 2
	ExitConfigError = 3
)

var errUsage = errors.New("usage error")

type options struct {
	configFile  string
	presetName  string
	presetsFile string
	outDir      string
	zip         bool
	export      bool
	resampler   string
	quiet       bool
	inputs      []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := pflag.NewFlagSet("batch", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configFile, "config", "c", "", "processing config file (yaml or json)")
	fs.StringVarP(&opts.presetName, "preset", "p", "", "preset name or slug")
	fs.StringVar(&opts.presetsFile, "presets-file", "", "extra presets file (yaml or json)")
	fs.StringVarP(&opts.outDir, "out", "o", "processed", "output directory")
	fs.BoolVarP(&opts.zip, "zip", "z", false, "also write "+domain.ArchiveFilename+" into the output directory")
	fs.BoolVar(&opts.export, "export", false, "upload results to the configured object store")
	fs.StringVarP(&opts.resampler, "resampler", "r", surface.ResamplerCatmullRom, "resampling filter: catmullrom, lanczos or lanczos3")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print progress")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: batch [flags] <file|dir>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	opts.inputs = fs.Args()
	if len(opts.inputs) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("%w: no input files", errUsage)
	}
	if opts.configFile != "" && opts.presetName != "" {
		return nil, fmt.Errorf("%w: --config and --preset are mutually exclusive", errUsage)
	}

	return opts, nil
}

// Run executes the command and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, logger *zlog.Zerolog) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsageError
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitConfigError
	}

	resampler, err := surface.NewResampler(opts.resampler)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsageError
	}

	files, skipped, err := collectInputs(opts.inputs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsageError
	}
	for _, s := range skipped {
		logger.Warn().Str("path", s).Msg("Skipping non-image file")
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "no image files found")
		return ExitUsageError
	}

	p := processor.NewImageProcessor(resampler, logger)
	results, err := p.ProcessBatch(ctx, files, cfg, func(pr domain.ProcessingProgress) {
		if !opts.quiet {
			fmt.Fprintf(stderr, "[%3d%%] %d/%d %s\n", pr.Percentage, pr.Current, pr.Total, pr.CurrentFileName)
		}
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitConfigError
	}

	if err := writeArtifacts(ctx, opts, results, stdout, logger); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitConfigError
	}

	printSummary(stdout, results)

	if domain.Summarize(results).Failed > 0 {
		return ExitFileFailed
	}
	return ExitOK
}

func resolveConfig(opts *options) (domain.ProcessingConfig, error) {
	if opts.configFile != "" {
		return preset.LoadConfigFile(opts.configFile)
	}

	if opts.presetName == "" {
		return domain.DefaultConfig(), nil
	}

	presets, err := preset.NewFromFile(opts.presetsFile)
	if err != nil {
		return domain.ProcessingConfig{}, err
	}

	p, err := presets.Find(opts.presetName)
	if err != nil {
		return domain.ProcessingConfig{}, err
	}
	return p.Config, nil
}

func writeArtifacts(ctx context.Context, opts *options, results []domain.ProcessingResult, stdout io.Writer, logger *zlog.Zerolog) error {
	entries := artifact.Entries(results)
	if len(entries) == 0 {
		return nil
	}

	dir, err := artifact_fs.NewDirRepository(opts.outDir)
	if err != nil {
		return err
	}

	if _, err := dir.SaveAll(ctx, entries); err != nil {
		return err
	}

	if opts.zip {
		f, err := dir.Create(domain.ArchiveFilename)
		if err != nil {
			return err
		}
		if err := archive.Write(f, entries); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close archive: %w", err)
		}
	}

	if opts.export {
		appCfg, err := config.MustLoad()
		if err != nil {
			return err
		}

		exporter, err := minio_repo.NewExportRepository(appCfg.Export, appCfg.DefaultRetryStrategy(), logger)
		if err != nil {
			return err
		}

		keys, err := exporter.Export(ctx, uuid.New().String(), entries)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintf(stdout, "exported %s/%s\n", appCfg.Export.Bucket, k)
		}
	}

	return nil
}

func printSummary(w io.Writer, results []domain.ProcessingResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tOUTPUT\tORIGINAL\tFINAL\tSTATUS")

	for _, r := range results {
		if !r.Success {
			fmt.Fprintf(tw, "%s\t-\t%s\t-\tfailed: %s\n", r.Original.Name, kb(r.OriginalSizeKB), r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\tok\n", r.Original.Name, r.Filename, kb(r.OriginalSizeKB), kb(r.FinalSizeKB))
	}
	tw.Flush()

	s := domain.Summarize(results)
	saved := "saved " + kb(s.SavedKB)
	if s.SavedKB < 0 {
		saved = "grew by " + kb(-s.SavedKB)
	}
	fmt.Fprintf(w, "\n%d succeeded, %d failed, %s\n", s.Succeeded, s.Failed, saved)
}

func kb(v float64) string {
	return humanize.IBytes(uint64(v * 1024))
}
