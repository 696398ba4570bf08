package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kubepolicy/kpb/internal/config"
	"github.com/kubepolicy/kpb/internal/engine"
	"github.com/kubepolicy/kpb/internal/logging"
	"github.com/kubepolicy/kpb/internal/models"
	"github.com/kubepolicy/kpb/internal/output"
	"github.com/kubepolicy/kpb/internal/policy"
)

type scanOptions struct {
	paths      []string
	exclude    string
	threshold  string
	reportFmt  string
	outputPath string
	configPath string
	colored    bool
	debug      bool
}

func newScanCmd() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:           "scan [path|glob ...]",
		Short:         "Scan manifest files or directories locally",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.paths = args
			failed, err := runScan(cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}
			if failed {
				// Exit directly so no error text reaches main's stderr path.
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.exclude, "exclude", "", "Comma-separated glob patterns to exclude")
	cmd.Flags().StringVar(&opts.threshold, "threshold", "", `Failure threshold: "error" or "warning" (default from config)`)
	cmd.Flags().StringVar(&opts.reportFmt, "report", "table", `Output format: "table" or "json"`)
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "Write the full JSON report to this file path")
	cmd.Flags().StringVar(&opts.configPath, "config", "kpb.yaml", "Path to the config file")
	cmd.Flags().BoolVar(&opts.colored, "color", false, "Colorize severity in the table output")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	return cmd
}

// runScan resolves the requested paths, scans them and renders the report to
// w. The returned bool reports whether the findings fail the threshold.
func runScan(w io.Writer, opts scanOptions) (bool, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return false, fmt.Errorf("load config: %w", err)
	}
	if opts.threshold != "" {
		cfg.SeverityThreshold = opts.threshold
	}
	if opts.exclude != "" {
		cfg.ExcludeGlobs = config.SplitPatterns(opts.exclude)
	}

	log, err := logging.New(opts.debug || cfg.Debug)
	if err != nil {
		return false, err
	}
	defer log.Sync()

	exclude, err := config.CompileGlobs(cfg.ExcludeGlobs)
	if err != nil {
		return false, fmt.Errorf("compile exclude globs: %w", err)
	}

	candidates, err := resolveScanPaths(opts.paths, exclude)
	if err != nil {
		return false, err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No matching YAML files to scan.")
		return false, nil
	}

	scanner := engine.New(log)
	reports, summary := scanner.Run(candidates)
	threshold := policy.ParseThreshold(cfg.SeverityThreshold)

	report := models.ScanReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Threshold:   threshold,
		Summary:     summary,
		Files:       reports,
	}

	if opts.outputPath != "" {
		if err := writeReportFile(opts.outputPath, report); err != nil {
			return false, err
		}
	}

	switch opts.reportFmt {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return false, err
		}
	default:
		output.RenderTable(w, reports, output.TableOptions{Colored: opts.colored})
		fmt.Fprintf(w, "\nScanned %d file(s). Found %d error(s) and %d warning(s).\n",
			summary.FilesScanned, summary.ErrorCount, summary.WarningCount)
	}

	return policy.Evaluate(threshold, summary), nil
}

// resolveScanPaths turns CLI arguments into candidate files. A file argument
// is taken as-is when it has a YAML extension; a directory is walked; other
// arguments are treated as glob patterns against the working directory.
func resolveScanPaths(args []string, exclude config.GlobSet) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	add := func(path string) {
		path = filepath.ToSlash(path)
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			walkErr := filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if entry.IsDir() {
					if entry.Name() == ".git" {
						return filepath.SkipDir
					}
					return nil
				}
				p := filepath.ToSlash(path)
				if config.IsManifestPath(p) && !exclude.Match(p) {
					add(path)
				}
				return nil
			})
			if walkErr != nil {
				return nil, walkErr
			}

		case err == nil:
			if config.IsManifestPath(arg) && !exclude.Match(arg) {
				add(arg)
			}

		default:
			matches, gerr := config.ExpandOverrides(".", []string{arg}, exclude)
			if gerr != nil {
				return nil, fmt.Errorf("resolve %q: %w", arg, gerr)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}
	return out, nil
}

// writeReportFile serialises report as indented JSON and writes it to path,
// creating or overwriting the file.
func writeReportFile(path string, report models.ScanReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return nil
}
