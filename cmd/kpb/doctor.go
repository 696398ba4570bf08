package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kubepolicy/kpb/internal/config"
	"github.com/kubepolicy/kpb/internal/gitdiff"
)

// DoctorResult is the structured output of kpb doctor. It can be serialised
// to JSON via --format=json or rendered as a human-readable table (default).
type DoctorResult struct {
	Git struct {
		OnPath  bool   `json:"on_path"`
		Version string `json:"version,omitempty"`
		Error   string `json:"error,omitempty"`
	} `json:"git"`

	Event struct {
		Present     bool   `json:"present"`
		PullRequest bool   `json:"pull_request"`
		Error       string `json:"error,omitempty"`
	} `json:"event"`

	Token struct {
		Present bool `json:"present"`
	} `json:"token"`

	Globs struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors,omitempty"`
	} `json:"globs"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run environment diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			result, err := runDoctor(gitdiff.GitRunner{}, config.FromEnv(), cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	return cmd
}

// runDoctor collects the diagnostics and renders them to w in the requested
// format. The returned error covers only rendering failures; callers inspect
// result.OverallHealthy for the verdict.
func runDoctor(runner gitdiff.CommandRunner, cfg config.Config, w io.Writer, format string) (DoctorResult, error) {
	result := collectDoctorResult(runner, cfg)

	switch format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}
	return result, nil
}

// collectDoctorResult runs all environment checks. The event payload and
// token are optional; git and compilable globs are required for a healthy
// verdict.
func collectDoctorResult(runner gitdiff.CommandRunner, cfg config.Config) DoctorResult {
	var result DoctorResult

	out, err := runner.RunCommand("git", "--version")
	if err != nil {
		result.Git.Error = err.Error()
	} else {
		result.Git.OnPath = true
		result.Git.Version = strings.TrimSpace(out)
	}

	if cfg.EventPath != "" {
		if data, err := os.ReadFile(cfg.EventPath); err != nil {
			result.Event.Error = err.Error()
		} else {
			result.Event.Present = true
			var payload struct {
				PullRequest *struct{} `json:"pull_request"`
			}
			if err := json.Unmarshal(data, &payload); err != nil {
				result.Event.Error = err.Error()
			} else {
				result.Event.PullRequest = payload.PullRequest != nil
			}
		}
	}

	result.Token.Present = cfg.GitHubToken != ""

	result.Globs.Valid = true
	for _, patterns := range [][]string{cfg.IncludeGlobs, cfg.ExcludeGlobs, cfg.OverrideGlobs} {
		if _, err := config.CompileGlobs(patterns); err != nil {
			result.Globs.Valid = false
			result.Globs.Errors = append(result.Globs.Errors, err.Error())
		}
	}

	result.OverallHealthy = result.Git.OnPath &&
		result.Globs.Valid &&
		result.Event.Error == ""

	return result
}

// renderDoctorTable writes the human-readable diagnostic output to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintln(w, "\nGit:")
	if result.Git.OnPath {
		doctorPrint(w, "git on PATH", "OK", result.Git.Version)
	} else {
		doctorPrint(w, "git on PATH", "FAIL", result.Git.Error)
	}

	fmt.Fprintln(w, "\nEvent:")
	if !result.Event.Present {
		if result.Event.Error != "" {
			doctorPrint(w, "payload readable", "FAIL", result.Event.Error)
		} else {
			doctorPrint(w, "payload present", "Not found (optional)", "")
		}
	} else {
		doctorPrint(w, "payload present", "YES", "")
		if result.Event.PullRequest {
			doctorPrint(w, "pull request", "YES", "")
		} else {
			doctorPrint(w, "pull request", "NO", "comment posting disabled")
		}
	}

	fmt.Fprintln(w, "\nToken:")
	if result.Token.Present {
		doctorPrint(w, "github token", "Present", "")
	} else {
		doctorPrint(w, "github token", "Not set (optional)", "comment body goes to logs")
	}

	fmt.Fprintln(w, "\nGlobs:")
	if result.Globs.Valid {
		doctorPrint(w, "patterns compile", "OK", "")
	} else {
		for _, e := range result.Globs.Errors {
			doctorPrint(w, "patterns compile", "FAIL", e)
		}
	}
}

// doctorPrint writes a single diagnostic check line to w. When detail is
// non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
