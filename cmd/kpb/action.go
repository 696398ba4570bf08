package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubepolicy/kpb/internal/config"
	"github.com/kubepolicy/kpb/internal/engine"
	"github.com/kubepolicy/kpb/internal/gitdiff"
	"github.com/kubepolicy/kpb/internal/github"
	"github.com/kubepolicy/kpb/internal/logging"
	"github.com/kubepolicy/kpb/internal/output"
	"github.com/kubepolicy/kpb/internal/policy"
)

// commentPoster posts the summary comment. Satisfied by
// *github.CommentClient.
type commentPoster interface {
	PostComment(ev github.Event, body string) error
}

func newActionCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "action",
		Short:         "Run as a CI action: scan changed files, annotate, comment, gate",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()

			log, err := logging.New(cfg.Debug)
			if err != nil {
				return err
			}
			defer log.Sync()

			var poster commentPoster
			if cfg.GitHubToken != "" {
				poster = github.NewCommentClient(cfg.GitHubToken)
			}

			code, err := runAction(cfg, gitdiff.GitRunner{}, poster, cmd.OutOrStdout(), log)
			if err != nil {
				return err
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

// runAction executes the CI flow: discover changed files, filter them to
// manifest candidates, scan, emit annotations to stdout, write the optional
// JSON summary, post or print the PR comment and decide the exit code from
// the threshold. Only setup failures return an error; findings are reported
// through the exit code.
func runAction(cfg config.Config, runner gitdiff.CommandRunner, poster commentPoster, stdout io.Writer, log *zap.SugaredLogger) (int, error) {
	ev, err := github.LoadEvent(cfg.EventPath)
	if err != nil {
		return 0, fmt.Errorf("load event payload: %w", err)
	}

	include, err := config.CompileGlobs(cfg.IncludeGlobs)
	if err != nil {
		return 0, fmt.Errorf("compile include globs: %w", err)
	}
	exclude, err := config.CompileGlobs(cfg.ExcludeGlobs)
	if err != nil {
		return 0, fmt.Errorf("compile exclude globs: %w", err)
	}

	var candidates []string
	if len(cfg.OverrideGlobs) > 0 {
		candidates, err = config.ExpandOverrides(".", cfg.OverrideGlobs, exclude)
		if err != nil {
			return 0, fmt.Errorf("expand override globs: %w", err)
		}
		log.Debugw("using override globs", "files", len(candidates))
	} else {
		detector := gitdiff.NewDetector(runner, log, gitdiff.Options{NoFallbackAll: cfg.NoFallbackAll})
		changed, err := detector.ChangedFiles(ev)
		if err != nil {
			return 0, fmt.Errorf("detect changed files: %w", err)
		}
		candidates = config.FilterCandidates(changed, include, exclude)
	}

	if len(candidates) == 0 {
		log.Infow("no matching YAML files to scan")
		return 0, nil
	}

	scanner := engine.New(log)
	reports, summary := scanner.Run(candidates)

	output.WriteAnnotations(stdout, reports)

	if cfg.JSONOutputPath != "" {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("marshal summary: %w", err)
		}
		if err := os.WriteFile(cfg.JSONOutputPath, data, 0o644); err != nil {
			// The summary document is auxiliary output; a write failure must
			// not mask the scan verdict.
			log.Warnw("failed to write JSON summary", "path", cfg.JSONOutputPath, "error", err)
		} else {
			log.Debugw("wrote JSON summary", "path", cfg.JSONOutputPath)
		}
	}

	if cfg.PostPRComment && ev.IsPullRequest() {
		body := output.BuildComment(summary, reports)
		if poster != nil {
			if err := poster.PostComment(ev, body); err != nil {
				log.Warnw("failed to post PR comment", "error", err)
			}
		} else {
			log.Infow("no github token provided, printing comment body")
			fmt.Fprintln(stdout, body)
		}
	}

	threshold := policy.ParseThreshold(cfg.SeverityThreshold)
	if policy.Evaluate(threshold, summary) {
		return 1, nil
	}
	return 0, nil
}
