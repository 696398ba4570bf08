package gitdiff

import (
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kubepolicy/kpb/internal/github"
)

// Options control change discovery.
type Options struct {
	// Root is the repository root the fallback walk starts from. Empty
	// means the current directory.
	Root string

	// NoFallbackAll disables the repo-wide walk when no diff can be
	// produced, yielding an empty candidate set instead.
	NoFallbackAll bool
}

// Detector discovers changed files through a CommandRunner.
type Detector struct {
	runner CommandRunner
	log    *zap.SugaredLogger
	opts   Options
}

// NewDetector wires a Detector.
func NewDetector(runner CommandRunner, log *zap.SugaredLogger, opts Options) *Detector {
	if opts.Root == "" {
		opts.Root = "."
	}
	return &Detector{runner: runner, log: log, opts: opts}
}

// ChangedFiles returns the paths touched by the triggering change.
//
// Pull requests try, in order: a shallow fetch of the base ref followed by
// `git diff origin/<base>...HEAD`, then a diff against the merge-base of the
// base SHA and HEAD, then the repo-wide walk (unless disabled). Other events
// diff HEAD^...HEAD and fall back to the walk.
func (d *Detector) ChangedFiles(ev github.Event) ([]string, error) {
	if ev.IsPullRequest() {
		return d.pullRequestFiles(ev)
	}

	out, err := d.runner.RunCommand("git", "diff", "--name-only", "HEAD^...HEAD")
	if err == nil && strings.TrimSpace(out) != "" {
		return splitLines(out), nil
	}
	if err != nil {
		d.log.Debugw("commit diff failed, walking repository", "error", err)
	}
	return d.walkAll()
}

func (d *Detector) pullRequestFiles(ev github.Event) ([]string, error) {
	baseRef := ev.PullRequest.Base.Ref

	if _, err := d.runner.RunCommand("git", "fetch", "origin", baseRef, "--depth", "1"); err != nil {
		d.log.Debugw("fetch of base ref failed, trying without fetch", "base", baseRef, "error", err)
	}

	out, err := d.runner.RunCommand("git", "diff", "--name-only", "origin/"+baseRef+"...HEAD")
	if err == nil && strings.TrimSpace(out) != "" {
		return splitLines(out), nil
	}

	// The remote ref may be absent in a shallow checkout; diff against the
	// merge-base of the recorded base SHA instead.
	baseSHA := ev.PullRequest.Base.SHA
	if mb, err := d.runner.RunCommand("git", "merge-base", baseSHA, "HEAD"); err == nil {
		mb = strings.TrimSpace(mb)
		out, err := d.runner.RunCommand("git", "diff", "--name-only", mb+"...HEAD")
		if err == nil && strings.TrimSpace(out) != "" {
			return splitLines(out), nil
		}
	}

	if d.opts.NoFallbackAll {
		d.log.Debugw("diff failed and repo-wide fallback disabled")
		return nil, nil
	}
	d.log.Debugw("diff failed, falling back to all repository files")
	return d.walkAll()
}

// walkAll lists every regular file under the root, skipping the .git
// directory. Paths are returned relative to the root with forward slashes,
// matching git diff output.
func (d *Detector) walkAll() ([]string, error) {
	var out []string
	err := filepath.WalkDir(d.opts.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, rerr := filepath.Rel(d.opts.Root, path)
		if rerr != nil {
			rel = path
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func splitLines(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			files = append(files, l)
		}
	}
	return files
}
