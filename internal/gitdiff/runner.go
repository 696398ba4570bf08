// Package gitdiff discovers the files a change touches. On pull requests it
// diffs against the base ref; elsewhere against the previous commit. When
// git cannot produce a diff the whole repository is walked instead, unless
// the caller disabled that fallback.
package gitdiff

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	RunCommand(args ...string) (string, error)
}

// GitRunner runs real commands via exec.
type GitRunner struct{}

var _ CommandRunner = GitRunner{}

func (GitRunner) RunCommand(args ...string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("run command: no arguments")
	}
	cmd := exec.Command(args[0], args[1:]...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("%s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// FakeRunner serves canned responses keyed by the space-joined command line.
// Commands without an entry fail. Calls records every command line in order.
type FakeRunner struct {
	Responses map[string]string
	Failures  map[string]string
	Calls     []string
}

var _ CommandRunner = (*FakeRunner)(nil)

func (f *FakeRunner) RunCommand(args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.Calls = append(f.Calls, key)
	if msg, ok := f.Failures[key]; ok {
		return "", errors.New(msg)
	}
	if out, ok := f.Responses[key]; ok {
		return out, nil
	}
	return "", fmt.Errorf("unexpected command: %s", key)
}
