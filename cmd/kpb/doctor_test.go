package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kubepolicy/kpb/internal/config"
	"github.com/kubepolicy/kpb/internal/gitdiff"
)

func healthyRunner() *gitdiff.FakeRunner {
	return &gitdiff.FakeRunner{Responses: map[string]string{
		"git --version": "git version 2.46.0\n",
	}}
}

func TestDoctor_HealthyEnvironment(t *testing.T) {
	cfg := config.Default()

	var buf bytes.Buffer
	result, err := runDoctor(healthyRunner(), cfg, &buf, "table")
	if err != nil {
		t.Fatalf("runDoctor: %v", err)
	}
	if !result.OverallHealthy {
		t.Errorf("expected healthy result: %+v", result)
	}
	out := buf.String()
	for _, want := range []string{"git on PATH: OK", "git version 2.46.0", "patterns compile: OK", "Not found (optional)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q; got:\n%s", want, out)
		}
	}
}

func TestDoctor_GitMissingIsUnhealthy(t *testing.T) {
	runner := &gitdiff.FakeRunner{Failures: map[string]string{
		"git --version": "exec: \"git\": executable file not found in $PATH",
	}}

	var buf bytes.Buffer
	result, err := runDoctor(runner, config.Default(), &buf, "table")
	if err != nil {
		t.Fatalf("runDoctor: %v", err)
	}
	if result.OverallHealthy {
		t.Error("missing git must be unhealthy")
	}
	if !strings.Contains(buf.String(), "git on PATH: FAIL") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestDoctor_BadGlobIsUnhealthy(t *testing.T) {
	cfg := config.Default()
	cfg.ExcludeGlobs = []string{"[unclosed"}

	var buf bytes.Buffer
	result, err := runDoctor(healthyRunner(), cfg, &buf, "table")
	if err != nil {
		t.Fatalf("runDoctor: %v", err)
	}
	if result.OverallHealthy {
		t.Error("uncompilable glob must be unhealthy")
	}
	if result.Globs.Valid {
		t.Error("globs must be reported invalid")
	}
}

func TestDoctor_EventChecks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event.json")
	if err := os.WriteFile(path, []byte(`{"pull_request": {"number": 1}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.EventPath = path
	cfg.GitHubToken = "tok"

	var buf bytes.Buffer
	result, err := runDoctor(healthyRunner(), cfg, &buf, "json")
	if err != nil {
		t.Fatalf("runDoctor: %v", err)
	}
	if !result.Event.Present || !result.Event.PullRequest || !result.Token.Present {
		t.Errorf("result = %+v", result)
	}

	var decoded DoctorResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json output: %v", err)
	}
	if !decoded.OverallHealthy {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestDoctor_UnreadableEventIsUnhealthy(t *testing.T) {
	cfg := config.Default()
	cfg.EventPath = filepath.Join(t.TempDir(), "missing.json")

	var buf bytes.Buffer
	result, err := runDoctor(healthyRunner(), cfg, &buf, "table")
	if err != nil {
		t.Fatalf("runDoctor: %v", err)
	}
	if result.OverallHealthy {
		t.Error("configured but unreadable event payload must be unhealthy")
	}
}
