package gitdiff

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kubepolicy/kpb/internal/github"
)

func prEvent() github.Event {
	return github.Event{
		PullRequest: &github.PullRequest{
			Number: 1,
			Base:   github.Ref{Ref: "main", SHA: "base123"},
			Head:   github.Ref{SHA: "head456"},
		},
		Repository: github.Repository{FullName: "acme/widgets"},
	}
}

func newDetector(runner CommandRunner, opts Options) *Detector {
	return NewDetector(runner, zap.NewNop().Sugar(), opts)
}

func TestChangedFiles_PRBaseRefDiff(t *testing.T) {
	runner := &FakeRunner{Responses: map[string]string{
		"git fetch origin main --depth 1":          "",
		"git diff --name-only origin/main...HEAD":  "deploy/api.yaml\nREADME.md\n",
	}}
	files, err := newDetector(runner, Options{}).ChangedFiles(prEvent())
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	want := []string{"deploy/api.yaml", "README.md"}
	if len(files) != 2 || files[0] != want[0] || files[1] != want[1] {
		t.Errorf("files = %v; want %v", files, want)
	}
}

func TestChangedFiles_PRFetchFailureStillDiffs(t *testing.T) {
	runner := &FakeRunner{
		Responses: map[string]string{
			"git diff --name-only origin/main...HEAD": "a.yaml\n",
		},
		Failures: map[string]string{
			"git fetch origin main --depth 1": "could not resolve host",
		},
	}
	files, err := newDetector(runner, Options{}).ChangedFiles(prEvent())
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "a.yaml" {
		t.Errorf("files = %v", files)
	}
}

func TestChangedFiles_PRMergeBaseFallback(t *testing.T) {
	runner := &FakeRunner{
		Responses: map[string]string{
			"git fetch origin main --depth 1":       "",
			"git merge-base base123 HEAD":           "mb789\n",
			"git diff --name-only mb789...HEAD":     "b.yaml\n",
		},
		Failures: map[string]string{
			"git diff --name-only origin/main...HEAD": "unknown revision",
		},
	}
	files, err := newDetector(runner, Options{}).ChangedFiles(prEvent())
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "b.yaml" {
		t.Errorf("files = %v", files)
	}
}

func TestChangedFiles_PRWalkFallback(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, dir, "deploy/api.yaml")
	mustWrite(t, dir, ".git/config")
	mustWrite(t, dir, "notes.txt")

	runner := &FakeRunner{Failures: map[string]string{
		"git fetch origin main --depth 1":         "no network",
		"git diff --name-only origin/main...HEAD": "fail",
		"git merge-base base123 HEAD":             "fail",
	}}
	files, err := newDetector(runner, Options{Root: dir}).ChangedFiles(prEvent())
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v; want 2 entries with .git skipped", files)
	}
	for _, f := range files {
		if f == ".git/config" {
			t.Error("walk must skip .git")
		}
	}
}

func TestChangedFiles_PRNoFallbackAll(t *testing.T) {
	runner := &FakeRunner{Failures: map[string]string{
		"git fetch origin main --depth 1":         "fail",
		"git diff --name-only origin/main...HEAD": "fail",
		"git merge-base base123 HEAD":             "fail",
	}}
	files, err := newDetector(runner, Options{NoFallbackAll: true}).ChangedFiles(prEvent())
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v; want empty set", files)
	}
}

func TestChangedFiles_NonPRUsesLastCommit(t *testing.T) {
	runner := &FakeRunner{Responses: map[string]string{
		"git diff --name-only HEAD^...HEAD": "c.yaml\n",
	}}
	files, err := newDetector(runner, Options{}).ChangedFiles(github.Event{})
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "c.yaml" {
		t.Errorf("files = %v", files)
	}
}

func TestChangedFiles_NonPRWalkFallback(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, dir, "svc.yaml")

	runner := &FakeRunner{Failures: map[string]string{
		"git diff --name-only HEAD^...HEAD": "shallow clone",
	}}
	files, err := newDetector(runner, Options{Root: dir}).ChangedFiles(github.Event{})
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "svc.yaml" {
		t.Errorf("files = %v", files)
	}
}

func mustWrite(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}
