package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, patterns ...string) GlobSet {
	t.Helper()
	set, err := CompileGlobs(patterns)
	require.NoError(t, err)
	return set
}

func TestGlobSet_StarCrossesDirectories(t *testing.T) {
	// Patterns compile without a separator, so the default include pattern
	// matches nested files the same way fnmatch-style globbing does.
	set := mustCompile(t, "**/*.yaml")
	assert.True(t, set.Match("deploy/prod/api.yaml"))
	// The literal slash in the pattern still has to be present.
	assert.False(t, set.Match("a.yaml"))

	star := mustCompile(t, "*.yaml")
	assert.True(t, star.Match("deploy/api.yaml"))
}

func TestGlobSet_EmptyMatchesNothing(t *testing.T) {
	var set GlobSet
	assert.True(t, set.Empty())
	assert.False(t, set.Match("a.yaml"))
}

func TestGlobSet_NormalisesSeparators(t *testing.T) {
	set := mustCompile(t, "deploy/*.yaml")
	assert.True(t, set.Match(filepath.Join("deploy", "api.yaml")))
}

func TestCompileGlobs_BadPattern(t *testing.T) {
	_, err := CompileGlobs([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestIsManifestPath(t *testing.T) {
	assert.True(t, IsManifestPath("a.yaml"))
	assert.True(t, IsManifestPath("a.yml"))
	assert.True(t, IsManifestPath("A.YAML"))
	assert.False(t, IsManifestPath("a.json"))
	assert.False(t, IsManifestPath("yaml"))
}

func TestFilterCandidates(t *testing.T) {
	include := mustCompile(t, "**/*.yml", "**/*.yaml")
	exclude := mustCompile(t, "vendor/*")

	got := FilterCandidates([]string{
		"deploy/api.yaml",
		"README.md",
		"vendor/chart.yaml",
		"ops/svc.yml",
	}, include, exclude)

	assert.Equal(t, []string{"deploy/api.yaml", "ops/svc.yml"}, got)
}

func TestFilterCandidates_EmptyIncludeKeepsAllManifests(t *testing.T) {
	got := FilterCandidates([]string{"a.yaml", "b.txt"}, GlobSet{}, GlobSet{})
	assert.Equal(t, []string{"a.yaml"}, got)
}

func TestExpandOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "deploy"), 0o755))
	for _, name := range []string{"deploy/api.yaml", "deploy/notes.txt", "top.yml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("kind: Pod\n"), 0o644))
	}

	got, err := ExpandOverrides(dir, []string{"deploy/*"}, GlobSet{})
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy/api.yaml"}, got)

	got, err = ExpandOverrides(dir, []string{"**"}, mustCompile(t, "deploy/*"))
	require.NoError(t, err)
	assert.Equal(t, []string{"top.yml"}, got)
}

func TestExpandOverrides_NoPatterns(t *testing.T) {
	got, err := ExpandOverrides(t.TempDir(), nil, GlobSet{})
	require.NoError(t, err)
	assert.Nil(t, got)
}
