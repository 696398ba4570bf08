package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// GlobSet is a compiled list of glob patterns. Patterns are compiled without
// a separator, so `*` and `**` both cross directory boundaries; the default
// include pattern relies on that to match files at any depth.
type GlobSet struct {
	globs []glob.Glob
}

// CompileGlobs compiles patterns into a GlobSet. An empty pattern list
// compiles to an empty set, which matches nothing.
func CompileGlobs(patterns []string) (GlobSet, error) {
	var set GlobSet
	for _, pat := range patterns {
		g, err := glob.Compile(pat)
		if err != nil {
			return GlobSet{}, err
		}
		set.globs = append(set.globs, g)
	}
	return set, nil
}

// Empty reports whether the set has no patterns.
func (s GlobSet) Empty() bool { return len(s.globs) == 0 }

// Match reports whether path matches any pattern in the set. Paths are
// normalised to forward slashes first.
func (s GlobSet) Match(path string) bool {
	p := filepath.ToSlash(path)
	for _, g := range s.globs {
		if g.Match(p) {
			return true
		}
	}
	return false
}

// IsManifestPath reports whether path has a YAML extension, compared
// case-insensitively.
func IsManifestPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

// FilterCandidates applies the candidate filter to paths in order: keep YAML
// files that match the include set (when non-empty) and do not match the
// exclude set.
func FilterCandidates(paths []string, include, exclude GlobSet) []string {
	var out []string
	for _, path := range paths {
		if !IsManifestPath(path) {
			continue
		}
		if !include.Empty() && !include.Match(path) {
			continue
		}
		if exclude.Match(path) {
			continue
		}
		out = append(out, path)
	}
	return out
}

// ExpandOverrides walks root and returns the files matching the override
// patterns, in walk order. The exclude set still applies; the include set
// does not, overrides are explicit.
func ExpandOverrides(root string, patterns []string, exclude GlobSet) ([]string, error) {
	override, err := CompileGlobs(patterns)
	if err != nil {
		return nil, err
	}
	if override.Empty() {
		return nil, nil
	}

	var out []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			rel = path
		}
		if !override.Match(rel) {
			return nil
		}
		if !IsManifestPath(rel) || exclude.Match(rel) {
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
