// Package config resolves the bot's settings from its three sources, in
// increasing precedence: built-in defaults, an optional kpb.yaml file and
// the environment. The INPUT_* names follow the action-input convention;
// the KPB_* names are local overrides for running outside CI.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	sigsyaml "sigs.k8s.io/yaml"
)

// Environment variable names.
const (
	EnvIncludeGlob       = "INPUT_INCLUDE_GLOB"
	EnvExcludeGlob       = "INPUT_EXCLUDE_GLOB"
	EnvSeverityThreshold = "INPUT_SEVERITY_THRESHOLD"
	EnvPostPRComment     = "INPUT_POST_PR_COMMENT"
	EnvGitHubToken       = "INPUT_GITHUB_TOKEN"
	EnvJSONOutput        = "KPB_JSON_OUTPUT"
	EnvFileGlobs         = "KPB_FILE_GLOBS"
	EnvNoFallbackAll     = "KPB_NO_FALLBACK_ALL"
	EnvDebug             = "KPB_DEBUG"
	EnvEventPath         = "GITHUB_EVENT_PATH"
	EnvEventName         = "GITHUB_EVENT_NAME"
)

// DefaultIncludeGlob matches every YAML file in the repository.
const DefaultIncludeGlob = "**/*.yml,**/*.yaml"

// Config carries every setting of one run.
type Config struct {
	// IncludeGlobs filters candidate files; a file must match at least one.
	IncludeGlobs []string

	// ExcludeGlobs removes files from the candidate set; a match wins over
	// any include.
	ExcludeGlobs []string

	// OverrideGlobs, when set, bypasses change detection entirely and scans
	// the files matching these patterns on disk.
	OverrideGlobs []string

	// SeverityThreshold is the raw configured threshold ("error"/"warning").
	SeverityThreshold string

	// PostPRComment enables posting the summary comment on pull requests.
	PostPRComment bool

	// GitHubToken authenticates the comment post. Empty disables posting and
	// dumps the comment body to the log instead.
	GitHubToken string

	// JSONOutputPath, when set, is where the JSON summary document is written.
	JSONOutputPath string

	// NoFallbackAll disables the repo-wide scan fallback when change
	// detection fails.
	NoFallbackAll bool

	// Debug enables debug logging.
	Debug bool

	// EventPath and EventName describe the triggering CI event.
	EventPath string
	EventName string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		IncludeGlobs:      SplitPatterns(DefaultIncludeGlob),
		SeverityThreshold: "error",
		PostPRComment:     true,
	}
}

// fileConfig is the kpb.yaml schema. All fields are optional; absent fields
// keep their current value. Pointer fields distinguish "absent" from zero.
type fileConfig struct {
	IncludeGlob       *string `json:"include_glob,omitempty"`
	ExcludeGlob       *string `json:"exclude_glob,omitempty"`
	SeverityThreshold *string `json:"severity_threshold,omitempty"`
	PostPRComment     *bool   `json:"post_pr_comment,omitempty"`
	JSONOutput        *string `json:"json_output,omitempty"`
}

// Load resolves the configuration: defaults, then the config file at path
// (a missing file is fine, any other read or parse failure is an error),
// then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// no file, defaults stand
		case err != nil:
			return Config{}, err
		default:
			var fc fileConfig
			if err := sigsyaml.Unmarshal(data, &fc); err != nil {
				return Config{}, err
			}
			cfg.applyFile(fc)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv resolves the configuration from defaults and environment only.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyFile(fc fileConfig) {
	if fc.IncludeGlob != nil {
		c.IncludeGlobs = SplitPatterns(*fc.IncludeGlob)
	}
	if fc.ExcludeGlob != nil {
		c.ExcludeGlobs = SplitPatterns(*fc.ExcludeGlob)
	}
	if fc.SeverityThreshold != nil {
		c.SeverityThreshold = strings.ToLower(strings.TrimSpace(*fc.SeverityThreshold))
	}
	if fc.PostPRComment != nil {
		c.PostPRComment = *fc.PostPRComment
	}
	if fc.JSONOutput != nil {
		c.JSONOutputPath = strings.TrimSpace(*fc.JSONOutput)
	}
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvIncludeGlob); ok && strings.TrimSpace(v) != "" {
		c.IncludeGlobs = SplitPatterns(v)
	}
	if v, ok := os.LookupEnv(EnvExcludeGlob); ok {
		c.ExcludeGlobs = SplitPatterns(v)
	}
	if v, ok := os.LookupEnv(EnvSeverityThreshold); ok && strings.TrimSpace(v) != "" {
		c.SeverityThreshold = strings.ToLower(strings.TrimSpace(v))
	}
	c.PostPRComment = EnvBool(EnvPostPRComment, c.PostPRComment)
	if v, ok := os.LookupEnv(EnvGitHubToken); ok {
		c.GitHubToken = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvJSONOutput); ok {
		c.JSONOutputPath = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvFileGlobs); ok {
		c.OverrideGlobs = SplitPatterns(v)
	}
	c.NoFallbackAll = EnvBool(EnvNoFallbackAll, c.NoFallbackAll)
	c.Debug = EnvBool(EnvDebug, c.Debug)
	c.EventPath = os.Getenv(EnvEventPath)
	c.EventName = os.Getenv(EnvEventName)
}

// SplitPatterns parses a comma-separated pattern list, trimming whitespace
// and dropping empty entries.
func SplitPatterns(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EnvBool parses a boolean environment variable. Unset or empty keeps the
// default; otherwise "1", "true", "yes" and "on" (case-insensitive) are true
// and everything else is false.
func EnvBool(name string, def bool) bool {
	val := os.Getenv(name)
	if val == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
