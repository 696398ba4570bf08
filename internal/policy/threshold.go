// Package policy decides whether a scan's findings fail the run. The
// threshold is the only knob: "error" fails on errors alone, "warning" fails
// on errors or warnings.
package policy

import (
	"strings"

	"github.com/kubepolicy/kpb/internal/models"
)

// DefaultThreshold is used when no threshold is configured or the configured
// value is unrecognised.
const DefaultThreshold = models.SeverityError

// ParseThreshold normalises a configured threshold string. Unrecognised or
// empty values fall back to DefaultThreshold so a typo in CI configuration
// tightens enforcement rather than silently disabling it.
func ParseThreshold(raw string) models.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "warning":
		return models.SeverityWarning
	case "error":
		return models.SeverityError
	default:
		return DefaultThreshold
	}
}

// ShouldFail reports whether a run with the given counts fails under the
// threshold. At the "error" threshold only errors fail the run; at "warning"
// any finding does.
func ShouldFail(threshold models.Severity, errorCount, warningCount int) bool {
	if errorCount > 0 {
		return true
	}
	if threshold == models.SeverityWarning && warningCount > 0 {
		return true
	}
	return false
}

// Evaluate applies ShouldFail to an accumulated summary.
func Evaluate(threshold models.Severity, summary models.Summary) bool {
	return ShouldFail(threshold, summary.ErrorCount, summary.WarningCount)
}
