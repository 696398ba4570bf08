package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/kubepolicy/kpb/internal/models"
)

// ANSI color codes for severity output (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[0;33m"
)

// TableOptions controls how RenderTable renders findings.
type TableOptions struct {
	// Colored wraps severity labels with ANSI codes. Default false (CI-safe).
	Colored bool
}

// ShortenMessage truncates msg to at most max runes, appending "..." when
// truncated. max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// truncateField shortens s to at most max bytes for path/ID columns.
// A single-char ellipsis replaces the last byte when truncation occurs.
func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// severityCell returns the severity padded to width characters. When colored,
// ANSI codes wrap only the text; trailing padding spaces are plain so
// subsequent columns stay visually aligned regardless of terminal ANSI
// support.
func severityCell(sev models.Severity, width int, colored bool) string {
	text := string(sev)
	if !colored {
		return fmt.Sprintf("%-*s", width, text)
	}
	var code string
	switch sev {
	case models.SeverityError:
		code = ansiRed
	case models.SeverityWarning:
		code = ansiYellow
	default:
		return fmt.Sprintf("%-*s", width, text)
	}
	spaces := width - len(text)
	if spaces < 0 {
		spaces = 0
	}
	return code + text + ansiReset + strings.Repeat(" ", spaces)
}

// RenderTable writes a formatted findings table to w, one row per finding in
// report order.
//
// Column order:
//
//	FILE  LOCATION  SEVERITY  RULE  MESSAGE
func RenderTable(w io.Writer, reports []models.FileReport, opts TableOptions) {
	total := 0
	for _, r := range reports {
		total += len(r.Findings)
	}
	if total == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}

	// Fixed column display widths.
	const (
		wFile     = 40
		wLocation = 9
		wSeverity = 8
		wRule     = 24
		wMessage  = 70
	)

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s",
		wFile, "FILE",
		wLocation, "LOCATION",
		wSeverity, "SEVERITY",
		wRule, "RULE",
		wMessage, "MESSAGE",
	)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, report := range reports {
		for _, f := range report.Findings {
			loc := fmt.Sprintf("%d:%d", f.Line, f.Col)
			var rb strings.Builder
			rb.WriteString(fmt.Sprintf("%-*s", wFile, truncateField(report.Path, wFile)))
			rb.WriteString(fmt.Sprintf("  %-*s", wLocation, loc))
			rb.WriteString("  " + severityCell(f.Severity, wSeverity, opts.Colored))
			rb.WriteString(fmt.Sprintf("  %-*s", wRule, truncateField(f.RuleID, wRule)))
			rb.WriteString(fmt.Sprintf("  %-*s", wMessage, ShortenMessage(f.Message, wMessage)))
			fmt.Fprintln(w, strings.TrimRight(rb.String(), " "))
		}
	}
}
