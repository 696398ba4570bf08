package output

import (
	"fmt"
	"strings"

	"github.com/kubepolicy/kpb/internal/models"
)

// BuildComment renders the pull-request comment body. Files appear in scan
// order, which is why the ordered reports drive the listing while the
// summary only supplies the headline counts. Every file that was evaluated
// gets a bullet, findings or not; the static remediation section closes the
// comment.
func BuildComment(summary models.Summary, reports []models.FileReport) string {
	var lines []string
	lines = append(lines, "## KubePolicy PR Bot")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Scanned %d file(s). Found %d error(s) and %d warning(s).",
		summary.FilesScanned, summary.ErrorCount, summary.WarningCount))
	lines = append(lines, "")
	for _, report := range reports {
		lines = append(lines, fmt.Sprintf("- %s", report.Path))
		for _, e := range report.Errors() {
			lines = append(lines, fmt.Sprintf("  - E: %s", e))
		}
		for _, w := range report.Warnings() {
			lines = append(lines, fmt.Sprintf("  - W: %s", w))
		}
	}
	lines = append(lines, "")
	lines = append(lines, Suggestions())
	return strings.Join(lines, "\n")
}
