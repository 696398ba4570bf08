// Package output renders scan results for their three consumers: CI log
// annotations, the pull-request comment body and the terminal table.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/kubepolicy/kpb/internal/models"
)

// Annotation formats one finding as a workflow-command annotation:
//
//	::<severity> file=<path>,line=<line>,col=<col>::<message>
//
// Newlines in the message would terminate the command early, so they are
// replaced with spaces. Line and column are clamped to a minimum of 1.
func Annotation(file string, f models.Finding) string {
	line, col := f.Line, f.Col
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	msg := strings.ReplaceAll(f.Message, "\n", " ")
	return fmt.Sprintf("::%s file=%s,line=%d,col=%d::%s", f.Severity, file, line, col, msg)
}

// WriteAnnotations emits one annotation per finding, in report order.
func WriteAnnotations(w io.Writer, reports []models.FileReport) {
	for _, report := range reports {
		for _, f := range report.Findings {
			fmt.Fprintln(w, Annotation(report.Path, f))
		}
	}
}
