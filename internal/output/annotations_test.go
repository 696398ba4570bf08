package output

import (
	"strings"
	"testing"

	"github.com/kubepolicy/kpb/internal/models"
)

func TestAnnotation_Format(t *testing.T) {
	f := models.Finding{
		RuleID:   "HOST_NAMESPACE",
		Severity: models.SeverityError,
		Message:  "hostNetwork is true",
		Line:     6,
		Col:      16,
	}
	got := Annotation("deploy/pod.yaml", f)
	want := "::error file=deploy/pod.yaml,line=6,col=16::hostNetwork is true"
	if got != want {
		t.Errorf("Annotation = %q; want %q", got, want)
	}
}

func TestAnnotation_ScrubsNewlinesAndClampsPositions(t *testing.T) {
	f := models.Finding{
		Severity: models.SeverityWarning,
		Message:  "line one\nline two",
		Line:     0,
		Col:      -3,
	}
	got := Annotation("a.yaml", f)
	want := "::warning file=a.yaml,line=1,col=1::line one line two"
	if got != want {
		t.Errorf("Annotation = %q; want %q", got, want)
	}
}

func TestWriteAnnotations_ReportOrder(t *testing.T) {
	reports := []models.FileReport{
		{Path: "b.yaml", Findings: []models.Finding{
			{Severity: models.SeverityError, Message: "first", Line: 1, Col: 1},
			{Severity: models.SeverityWarning, Message: "second", Line: 2, Col: 1},
		}},
		{Path: "a.yaml", Findings: []models.Finding{
			{Severity: models.SeverityError, Message: "third", Line: 3, Col: 1},
		}},
	}
	var sb strings.Builder
	WriteAnnotations(&sb, reports)
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 annotation lines; got %d", len(lines))
	}
	// Scan order, not path order.
	if !strings.Contains(lines[0], "file=b.yaml") || !strings.Contains(lines[2], "file=a.yaml") {
		t.Errorf("annotations out of order: %v", lines)
	}
}
