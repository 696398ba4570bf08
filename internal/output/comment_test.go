package output

import (
	"strings"
	"testing"

	"github.com/kubepolicy/kpb/internal/models"
)

func TestBuildComment_Layout(t *testing.T) {
	reports := []models.FileReport{
		{Path: "deploy/bad.yaml", Findings: []models.Finding{
			{Severity: models.SeverityError, Message: "hostNetwork is true"},
			{Severity: models.SeverityWarning, Message: "container 'app': missing livenessProbe"},
		}},
		{Path: "deploy/clean.yaml"},
	}
	summary := models.NewSummary()
	summary.FilesScanned = 2
	for _, r := range reports {
		summary = summary.Accumulate(r)
	}

	body := BuildComment(summary, reports)
	lines := strings.Split(body, "\n")

	if lines[0] != "## KubePolicy PR Bot" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "Scanned 2 file(s). Found 1 error(s) and 1 warning(s)." {
		t.Errorf("counts line = %q", lines[2])
	}
	if lines[4] != "- deploy/bad.yaml" {
		t.Errorf("first file bullet = %q", lines[4])
	}
	if lines[5] != "  - E: hostNetwork is true" {
		t.Errorf("error bullet = %q", lines[5])
	}
	if lines[6] != "  - W: container 'app': missing livenessProbe" {
		t.Errorf("warning bullet = %q", lines[6])
	}
	// Clean files still get a bullet, just with no findings under it.
	if lines[7] != "- deploy/clean.yaml" {
		t.Errorf("clean file bullet = %q", lines[7])
	}
	if !strings.Contains(body, "### Suggested YAML patches") {
		t.Error("comment missing remediation section")
	}
}

func TestBuildComment_ErrorsListedBeforeWarningsPerFile(t *testing.T) {
	reports := []models.FileReport{
		{Path: "x.yaml", Findings: []models.Finding{
			{Severity: models.SeverityWarning, Message: "w1"},
			{Severity: models.SeverityError, Message: "e1"},
		}},
	}
	body := BuildComment(models.NewSummary().Accumulate(reports[0]), reports)
	eAt := strings.Index(body, "  - E: e1")
	wAt := strings.Index(body, "  - W: w1")
	if eAt == -1 || wAt == -1 || eAt > wAt {
		t.Errorf("expected errors before warnings; body:\n%s", body)
	}
}

func TestSuggestions_CoverEveryRuleFamily(t *testing.T) {
	s := Suggestions()
	for _, want := range []string{
		"privileged: false",
		"hostNetwork: false",
		"myrepo/myimage:1.2.3",
		"requests:",
		"drop: [\"ALL\"]",
		"readOnly: true",
		"runAsNonRoot: true",
		"readinessProbe:",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("suggestions missing %q", want)
		}
	}
}
