// Package models defines the finding and report value types shared by the
// rule engine, the scan pipeline and the output renderers.
package models

import (
	"time"

	"github.com/kubepolicy/kpb/internal/manifest"
)

// Severity classifies a finding. Only two levels exist: error outranks
// warning, and the ordering drives the exit-status threshold.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rank returns the ordinal weight of the severity (error > warning).
// Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Finding is a single policy violation. The rule engine creates it with the
// logical path only; the scan pipeline resolves Line and Col from the
// document's position index before the finding leaves the engine. Findings
// are pure values and are never mutated after location attachment; their
// order (pod rules, then containers in array order, then rule order) is
// stable and significant for report output.
type Finding struct {
	RuleID   string        `json:"rule_id"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Path     manifest.Path `json:"path"`
	Line     int           `json:"line"`
	Col      int           `json:"col"`
}

// FileReport holds the ordered findings of one scanned file.
type FileReport struct {
	Path     string    `json:"path"`
	Findings []Finding `json:"findings"`
}

// Errors returns the messages of the file's error findings, in order.
func (r FileReport) Errors() []string { return r.messages(SeverityError) }

// Warnings returns the messages of the file's warning findings, in order.
func (r FileReport) Warnings() []string { return r.messages(SeverityWarning) }

func (r FileReport) messages(sev Severity) []string {
	var out []string
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f.Message)
		}
	}
	return out
}

// ScanReport is the top-level output of a scan run, serialisable to JSON.
type ScanReport struct {
	ReportID    string       `json:"report_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Threshold   Severity     `json:"threshold"`
	Summary     Summary      `json:"summary"`
	Files       []FileReport `json:"files"`
}
