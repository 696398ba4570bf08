package models

// FileFindings is the per-file message breakdown carried in the summary
// document. Messages are plain strings without positions, in finding order.
type FileFindings struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Summary is the cross-file accumulator for one run. It matches the JSON
// summary document consumed by downstream tooling: files_scanned counts
// every candidate (including files skipped for read or parse failures),
// while per_file only carries files that were actually evaluated.
type Summary struct {
	FilesScanned int                     `json:"files_scanned"`
	ErrorCount   int                     `json:"error_count"`
	WarningCount int                     `json:"warning_count"`
	PerFile      map[string]FileFindings `json:"per_file"`
}

// NewSummary returns an empty accumulator.
func NewSummary() Summary {
	return Summary{PerFile: make(map[string]FileFindings)}
}

// Accumulate folds one file's report into the summary and returns the
// updated value. The summary is threaded through file processing as an
// explicit value rather than mutated global state, so a future parallel
// scan only has to merge per-file results in a stable order.
func (s Summary) Accumulate(report FileReport) Summary {
	errs := report.Errors()
	warns := report.Warnings()
	s.ErrorCount += len(errs)
	s.WarningCount += len(warns)
	if s.PerFile == nil {
		s.PerFile = make(map[string]FileFindings)
	}
	s.PerFile[report.Path] = FileFindings{Errors: errs, Warnings: warns}
	return s
}
