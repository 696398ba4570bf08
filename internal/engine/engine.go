// Package engine runs the scan pipeline: read a manifest file, parse it into
// position-indexed documents, resolve each document's pod spec, evaluate the
// rule set and attach source locations to the findings. The engine owns no
// policy of its own; rules decide what to flag and the position index decides
// where to point.
package engine

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kubepolicy/kpb/internal/manifest"
	"github.com/kubepolicy/kpb/internal/models"
	"github.com/kubepolicy/kpb/internal/podspec"
	"github.com/kubepolicy/kpb/internal/rules"
)

// IOError reports an unreadable candidate file. Like a parse failure it is
// recoverable: the file is logged, skipped and still counted as scanned.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read manifest %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ReadFileFunc abstracts file reads for tests. Production code uses
// os.ReadFile.
type ReadFileFunc func(path string) ([]byte, error)

// Scanner evaluates manifest files against a rule registry.
type Scanner struct {
	registry *rules.Registry
	log      *zap.SugaredLogger
	readFile ReadFileFunc
}

// Option customises a Scanner.
type Option func(*Scanner)

// WithRegistry replaces the default rule registry.
func WithRegistry(r *rules.Registry) Option {
	return func(s *Scanner) { s.registry = r }
}

// WithReadFile replaces the file reader. Intended for tests.
func WithReadFile(fn ReadFileFunc) Option {
	return func(s *Scanner) { s.readFile = fn }
}

// New returns a Scanner with the built-in rule set.
func New(log *zap.SugaredLogger, opts ...Option) *Scanner {
	s := &Scanner{
		registry: rules.Default(),
		log:      log,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanBytes evaluates manifest text and returns the findings in evaluation
// order. Documents without a resolvable pod spec contribute nothing. Parse
// failures return a *manifest.ParseError and no findings.
func (s *Scanner) ScanBytes(data []byte) ([]models.Finding, error) {
	docs, err := manifest.Parse(data)
	if err != nil {
		return nil, err
	}

	var findings []models.Finding
	for _, doc := range docs {
		resolved, ok := podspec.Resolve(doc.Root)
		if !ok {
			continue
		}
		pod := rules.NewPodContext(resolved.Spec, resolved.Path)
		for _, f := range s.registry.EvaluateAll(pod) {
			pos := doc.Positions.Lookup(f.Path)
			f.Line, f.Col = pos.Line, pos.Col
			findings = append(findings, f)
		}
	}
	return findings, nil
}

// ScanFile reads and evaluates one manifest file.
func (s *Scanner) ScanFile(path string) (models.FileReport, error) {
	data, err := s.readFile(path)
	if err != nil {
		return models.FileReport{}, &IOError{Path: path, Err: err}
	}
	findings, err := s.ScanBytes(data)
	if err != nil {
		return models.FileReport{}, err
	}
	return models.FileReport{Path: path, Findings: findings}, nil
}

// Run scans every candidate path in order and folds the results into a
// summary. Unreadable or malformed files are logged and skipped; they still
// count towards files_scanned but get no per-file entry and produce no
// findings. The returned reports keep the candidate order, one entry per
// successfully evaluated file.
func (s *Scanner) Run(paths []string) ([]models.FileReport, models.Summary) {
	summary := models.NewSummary()
	summary.FilesScanned = len(paths)

	var reports []models.FileReport
	for _, path := range paths {
		report, err := s.ScanFile(path)
		if err != nil {
			s.log.Warnw("skipping file", "path", path, "error", err)
			continue
		}
		summary = summary.Accumulate(report)
		reports = append(reports, report)
	}
	return reports, summary
}
