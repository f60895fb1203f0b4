// Package dashboard holds a loaded report together with everything derived
// from it, and is the only thing the HTML page and HTTP API read from.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/chmouel/go-wfc-report/internal/excerpt"
	"github.com/chmouel/go-wfc-report/internal/filter"
	"github.com/chmouel/go-wfc-report/internal/logging"
	"github.com/chmouel/go-wfc-report/internal/model"
	"github.com/chmouel/go-wfc-report/internal/parser"
	"github.com/chmouel/go-wfc-report/internal/report"
)

var (
	// ErrUnknownTestCase is returned by Excerpt for an id missing from testCases.
	ErrUnknownTestCase = errors.New("unknown test case")
	// ErrFileUnavailable is returned by Excerpt when the test file is not loaded.
	ErrFileUnavailable = errors.New("test file not available")
)

// Diagnostic kinds.
const (
	KindUnknownFaultEndpoint  = string(report.UnknownFaultEndpoint)
	KindUnknownStatusEndpoint = string(report.UnknownStatusEndpoint)
	KindTestFile              = "test_file"
	KindLineRange             = "line_range"
)

// Diagnostic is a non-fatal problem met while building the dashboard.
type Diagnostic struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	EndpointID string `json:"endpointId,omitempty"`
	TestCaseID string `json:"testCaseId,omitempty"`
	Path       string `json:"path,omitempty"`
}

// Options configures Load.
type Options struct {
	ReportPath string
	// Root is the directory testFilePaths are relative to; defaults to the
	// report's directory.
	Root     string
	Catalog  *model.Catalog
	Parallel int
	// Async returns as soon as the report is ready and lets test files
	// arrive in the background; Ready is closed once they are all in.
	Async  bool
	Logger *slog.Logger
}

// Session is a loaded report. It is safe for concurrent use.
type Session struct {
	logger  *slog.Logger
	catalog *model.Catalog

	doc           *model.Report
	transformed   []model.TransformedEndpoint
	statusClasses map[string]int
	faultCounts   []report.FaultCount

	mu          sync.RWMutex
	filtered    []model.TransformedEndpoint
	files       *parser.TestFiles
	diagnostics []Diagnostic // transform anomalies
	rangeDiags  []Diagnostic
	rangeSeen   map[string]struct{}
	closed      bool

	cancel context.CancelFunc
	ready  chan struct{}
}

// Load parses and validates the report, derives the endpoint breakdown and
// aggregates, then loads the generated test files. Only report load and
// validation failures are returned; everything else ends up in Diagnostics.
func Load(ctx context.Context, opts Options) (*Session, error) {
	doc, err := parser.Parse(opts.ReportPath)
	if err != nil {
		return nil, err
	}
	root := opts.Root
	if root == "" {
		root = filepath.Dir(opts.ReportPath)
	}
	return newSession(ctx, doc, root, opts), nil
}

// FromReport builds a session around an already decoded report.
func FromReport(ctx context.Context, doc *model.Report, opts Options) *Session {
	return newSession(ctx, doc, opts.Root, opts)
}

func newSession(ctx context.Context, doc *model.Report, root string, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("dashboard")
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = model.NewCatalog()
	}

	s := &Session{
		logger:    logger,
		catalog:   catalog,
		doc:       doc,
		files:     parser.NewTestFiles(),
		rangeSeen: map[string]struct{}{},
		ready:     make(chan struct{}),
	}

	diag := &report.Collector{Next: report.LogDiagnostics{Logger: logger}}
	s.transformed = report.TransformWith(doc, diag)
	s.filtered = s.transformed
	for _, a := range diag.Anomalies {
		s.diagnostics = append(s.diagnostics, Diagnostic{
			Kind:       string(a.Kind),
			Message:    "endpoint not found in endpointIds",
			EndpointID: a.EndpointID,
			TestCaseID: a.TestCaseID,
		})
	}

	if rest := doc.ProblemDetails.Rest; rest != nil {
		s.statusClasses = report.StatusClassCounts(rest.CoveredHTTPStatus, rest.EndpointIDs)
	} else {
		s.statusClasses = report.StatusClassCounts(nil, nil)
	}
	s.faultCounts = report.FaultCounts(doc.Faults.FoundFaults)

	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	load := func() {
		defer close(s.ready)
		if err := parser.LoadTestFiles(loadCtx, root, doc.TestFilePaths, opts.Parallel, s); err != nil {
			logger.Debug("test file loading stopped", "error", err)
		}
	}
	if opts.Async {
		go load()
	} else {
		load()
	}
	return s
}

// AddFile implements parser.FileSink. Files arriving after Close are dropped.
func (s *Session) AddFile(f model.TestFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.files.AddFile(f)
}

// FileFailed implements parser.FileSink.
func (s *Session) FileFailed(err *parser.FileError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.logger.Warn("could not load test file", "path", err.Path, "error", err.Err)
	s.files.FileFailed(err)
}

// Ready is closed once every test file has been loaded or has failed.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Close stops background loading. Late results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Report returns the decoded report document.
func (s *Session) Report() *model.Report { return s.doc }

// Catalog returns the fault catalogue in use.
func (s *Session) Catalog() *model.Catalog { return s.catalog }

// Transformed returns the full endpoint breakdown in endpointIds order.
func (s *Session) Transformed() []model.TransformedEndpoint { return s.transformed }

// Filtered returns the result of the last FilterEndpoints call, or every
// endpoint when none was made.
func (s *Session) Filtered() []model.TransformedEndpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtered
}

// FilterEndpoints applies state to the full breakdown, remembers the result
// as the current filtered view and returns it.
func (s *Session) FilterEndpoints(state filter.State) []model.TransformedEndpoint {
	out := filter.Apply(s.transformed, state)
	s.mu.Lock()
	s.filtered = out
	s.mu.Unlock()
	return out
}

// InitialFilters returns the all-inactive filter state for this report.
func (s *Session) InitialFilters() filter.State { return filter.Initial(s.transformed) }

// StatusClasses returns the per-class endpoint counts.
func (s *Session) StatusClasses() map[string]int {
	out := make(map[string]int, len(s.statusClasses))
	for k, v := range s.statusClasses {
		out[k] = v
	}
	return out
}

// FaultCounts returns the per-code fault statistics.
func (s *Session) FaultCounts() []report.FaultCount { return s.faultCounts }

// TestFiles returns the loaded test files keyed by path.
func (s *Session) TestFiles() map[string]model.TestFile {
	files := s.files.Files()
	out := make(map[string]model.TestFile, len(files))
	for _, f := range files {
		out[f.Path] = f
	}
	return out
}

// Diagnostics returns every non-fatal problem recorded so far: transform
// anomalies, then test file failures by path, then line range errors in the
// order they were met.
func (s *Session) Diagnostics() []Diagnostic {
	fileErrs := s.files.Errors()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Diagnostic, 0, len(s.diagnostics)+len(fileErrs)+len(s.rangeDiags))
	out = append(out, s.diagnostics...)
	for _, err := range fileErrs {
		out = append(out, Diagnostic{
			Kind:    KindTestFile,
			Message: err.Error(),
			Path:    err.Path,
		})
	}
	return append(out, s.rangeDiags...)
}

// Excerpt is the code viewer content of one test case.
type Excerpt struct {
	TestCaseID  string `json:"testCaseId"`
	FilePath    string `json:"filePath"`
	Language    string `json:"language"`
	StartLine   *int   `json:"startLine,omitempty"`
	EndLine     *int   `json:"endLine,omitempty"`
	Code        string `json:"code"`
	StatusCodes []int  `json:"statusCodes"`
	FaultCodes  []int  `json:"faultCodes"`
}

// Excerpt returns the snippet and related codes of a test case. A line range
// error is recorded once per test case and returned wrapped.
func (s *Session) Excerpt(testCaseID string) (Excerpt, error) {
	detail, ok := report.FindTestCase(s.doc, testCaseID)
	if !ok {
		return Excerpt{}, fmt.Errorf("%w: %s", ErrUnknownTestCase, testCaseID)
	}
	tc := detail.TestCase
	out := Excerpt{
		TestCaseID:  tc.ID,
		FilePath:    tc.FilePath,
		Language:    excerpt.Language(tc.FilePath),
		StartLine:   tc.StartLine,
		EndLine:     tc.EndLine,
		StatusCodes: detail.StatusCodes,
		FaultCodes:  detail.FaultCodes,
	}

	file, loaded := s.files.Get(tc.FilePath)
	if !loaded {
		return out, fmt.Errorf("%w: %s", ErrFileUnavailable, tc.FilePath)
	}

	code, err := excerpt.Extract(file.Code, tc.StartLine, tc.EndLine)
	if err != nil {
		s.recordRangeError(tc, err)
		return out, fmt.Errorf("test case %s: %w", tc.ID, err)
	}
	out.Code = code
	return out, nil
}

func (s *Session) recordRangeError(tc model.TestCase, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.rangeSeen[tc.ID]; seen || s.closed {
		return
	}
	s.rangeSeen[tc.ID] = struct{}{}
	s.logger.Warn("invalid test case line range", "test_case", tc.ID, "path", tc.FilePath, "error", err)
	s.rangeDiags = append(s.rangeDiags, Diagnostic{
		Kind:       KindLineRange,
		Message:    err.Error(),
		TestCaseID: tc.ID,
		Path:       tc.FilePath,
	})
}
