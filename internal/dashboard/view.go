package dashboard

import (
	"errors"

	"github.com/chmouel/go-wfc-report/internal/model"
	"github.com/chmouel/go-wfc-report/internal/report"
)

// Header is the report metadata shown at the top of the page.
type Header struct {
	SchemaVersion string `json:"schemaVersion"`
	ToolName      string `json:"toolName"`
	ToolVersion   string `json:"toolVersion"`
	CreationTime  string `json:"creationTime"`
}

// Overview feeds the overview tab cards.
type Overview struct {
	StatusClasses      map[string]int           `json:"statusClasses"`
	TotalEndpoints     int                      `json:"totalEndpoints"`
	OutputHTTPCalls    int                      `json:"outputHttpCalls"`
	EvaluatedHTTPCalls int                      `json:"evaluatedHttpCalls"`
	TotalHTTPCalls     *int                     `json:"totalHttpCalls,omitempty"`
	TotalTests         int                      `json:"totalTests"`
	TestFiles          []report.TestFileSummary `json:"testFiles"`
	ExecutionTime      *report.Duration         `json:"executionTime,omitempty"`
	TotalFaults        int                      `json:"totalFaults"`
	FaultRows          []report.FaultRow        `json:"faultRows"`
}

// FilterCode is one filter button.
type FilterCode struct {
	Key   int    `json:"key"`
	Label string `json:"label"`
	Fault bool   `json:"fault"`
}

// TestCaseView is a pre-rendered test case tab.
type TestCaseView struct {
	Excerpt
	Error string `json:"error,omitempty"`
}

// View is everything the HTML page needs, serialized once into the page.
type View struct {
	Title         string                      `json:"title"`
	Header        Header                      `json:"header"`
	RestSupported bool                        `json:"restSupported"`
	Overview      Overview                    `json:"overview"`
	Endpoints     []model.TransformedEndpoint `json:"endpoints"`
	Filters       []FilterCode                `json:"filters"`
	TestCases     []TestCaseView              `json:"testCases"`
	FaultCatalog  []model.DefinedFault        `json:"faultCatalog"`
	Diagnostics   []Diagnostic                `json:"diagnostics"`
}

// View assembles the page data. Excerpts are extracted for every test case
// up front so the static page needs no further computation.
func (s *Session) View(title string) View {
	doc := s.doc
	v := View{
		Title: title,
		Header: Header{
			SchemaVersion: doc.SchemaVersion,
			ToolName:      doc.ToolName,
			ToolVersion:   doc.ToolVersion,
			CreationTime:  doc.CreationTime,
		},
		RestSupported: doc.ProblemDetails.Rest != nil,
		Endpoints:     s.transformed,
		Filters:       []FilterCode{},
		TestCases:     []TestCaseView{},
		FaultCatalog:  s.catalog.All(),
	}

	ov := Overview{
		StatusClasses: s.StatusClasses(),
		TotalTests:    doc.TotalTests,
		TestFiles:     report.TestFileSummaries(doc),
		ExecutionTime: report.ExecutionTime(doc.ExecutionTimeInSeconds),
		TotalFaults:   doc.Faults.TotalNumber,
	}
	if rest := doc.ProblemDetails.Rest; rest != nil {
		ov.TotalEndpoints = len(rest.EndpointIDs)
		ov.OutputHTTPCalls = rest.OutputHTTPCalls
		ov.EvaluatedHTTPCalls = rest.EvaluatedHTTPCalls
		ov.TotalHTTPCalls = rest.TotalHTTPCalls
	}
	ov.FaultRows = report.FaultRows(s.faultCounts, s.catalog, ov.TotalEndpoints)
	v.Overview = ov

	for _, code := range s.InitialFilters().Codes() {
		v.Filters = append(v.Filters, FilterCode{
			Key:   code.Key(),
			Label: code.String(),
			Fault: code.Kind == model.FaultCode,
		})
	}

	for _, tc := range doc.TestCases {
		ex, err := s.Excerpt(tc.ID)
		view := TestCaseView{Excerpt: ex}
		if err != nil && !errors.Is(err, ErrUnknownTestCase) {
			view.Error = err.Error()
		}
		v.TestCases = append(v.TestCases, view)
	}

	// Collected last so line range problems found above are included.
	v.Diagnostics = s.Diagnostics()
	return v
}
