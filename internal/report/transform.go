// Package report derives per-endpoint breakdowns and summary statistics from
// a Web Fuzzing Commons report.
package report

import (
	"log/slog"

	"github.com/chmouel/go-wfc-report/internal/logging"
	"github.com/chmouel/go-wfc-report/internal/model"
)

// AnomalyKind names a non-fatal inconsistency found while transforming.
type AnomalyKind string

const (
	UnknownFaultEndpoint  AnomalyKind = "unknown_fault_endpoint"
	UnknownStatusEndpoint AnomalyKind = "unknown_status_endpoint"
)

// Anomaly is an observation that references an endpoint missing from endpointIds.
type Anomaly struct {
	Kind       AnomalyKind `json:"kind"`
	EndpointID string      `json:"endpointId"`
	TestCaseID string      `json:"testCaseId"`
}

// Diagnostics receives anomalies; it must not stop the transformation.
type Diagnostics interface {
	Report(Anomaly)
}

// LogDiagnostics writes anomalies to a logger at warn level.
type LogDiagnostics struct {
	Logger *slog.Logger
}

// Report implements Diagnostics.
func (d LogDiagnostics) Report(a Anomaly) {
	l := d.Logger
	if l == nil {
		l = logging.New("report")
	}
	l.Warn("endpoint not found in endpointIds",
		"kind", a.Kind, "endpoint", a.EndpointID, "test_case", a.TestCaseID)
}

// Collector keeps every anomaly and forwards it to Next when set.
type Collector struct {
	Anomalies []Anomaly
	Next      Diagnostics
}

// Report implements Diagnostics.
func (c *Collector) Report(a Anomaly) {
	c.Anomalies = append(c.Anomalies, a)
	if c.Next != nil {
		c.Next.Report(a)
	}
}

// Transform builds one TransformedEndpoint per declared endpoint, in
// declaration order. Anomalies go to the default logger.
func Transform(doc *model.Report) []model.TransformedEndpoint {
	return TransformWith(doc, LogDiagnostics{})
}

// TransformWith is Transform with an explicit diagnostics sink.
func TransformWith(doc *model.Report, diag Diagnostics) []model.TransformedEndpoint {
	if doc == nil || doc.ProblemDetails.Rest == nil {
		return []model.TransformedEndpoint{}
	}
	if diag == nil {
		diag = LogDiagnostics{}
	}
	rest := doc.ProblemDetails.Rest

	out := make([]model.TransformedEndpoint, len(rest.EndpointIDs))
	index := make(map[string]int, len(rest.EndpointIDs))
	for i, id := range rest.EndpointIDs {
		out[i] = model.TransformedEndpoint{
			Endpoint:        id,
			HTTPStatusCodes: []model.CodeCases{},
			Faults:          []model.CodeCases{},
		}
		index[id] = i
	}

	for _, fault := range doc.Faults.FoundFaults {
		if fault.OperationID == nil {
			continue
		}
		i, ok := index[*fault.OperationID]
		if !ok {
			diag.Report(Anomaly{Kind: UnknownFaultEndpoint, EndpointID: *fault.OperationID, TestCaseID: fault.TestCaseID})
			continue
		}
		for _, cat := range fault.FaultCategories {
			out[i].Faults = addCase(out[i].Faults, cat.Code, fault.TestCaseID)
		}
	}

	for _, status := range rest.CoveredHTTPStatus {
		i, ok := index[status.EndpointID]
		if !ok {
			diag.Report(Anomaly{Kind: UnknownStatusEndpoint, EndpointID: status.EndpointID, TestCaseID: status.TestCaseID})
			continue
		}
		for _, code := range status.HTTPStatus {
			out[i].HTTPStatusCodes = addCase(out[i].HTTPStatusCodes, code, status.TestCaseID)
		}
	}

	return out
}

// addCase finds or creates the entry for code and appends testCase once.
func addCase(entries []model.CodeCases, code int, testCase string) []model.CodeCases {
	for i := range entries {
		if entries[i].Code != code {
			continue
		}
		for _, tc := range entries[i].TestCases {
			if tc == testCase {
				return entries
			}
		}
		entries[i].TestCases = append(entries[i].TestCases, testCase)
		return entries
	}
	return append(entries, model.CodeCases{Code: code, TestCases: []string{testCase}})
}
