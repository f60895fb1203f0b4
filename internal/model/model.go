package model

// Report is the ingested Web Fuzzing Commons report document.
type Report struct {
	SchemaVersion          string         `json:"schemaVersion"`
	ToolName               string         `json:"toolName"`
	ToolVersion            string         `json:"toolVersion"`
	CreationTime           string         `json:"creationTime"`
	Faults                 Faults         `json:"faults"`
	ProblemDetails         ProblemDetails `json:"problemDetails"`
	TotalTests             int            `json:"totalTests"`
	TestFilePaths          []string       `json:"testFilePaths"`
	TestCases              []TestCase     `json:"testCases"`
	ExecutionTimeInSeconds *int           `json:"executionTimeInSeconds,omitempty"`
}

// Faults groups the faults detected during the fuzzing session.
type Faults struct {
	TotalNumber int          `json:"totalNumber"`
	FoundFaults []FoundFault `json:"foundFaults"`
}

// FoundFault is a single fault record raised by a test case.
type FoundFault struct {
	OperationID     *string         `json:"operationId,omitempty"` // nil when the fault is not tied to an endpoint
	TestCaseID      string          `json:"testCaseId"`
	FaultCategories []FaultCategory `json:"faultCategories"`
}

// FaultCategory classifies a fault.
type FaultCategory struct {
	Code    int     `json:"code"`
	Context *string `json:"context,omitempty"`
}

// ProblemDetails holds the problem-type specific sections. Only REST is supported.
type ProblemDetails struct {
	Rest *RESTReport `json:"rest,omitempty"`
}

// RESTReport describes the REST endpoints exercised.
type RESTReport struct {
	OutputHTTPCalls    int                 `json:"outputHttpCalls"`
	EvaluatedHTTPCalls int                 `json:"evaluatedHttpCalls"`
	TotalHTTPCalls     *int                `json:"totalHttpCalls,omitempty"`
	EndpointIDs        []string            `json:"endpointIds"`
	CoveredHTTPStatus  []CoveredHTTPStatus `json:"coveredHttpStatus"`
}

// CoveredHTTPStatus records status codes returned to a test case on an endpoint.
type CoveredHTTPStatus struct {
	EndpointID string `json:"endpointId"`
	TestCaseID string `json:"testCaseId"`
	HTTPStatus []int  `json:"httpStatus"`
}

// TestCase is a single generated test tied to a source file and line range.
type TestCase struct {
	ID        string `json:"id"`
	FilePath  string `json:"filePath"`
	StartLine *int   `json:"startLine,omitempty"` // 1-based, optional
	EndLine   *int   `json:"endLine,omitempty"`   // 1-based, optional
}

// CodeCases associates a status or fault code with the test cases that produced it.
type CodeCases struct {
	Code      int      `json:"code"`
	TestCases []string `json:"testCases"` // insertion order, no duplicates
}

// TransformedEndpoint is the per-endpoint breakdown derived from a Report.
type TransformedEndpoint struct {
	Endpoint        string      `json:"endpoint"`
	HTTPStatusCodes []CodeCases `json:"httpStatusCodes"`
	Faults          []CodeCases `json:"faults"`
}

// TestFile is the source text of a generated test file.
type TestFile struct {
	Path     string `json:"path"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }
