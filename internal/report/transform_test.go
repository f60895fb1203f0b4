package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chmouel/go-wfc-report/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		SchemaVersion: "0.1.0",
		ToolName:      "EvoMaster",
		ToolVersion:   "3.4.0",
		Faults: model.Faults{
			TotalNumber: 4,
			FoundFaults: []model.FoundFault{
				{OperationID: model.StringPtr("GET:/api/users"), TestCaseID: "t1", FaultCategories: []model.FaultCategory{{Code: 100}}},
				{OperationID: model.StringPtr("GET:/api/users"), TestCaseID: "t2", FaultCategories: []model.FaultCategory{{Code: 100}, {Code: 101}}},
				{OperationID: model.StringPtr("GET:/api/missing"), TestCaseID: "t3", FaultCategories: []model.FaultCategory{{Code: 100}}},
				{OperationID: nil, TestCaseID: "t4", FaultCategories: []model.FaultCategory{{Code: 102}}},
			},
		},
		ProblemDetails: model.ProblemDetails{Rest: &model.RESTReport{
			OutputHTTPCalls:    40,
			EvaluatedHTTPCalls: 120,
			EndpointIDs:        []string{"GET:/api/users", "POST:/api/users", "DELETE:/api/users/{id}"},
			CoveredHTTPStatus: []model.CoveredHTTPStatus{
				{EndpointID: "GET:/api/users", TestCaseID: "t1", HTTPStatus: []int{500}},
				{EndpointID: "GET:/api/users", TestCaseID: "t5", HTTPStatus: []int{200}},
				{EndpointID: "GET:/api/users", TestCaseID: "t5", HTTPStatus: []int{200}},
				{EndpointID: "POST:/api/users", TestCaseID: "t6", HTTPStatus: []int{201, 400}},
				{EndpointID: "PUT:/api/nowhere", TestCaseID: "t7", HTTPStatus: []int{200}},
			},
		}},
	}
}

func TestTransform(t *testing.T) {
	var diag Collector
	got := TransformWith(sampleReport(), &diag)

	want := []model.TransformedEndpoint{
		{
			Endpoint: "GET:/api/users",
			HTTPStatusCodes: []model.CodeCases{
				{Code: 500, TestCases: []string{"t1"}},
				{Code: 200, TestCases: []string{"t5"}},
			},
			Faults: []model.CodeCases{
				{Code: 100, TestCases: []string{"t1", "t2"}},
				{Code: 101, TestCases: []string{"t2"}},
			},
		},
		{
			Endpoint: "POST:/api/users",
			HTTPStatusCodes: []model.CodeCases{
				{Code: 201, TestCases: []string{"t6"}},
				{Code: 400, TestCases: []string{"t6"}},
			},
			Faults: []model.CodeCases{},
		},
		{
			Endpoint:        "DELETE:/api/users/{id}",
			HTTPStatusCodes: []model.CodeCases{},
			Faults:          []model.CodeCases{},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transform mismatch (-want +got):\n%s", diff)
	}

	wantAnomalies := []Anomaly{
		{Kind: UnknownFaultEndpoint, EndpointID: "GET:/api/missing", TestCaseID: "t3"},
		{Kind: UnknownStatusEndpoint, EndpointID: "PUT:/api/nowhere", TestCaseID: "t7"},
	}
	if diff := cmp.Diff(wantAnomalies, diag.Anomalies); diff != "" {
		t.Errorf("anomalies mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformDeterministic(t *testing.T) {
	doc := sampleReport()
	first := TransformWith(doc, &Collector{})
	second := TransformWith(doc, &Collector{})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Transform is not deterministic:\n%s", diff)
	}
}

func TestTransformCompleteness(t *testing.T) {
	doc := sampleReport()
	got := TransformWith(doc, &Collector{})

	if len(got) != len(doc.ProblemDetails.Rest.EndpointIDs) {
		t.Fatalf("expected %d endpoints, got %d", len(doc.ProblemDetails.Rest.EndpointIDs), len(got))
	}
	for i, id := range doc.ProblemDetails.Rest.EndpointIDs {
		if got[i].Endpoint != id {
			t.Errorf("endpoint %d = %s, want %s", i, got[i].Endpoint, id)
		}
	}
}

func TestTransformDedupTestCases(t *testing.T) {
	doc := &model.Report{
		Faults: model.Faults{FoundFaults: []model.FoundFault{
			{OperationID: model.StringPtr("A"), TestCaseID: "t1", FaultCategories: []model.FaultCategory{{Code: 100}, {Code: 100, Context: model.StringPtr("x")}}},
			{OperationID: model.StringPtr("A"), TestCaseID: "t1", FaultCategories: []model.FaultCategory{{Code: 100}}},
		}},
		ProblemDetails: model.ProblemDetails{Rest: &model.RESTReport{
			EndpointIDs: []string{"A"},
			CoveredHTTPStatus: []model.CoveredHTTPStatus{
				{EndpointID: "A", TestCaseID: "t1", HTTPStatus: []int{200, 200}},
				{EndpointID: "A", TestCaseID: "t1", HTTPStatus: []int{200}},
			},
		}},
	}

	got := TransformWith(doc, &Collector{})
	if diff := cmp.Diff([]string{"t1"}, got[0].HTTPStatusCodes[0].TestCases); diff != "" {
		t.Errorf("status test cases not deduplicated:\n%s", diff)
	}
	if len(got[0].Faults) != 1 {
		t.Fatalf("expected a single fault entry per code, got %d", len(got[0].Faults))
	}
	if diff := cmp.Diff([]string{"t1"}, got[0].Faults[0].TestCases); diff != "" {
		t.Errorf("fault test cases not deduplicated:\n%s", diff)
	}
}

func TestTransformWithoutRestSection(t *testing.T) {
	doc := sampleReport()
	doc.ProblemDetails.Rest = nil

	got := TransformWith(doc, &Collector{})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", got)
	}
	if got := Transform(nil); len(got) != 0 {
		t.Errorf("expected empty result for nil report, got %#v", got)
	}
}

func TestCollectorForwards(t *testing.T) {
	var inner Collector
	outer := Collector{Next: &inner}
	outer.Report(Anomaly{Kind: UnknownStatusEndpoint, EndpointID: "x"})

	if len(outer.Anomalies) != 1 || len(inner.Anomalies) != 1 {
		t.Errorf("expected anomaly recorded in both collectors, got %d and %d", len(outer.Anomalies), len(inner.Anomalies))
	}
}
