package model

import (
	"encoding/json"
	"testing"
)

func TestReportOptionalFields(t *testing.T) {
	raw := `{
		"schemaVersion": "0.1.0",
		"faults": {"totalNumber": 1, "foundFaults": [
			{"testCaseId": "t1", "faultCategories": [{"code": 100}]}
		]},
		"problemDetails": {},
		"testCases": [{"id": "t1", "filePath": "a.java"}],
		"testFilePaths": ["a.java"]
	}`

	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.ProblemDetails.Rest != nil {
		t.Error("expected nil rest section")
	}
	if r.Faults.FoundFaults[0].OperationID != nil {
		t.Error("expected nil operationId")
	}
	if r.Faults.FoundFaults[0].FaultCategories[0].Context != nil {
		t.Error("expected nil context")
	}
	if r.TestCases[0].StartLine != nil || r.TestCases[0].EndLine != nil {
		t.Error("expected nil line range")
	}
	if r.ExecutionTimeInSeconds != nil {
		t.Error("expected nil execution time")
	}
}

func TestCodeKeyRoundTrip(t *testing.T) {
	tests := []struct {
		code Code
		key  int
		str  string
	}{
		{Status(200), 200, "H200"},
		{Status(0), 0, "H0"},
		{Fault(101), -101, "F101"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.code.Key(); got != tt.key {
				t.Errorf("Key() = %d, want %d", got, tt.key)
			}
			if got := CodeFromKey(tt.key); got != tt.code {
				t.Errorf("CodeFromKey(%d) = %v, want %v", tt.key, got, tt.code)
			}
			if got := tt.code.String(); got != tt.str {
				t.Errorf("String() = %s, want %s", got, tt.str)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in      string
		want    Code
		wantErr bool
	}{
		{in: "404", want: Status(404)},
		{in: "H500", want: Status(500)},
		{in: "F100", want: Fault(100)},
		{in: "f203", want: Fault(203)},
		{in: "-102", want: Fault(102)},
		{in: "F0", wantErr: true},
		{in: "", wantErr: true},
		{in: "Hxyz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog(DefinedFault{Code: 901, Name: "Custom thing"}, DefinedFault{Code: 100, Name: "Overridden"})

	f, ok := c.Lookup(100)
	if !ok || f.Name != "Overridden" {
		t.Errorf("expected overridden 100, got %+v", f)
	}
	if _, ok := c.Lookup(999); ok {
		t.Error("999 should not be defined")
	}
	f, _ = c.Lookup(901)
	if GroupName(f.Group()) != "Custom" {
		t.Errorf("expected Custom group, got %s", GroupName(f.Group()))
	}

	all := c.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Code >= all[i].Code {
			t.Fatalf("All() not sorted at %d: %d >= %d", i, all[i-1].Code, all[i].Code)
		}
	}
	if len(all) != 10 {
		t.Errorf("expected 10 categories, got %d", len(all))
	}
}
