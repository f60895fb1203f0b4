package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chmouel/go-wfc-report/internal/filter"
	"github.com/chmouel/go-wfc-report/internal/model"
)

const reportJSON = `{
  "schemaVersion": "0.1.0",
  "toolName": "EvoMaster",
  "toolVersion": "3.4.0",
  "creationTime": "2025-05-01T10:00:00Z",
  "totalTests": 1,
  "testFilePaths": ["A_Test.java"],
  "faults": {
    "totalNumber": 3,
    "foundFaults": [
      {"operationId": "A", "testCaseId": "t1", "faultCategories": [{"code": 100}]}
    ]
  },
  "problemDetails": {
    "rest": {
      "outputHttpCalls": 2,
      "evaluatedHttpCalls": 5,
      "endpointIds": ["A", "B"],
      "coveredHttpStatus": [
        {"endpointId": "A", "testCaseId": "t1", "httpStatus": [500]},
        {"endpointId": "B", "testCaseId": "t1", "httpStatus": [200]}
      ]
    }
  },
  "testCases": [
    {"id": "t1", "filePath": "A_Test.java", "startLine": 1, "endLine": 2}
  ]
}`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "report.json"), []byte(reportJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "A_Test.java"), []byte("@Test\nvoid t1() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// run executes the CLI with args and returns the app with its stdout and
// stderr. The browser is never opened.
func run(t *testing.T, args ...string) (*app, string, string, error) {
	t.Helper()
	a := &app{openBrowser: func(string) {}}
	root := a.rootCmd()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return a, stdout.String(), stderr.String(), err
}

func TestParseFilter(t *testing.T) {
	state, err := parseFilter([]string{"200", "F100"}, []string{"H404", "-101"})
	if err != nil {
		t.Fatalf("parseFilter failed: %v", err)
	}
	want := filter.State{
		model.Status(200): filter.Active,
		model.Fault(100):  filter.Active,
		model.Status(404): filter.Removed,
		model.Fault(101):  filter.Removed,
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFilterErrors(t *testing.T) {
	tests := []struct {
		name            string
		active, removed []string
		want            string
	}{
		{"bad code", []string{"abc"}, nil, "invalid --active code"},
		{"both modes", []string{"200"}, []string{"H200"}, "both active and removed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFilter(tt.active, tt.removed)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestGenerateIsDefault(t *testing.T) {
	dir := writeFixture(t)
	out := filepath.Join(dir, "dash.html")

	var opened []string
	a := &app{openBrowser: func(target string) { opened = append(opened, target) }}
	root := a.rootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--report", filepath.Join(dir, "report.json"), "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	html, err := os.ReadFile(out) //nolint:gosec // test output
	if err != nil {
		t.Fatalf("dashboard not written: %v", err)
	}
	if !strings.Contains(string(html), "window.WFC_REPORT") {
		t.Error("dashboard should embed the report data")
	}
	if !strings.Contains(stdout.String(), "Endpoints: 2, faults: 3, test cases: 1") {
		t.Errorf("unexpected output: %s", stdout.String())
	}
	if diff := cmp.Diff([]string{out}, opened); diff != "" {
		t.Errorf("browser calls mismatch:\n%s", diff)
	}
}

func TestGenerateNoOpen(t *testing.T) {
	dir := writeFixture(t)
	out := filepath.Join(dir, "dash.html")

	opened := 0
	a := &app{openBrowser: func(string) { opened++ }}
	root := a.rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"generate", "--report", filepath.Join(dir, "report.json"), "-o", out, "-n"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if opened != 0 {
		t.Error("--no-open should not open a browser")
	}
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := writeFixture(t)
	cfgPath := filepath.Join(dir, "wfc.yaml")
	cfg := "report: report.json\ntitle: From File\nlogLevel: debug\nbadge:\n  thresholds:\n    yellow: 1\n    red: 3\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	a, stdout, _, err := run(t, "summary", "--config", cfgPath, "--title", "From Flag")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if a.cfg.Title != "From Flag" {
		t.Errorf("flag should override the file title, got %q", a.cfg.Title)
	}
	if a.cfg.LogLevel != "debug" {
		t.Errorf("file log level should be kept, got %q", a.cfg.LogLevel)
	}
	if a.cfg.Report != filepath.Join(dir, "report.json") {
		t.Errorf("report should resolve against the config dir, got %q", a.cfg.Report)
	}
	if !strings.Contains(stdout, "From Flag") {
		t.Errorf("summary should use the title:\n%s", stdout)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	dir := writeFixture(t)
	_, _, _, err := run(t, "summary", "--report", filepath.Join(dir, "report.json"), "--log-format", "xml")
	if err == nil || !strings.Contains(err.Error(), "logFormat") {
		t.Errorf("expected a log format error, got %v", err)
	}
}

func TestSummaryCommand(t *testing.T) {
	dir := writeFixture(t)
	_, stdout, _, err := run(t, "summary", "--report", filepath.Join(dir, "report.json"), "--markdown", "--removed", "F100")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	for _, needle := range []string{"# Web Fuzzing Commons Report", "## Endpoints (1 / 2)", "| B"} {
		if !strings.Contains(stdout, needle) {
			t.Errorf("summary should contain %q:\n%s", needle, stdout)
		}
	}
}

func TestSummaryMissingReport(t *testing.T) {
	_, _, _, err := run(t, "summary", "--report", filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "loading report") {
		t.Errorf("expected a load error, got %v", err)
	}
}

func TestBadgeCommand(t *testing.T) {
	dir := writeFixture(t)
	out := filepath.Join(dir, "faults.svg")

	_, stdout, _, err := run(t, "badge", "--report", filepath.Join(dir, "report.json"), "-o", out, "--yellow", "1", "--red", "10")
	if err != nil {
		t.Fatalf("badge failed: %v", err)
	}
	svg, err := os.ReadFile(out) //nolint:gosec // test output
	if err != nil {
		t.Fatalf("badge not written: %v", err)
	}
	if !strings.Contains(string(svg), "faults: 3") || !strings.Contains(string(svg), "#fe7d37") {
		t.Errorf("expected an orange badge for 3 faults:\n%s", svg)
	}
	if !strings.Contains(stdout, "Badge written to") {
		t.Errorf("unexpected output: %s", stdout)
	}
}
