package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/chmouel/go-wfc-report/internal/dashboard"
	"github.com/chmouel/go-wfc-report/internal/filter"
	"github.com/chmouel/go-wfc-report/internal/model"
	"github.com/chmouel/go-wfc-report/internal/report"
)

// SummaryOptions controls WriteSummary.
type SummaryOptions struct {
	Title  string
	Mode   Mode
	Filter filter.State // applied to the endpoint table; nil keeps everything
}

type section struct {
	title string
	body  string
}

// WriteSummary prints the report header followed by the status class, fault,
// test file and endpoint tables.
func WriteSummary(w io.Writer, s *dashboard.Session, opts SummaryOptions) error {
	doc := s.Report()
	total := 0
	if rest := doc.ProblemDetails.Rest; rest != nil {
		total = len(rest.EndpointIDs)
	}

	endpoints := s.FilterEndpoints(opts.Filter)
	sections := []section{
		{"Status codes", statusTable(s, total, opts.Mode)},
		{"Faults", faultTable(s, total, opts.Mode)},
		{"Test files", testFileTable(s, opts.Mode)},
		{fmt.Sprintf("Endpoints (%s / %s)", Count(len(endpoints)), Count(total)), endpointTable(endpoints, opts.Mode)},
	}

	title := opts.Title
	if title == "" {
		title = "Report summary"
	}

	var b strings.Builder
	writeHeading(&b, opts.Mode, 1, title)
	for _, line := range headerLines(s) {
		if opts.Mode == Markdown {
			b.WriteString("- ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if doc.ProblemDetails.Rest == nil {
		b.WriteString("\nOnly REST results are supported: the report has no REST section.\n")
	}
	for _, sec := range sections {
		b.WriteString("\n")
		writeHeading(&b, opts.Mode, 2, sec.title)
		b.WriteString(sec.body)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeHeading(b *strings.Builder, mode Mode, level int, title string) {
	if mode == Markdown {
		fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), title)
		return
	}
	rule := "-"
	if level == 1 {
		rule = "="
	}
	fmt.Fprintf(b, "%s\n%s\n", title, strings.Repeat(rule, len(title)))
}

func headerLines(s *dashboard.Session) []string {
	doc := s.Report()
	lines := []string{
		fmt.Sprintf("Tool: %s %s", doc.ToolName, doc.ToolVersion),
		fmt.Sprintf("Schema version: %s", doc.SchemaVersion),
		fmt.Sprintf("Created: %s", doc.CreationTime),
		fmt.Sprintf("Generated tests: %s", Count(doc.TotalTests)),
		fmt.Sprintf("Execution time: %s", Duration(report.ExecutionTime(doc.ExecutionTimeInSeconds))),
	}
	if rest := doc.ProblemDetails.Rest; rest != nil {
		lines = append(lines,
			fmt.Sprintf("HTTP calls: %s output, %s evaluated", Count(rest.OutputHTTPCalls), Count(rest.EvaluatedHTTPCalls)))
		if rest.TotalHTTPCalls != nil {
			lines = append(lines, fmt.Sprintf("Total HTTP calls: %s", Count(*rest.TotalHTTPCalls)))
		}
	}
	return lines
}

func statusTable(s *dashboard.Session, total int, mode Mode) string {
	counts := s.StatusClasses()
	t := NewTable(mode)
	t.Header("Class", "Endpoints", "Share")
	for _, class := range report.StatusClasses {
		t.Row(class, Count(counts[class]), fmt.Sprintf("%d/%d", counts[class], total))
	}
	t.AlignRight(2, 3)
	return t.String()
}

func faultTable(s *dashboard.Session, total int, mode Mode) string {
	rows := report.FaultRows(s.FaultCounts(), s.Catalog(), total)
	if len(rows) == 0 {
		return "No faults detected."
	}
	t := NewTable(mode)
	t.Header("Code", "Name", "Count", "Endpoints")
	sum := 0
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = "(unknown)"
		}
		t.Row(faultLabel(r.Code), name, Count(r.Count), r.Ratio)
		sum += r.Count
	}
	t.Footer("", "Total", Count(sum), "")
	t.AlignRight(3, 4)
	return t.String()
}

func testFileTable(s *dashboard.Session, mode Mode) string {
	summaries := report.TestFileSummaries(s.Report())
	if len(summaries) == 0 {
		return "No test files."
	}
	files := s.TestFiles()
	t := NewTable(mode)
	t.Header("File", "Test cases", "Size")
	for _, f := range summaries {
		size := "unavailable"
		if tf, ok := files[f.FileName]; ok {
			size = Size(len(tf.Code))
		}
		t.Row(f.FileName, Count(f.NumberOfTestCases), size)
	}
	t.AlignRight(2, 3)
	return t.String()
}

func endpointTable(endpoints []model.TransformedEndpoint, mode Mode) string {
	if len(endpoints) == 0 {
		return "No endpoints match."
	}
	t := NewTable(mode)
	t.Header("Endpoint", "Status codes", "Faults")
	for _, ep := range endpoints {
		t.Row(ep.Endpoint, Codes(ep.HTTPStatusCodes, statusLabel), Codes(ep.Faults, faultLabel))
	}
	return t.String()
}
