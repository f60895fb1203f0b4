package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chmouel/go-wfc-report/internal/model"
)

// TestFileSummary is one entry of the generated test files card.
type TestFileSummary struct {
	FileName          string `json:"fileName"`
	NumberOfTestCases int    `json:"numberOfTestCases"`
	Color             string `json:"color"`
}

// TestFileSummaries counts the test cases located in each declared test file.
func TestFileSummaries(doc *model.Report) []TestFileSummary {
	if doc == nil {
		return nil
	}
	perFile := map[string]int{}
	for _, tc := range doc.TestCases {
		perFile[tc.FilePath]++
	}
	out := make([]TestFileSummary, 0, len(doc.TestFilePaths))
	for i, path := range doc.TestFilePaths {
		out = append(out, TestFileSummary{
			FileName:          path,
			NumberOfTestCases: perFile[path],
			Color:             FileColor(i, path),
		})
	}
	return out
}

// FileColor picks the colour tag of a test file from its name, falling back
// to a palette indexed by position.
func FileColor(index int, name string) string {
	switch {
	case strings.Contains(name, "fault"):
		return "red"
	case strings.Contains(name, "success"):
		return "green"
	case strings.Contains(name, "other"):
		return "yellow"
	}
	palette := []string{"blue", "green", "red", "yellow", "purple", "pink"}
	return palette[index%len(palette)]
}

// Duration is an execution time split for display.
type Duration struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// ExecutionTime breaks a number of seconds down; nil in, nil out.
func ExecutionTime(seconds *int) *Duration {
	if seconds == nil {
		return nil
	}
	s := *seconds
	return &Duration{
		Days:    s / 86400,
		Hours:   s % 86400 / 3600,
		Minutes: s % 3600 / 60,
		Seconds: s % 60,
	}
}

// FaultRow is a line of the faults table.
type FaultRow struct {
	FaultCount
	Name    string `json:"name"`
	Ratio   string `json:"ratio"`
	Tooltip string `json:"tooltip"`
}

const faultDistributionText = "{operation_count} {endpoint_text} fault code {code}, out of {total_endpoints} endpoints."

// FaultRows decorates fault counts with catalogue names and the affected
// endpoint ratio.
func FaultRows(counts []FaultCount, catalog *model.Catalog, totalEndpoints int) []FaultRow {
	rows := make([]FaultRow, 0, len(counts))
	for _, fc := range counts {
		row := FaultRow{
			FaultCount: fc,
			Ratio:      fmt.Sprintf("%d/%d", fc.OperationCount, totalEndpoints),
		}
		endpointText := "endpoint has"
		if fc.OperationCount > 1 {
			endpointText = "endpoints have"
		}
		row.Tooltip = Expand(faultDistributionText, map[string]any{
			"operation_count": fc.OperationCount,
			"endpoint_text":   endpointText,
			"code":            fc.Code,
			"total_endpoints": totalEndpoints,
		})
		if f, ok := catalog.Lookup(fc.Code); ok {
			row.Name = f.Name
		}
		rows = append(rows, row)
	}
	return rows
}

// TestCaseDetail is what a test case tab shows besides the code excerpt.
type TestCaseDetail struct {
	TestCase    model.TestCase `json:"testCase"`
	StatusCodes []int          `json:"statusCodes"`
	FaultCodes  []int          `json:"faultCodes"`
}

// FindTestCase returns the related codes of the test case with the given id.
func FindTestCase(doc *model.Report, id string) (TestCaseDetail, bool) {
	if doc == nil {
		return TestCaseDetail{}, false
	}
	var detail TestCaseDetail
	found := false
	for _, tc := range doc.TestCases {
		if tc.ID == id {
			detail.TestCase = tc
			found = true
			break
		}
	}
	if !found {
		return TestCaseDetail{}, false
	}

	faults := map[int]struct{}{}
	for _, f := range doc.Faults.FoundFaults {
		if f.TestCaseID != id {
			continue
		}
		for _, cat := range f.FaultCategories {
			faults[cat.Code] = struct{}{}
		}
	}
	statuses := map[int]struct{}{}
	if rest := doc.ProblemDetails.Rest; rest != nil {
		for _, s := range rest.CoveredHTTPStatus {
			if s.TestCaseID != id {
				continue
			}
			for _, code := range s.HTTPStatus {
				statuses[code] = struct{}{}
			}
		}
	}
	detail.StatusCodes = sortedKeys(statuses)
	detail.FaultCodes = sortedKeys(faults)
	return detail, true
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// SortedCodes returns a copy of entries in ascending code order.
func SortedCodes(entries []model.CodeCases) []model.CodeCases {
	out := make([]model.CodeCases, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Expand replaces the first occurrence of each {name} placeholder.
func Expand(text string, params map[string]any) string {
	for name, value := range params {
		text = strings.Replace(text, "{"+name+"}", fmt.Sprint(value), 1)
	}
	return text
}
