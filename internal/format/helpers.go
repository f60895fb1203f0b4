package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/chmouel/go-wfc-report/internal/model"
	"github.com/chmouel/go-wfc-report/internal/report"
)

// Count groups the digits of n: 12345 becomes "12,345".
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Size formats a byte count, "1.2 kB".
func Size(n int) string {
	return humanize.Bytes(uint64(max(n, 0)))
}

// Duration formats an execution time as "1d 2h 3m 4s", dropping leading
// zero units. A nil duration renders as "-".
func Duration(d *report.Duration) string {
	if d == nil {
		return "-"
	}
	units := []struct {
		n      int
		suffix string
	}{
		{d.Days, "d"},
		{d.Hours, "h"},
		{d.Minutes, "m"},
		{d.Seconds, "s"},
	}
	var parts []string
	for _, u := range units {
		if u.n == 0 && len(parts) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d%s", u.n, u.suffix))
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}

// Codes lists the codes of entries in ascending order, each rendered with
// label.
func Codes(entries []model.CodeCases, label func(int) string) string {
	sorted := report.SortedCodes(entries)
	out := make([]string, len(sorted))
	for i, e := range sorted {
		out[i] = label(e.Code)
	}
	return strings.Join(out, ", ")
}

func statusLabel(code int) string { return model.Status(code).String() }

func faultLabel(code int) string { return model.Fault(code).String() }
