package badge

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

const (
	colorGreen  = "#4c1"
	colorYellow = "#dfb317"
	colorOrange = "#fe7d37"
	colorRed    = "#e05d44"
)

// Thresholds defines the fault counts at which the badge changes colour.
type Thresholds struct {
	Yellow int // Counts from 1 up to Yellow are yellow
	Red    int // Counts from Red on are red; 0 means Yellow+1
}

// DefaultThresholds returns the default color thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Yellow: 5,
		Red:    6,
	}
}

// GenerateBadge creates an SVG badge showing the number of faults and writes it
// to the specified path. If outputPath is "-", the badge is written to stdout.
func GenerateBadge(faults int, outputPath string, thresholds Thresholds) error {
	svg := generateSVG(faults, thresholds)

	if outputPath == "-" {
		if _, err := os.Stdout.WriteString(svg); err != nil {
			return fmt.Errorf("writing badge to stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, []byte(svg), 0o644); err != nil { //nolint:gosec // G306: Badge should be readable
		return fmt.Errorf("writing badge file: %w", err)
	}

	return nil
}

// textWidth approximates the rendered width of s in 11px Verdana.
func textWidth(s string) int {
	return len(s)*7 + 10
}

func generateSVG(faults int, thresholds Thresholds) string {
	faults = max(faults, 0)
	color := getColor(faults, thresholds)

	const title = "faults"
	label := humanize.Comma(int64(faults))

	leftWidth := textWidth(title)
	rightWidth := textWidth(label)
	height := 20
	totalWidth := leftWidth + rightWidth

	// shields.io compatible layout
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" role="img" aria-label="%s: %s">
  <title>%s: %s</title>
  <g shape-rendering="crispEdges">
    <rect width="%d" height="%d" fill="#555"/>
    <rect x="%d" width="%d" height="%d" fill="%s"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" text-rendering="geometricPrecision" font-size="11">
    <text aria-hidden="true" x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%d" y="14">%s</text>
    <text aria-hidden="true" x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%d" y="14">%s</text>
  </g>
</svg>`,
		totalWidth, height, title, label,
		title, label,
		leftWidth, height,
		leftWidth, rightWidth, height, color,
		leftWidth/2, title,
		leftWidth/2, title,
		leftWidth+rightWidth/2, label,
		leftWidth+rightWidth/2, label,
	)
}

// getColor returns the SVG color code for a fault count.
func getColor(faults int, thresholds Thresholds) string {
	red := thresholds.Red
	if red == 0 {
		red = thresholds.Yellow + 1
	}
	switch {
	case faults == 0:
		return colorGreen
	case faults <= thresholds.Yellow:
		return colorYellow
	case faults >= red:
		return colorRed
	default:
		return colorOrange
	}
}
