package generator

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/chmouel/go-wfc-report/internal/dashboard"
)

//go:embed assets/*
var assets embed.FS

type templateData struct {
	Title    string
	CSS      template.CSS
	JS       template.JS
	DataJSON template.JS
	Config   template.JS
}

// Options configures the HTML dashboard generation.
type Options struct {
	// APIMode makes the page ask the server to filter endpoints instead of
	// filtering locally.
	APIMode bool
}

// Generate renders the dashboard and writes it to outputPath, or to stdout
// when outputPath is empty or "-".
func Generate(view dashboard.View, outputPath string, opts Options) error {
	var buf bytes.Buffer
	if err := Render(&buf, view, opts); err != nil {
		return err
	}

	if outputPath == "" || outputPath == "-" {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil { //nolint:gosec // G306: HTML report should be readable
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// Render writes the self-contained dashboard page to w.
func Render(w io.Writer, view dashboard.View, opts Options) error {
	cssBytes, err := assets.ReadFile("assets/style.css")
	if err != nil {
		return fmt.Errorf("reading CSS: %w", err)
	}

	jsBytes, err := assets.ReadFile("assets/app.js")
	if err != nil {
		return fmt.Errorf("reading JS: %w", err)
	}

	htmlBytes, err := assets.ReadFile("assets/template.html")
	if err != nil {
		return fmt.Errorf("reading HTML template: %w", err)
	}

	dataJSON, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshaling report view: %w", err)
	}

	config := map[string]any{
		"apiMode": opts.APIMode,
	}
	configJSON, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	tmpl, err := template.New("dashboard").Parse(string(htmlBytes))
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	title := view.Title
	if title == "" {
		title = "Web Fuzzing Commons Report"
	}

	// json.Marshal escapes <, > and & so the payload cannot close the script tag.
	//nolint:gosec // G203: CSS/JS are from embedded assets, JSON is marshaled from our data
	td := templateData{
		Title:    title,
		CSS:      template.CSS(cssBytes),
		JS:       template.JS(jsBytes),
		DataJSON: template.JS(dataJSON),
		Config:   template.JS(configJSON),
	}

	if err := tmpl.Execute(w, td); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}
