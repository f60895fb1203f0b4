// Package parser loads and validates Web Fuzzing Commons reports and the
// generated test files they reference.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/chmouel/go-wfc-report/internal/model"
)

// LoadError means the report could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("loading report: %v", e.Err)
	}
	return fmt.Sprintf("loading report %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Parse reads the report at path, validates its structure and decodes it.
func Parse(path string) (*model.Report, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the user supplied report
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	doc, err := ParseBytes(data)
	var le *LoadError
	if errors.As(err, &le) {
		le.Path = path
	}
	return doc, err
}

// ParseBytes validates and decodes a report document.
func ParseBytes(data []byte) (*model.Report, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc model.Report
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("decoding report: %w", err)}
	}
	return &doc, nil
}

// Validate checks a report document against the report schema without
// decoding it into the model. It returns a *ValidationError listing every
// violation.
func Validate(data []byte) error {
	raw, err := decodeRaw(data)
	if err != nil {
		return err
	}
	issues, err := check(raw)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func decodeRaw(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &LoadError{Err: fmt.Errorf("decoding report: %w", err)}
	}
	return raw, nil
}
