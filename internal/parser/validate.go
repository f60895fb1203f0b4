package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Issue codes.
const (
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeInvalidValue = "invalid_value"
)

// Issue is a single structural violation in a report document.
type Issue struct {
	Path     string `json:"path"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
}

// ValidationError lists every violation found in a report document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid report"
	}
	first := e.Issues[0]
	if len(e.Issues) == 1 {
		return fmt.Sprintf("invalid report: %s: %s", first.Path, first.Message)
	}
	return fmt.Sprintf("invalid report: %s: %s (and %d more issues)", first.Path, first.Message, len(e.Issues)-1)
}

var printer = message.NewPrinter(language.English)

func joinPath(path []string) string {
	if len(path) == 0 {
		return "root"
	}
	return strings.Join(path, ".")
}

func child(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

func typeName(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return "integer"
		}
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// lookup returns the value at loc in a decoded document.
func lookup(doc any, loc []string) any {
	for _, seg := range loc {
		switch x := doc.(type) {
		case map[string]any:
			doc = x[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(x) {
				return nil
			}
			doc = x[i]
		default:
			return nil
		}
	}
	return doc
}

type located struct {
	loc   []string
	issue Issue
}

// issueCollector turns schema validation causes into issues.
type issueCollector struct {
	doc    any
	issues []located
}

func (c *issueCollector) add(loc []string, code, msg, expected, received string) {
	c.issues = append(c.issues, located{loc: loc, issue: Issue{
		Path:     joinPath(loc),
		Code:     code,
		Message:  msg,
		Expected: expected,
		Received: received,
	}})
}

func (c *issueCollector) walk(e *jsonschema.ValidationError) {
	if len(e.Causes) > 0 {
		for _, cause := range e.Causes {
			c.walk(cause)
		}
		return
	}

	loc := e.InstanceLocation
	node := reportSchema.at(loc)
	val := lookup(c.doc, loc)

	switch e.ErrorKind.(type) {
	case *kind.Type:
		expected, received := node.expected(), typeName(val)
		c.add(loc, CodeInvalidType, fmt.Sprintf("Expected %s, received %s", expected, received), expected, received)
	case *kind.Required:
		obj, _ := val.(map[string]any)
		for _, p := range node.properties {
			if _, ok := obj[p.name]; p.required && !ok {
				c.add(child(loc, p.name), CodeRequired, "Required", "", "undefined")
			}
		}
	case *kind.Minimum:
		var floor int64
		if node != nil && node.minimum != nil {
			floor = *node.minimum
		}
		c.add(loc, CodeInvalidValue, fmt.Sprintf("Number must be greater than or equal to %d", floor), fmt.Sprintf(">= %d", floor), fmt.Sprint(val))
	case *kind.UniqueItems:
		items, _ := val.([]any)
		seen := map[string]struct{}{}
		for i, item := range items {
			key := fmt.Sprintf("%T:%v", item, item)
			if _, dup := seen[key]; dup {
				received := fmt.Sprint(item)
				c.add(child(loc, strconv.Itoa(i)), CodeInvalidValue, fmt.Sprintf("Duplicate value %q", received), "unique value", received)
				continue
			}
			seen[key] = struct{}{}
		}
	default:
		c.add(loc, CodeInvalidValue, e.ErrorKind.LocalizedString(printer), "", "")
	}
}

// check validates a decoded report document against the report schema and
// returns every violation in document order.
func check(doc any) ([]Issue, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	err = sch.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validating report: %w", err)
	}

	c := &issueCollector{doc: doc}
	c.walk(ve)
	slices.SortStableFunc(c.issues, func(a, b located) int { return reportSchema.compare(a.loc, b.loc) })

	issues := make([]Issue, len(c.issues))
	for i, l := range c.issues {
		issues[i] = l.issue
	}
	return issues, nil
}
