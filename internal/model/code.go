package model

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeKind tells the status and fault code spaces apart.
type CodeKind int

const (
	StatusCode CodeKind = iota
	FaultCode
)

// Code identifies a filterable code in either code space.
type Code struct {
	Kind  CodeKind
	Value int
}

// Status returns the Code for an HTTP status.
func Status(code int) Code { return Code{Kind: StatusCode, Value: code} }

// Fault returns the Code for a fault category.
func Fault(code int) Code { return Code{Kind: FaultCode, Value: code} }

// Key returns the signed integer key used at the JSON boundary:
// status codes map to themselves, fault codes to their negation.
func (c Code) Key() int {
	if c.Kind == FaultCode {
		return -c.Value
	}
	return c.Value
}

// CodeFromKey is the inverse of Key.
func CodeFromKey(key int) Code {
	if key < 0 {
		return Fault(-key)
	}
	return Status(key)
}

// String renders the code as shown on filter badges: H200, F101.
func (c Code) String() string {
	if c.Kind == FaultCode {
		return fmt.Sprintf("F%d", c.Value)
	}
	return fmt.Sprintf("H%d", c.Value)
}

// ParseCode accepts "200", "H200", "F101" or a signed key such as "-101".
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Code{}, fmt.Errorf("empty code")
	}
	kind := StatusCode
	switch s[0] {
	case 'F', 'f':
		kind = FaultCode
		s = s[1:]
	case 'H', 'h':
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Code{}, fmt.Errorf("invalid code %q: %w", s, err)
	}
	if kind == FaultCode {
		if n <= 0 {
			return Code{}, fmt.Errorf("fault code must be positive, got %d", n)
		}
		return Fault(n), nil
	}
	return CodeFromKey(n), nil
}
