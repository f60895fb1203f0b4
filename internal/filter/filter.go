// Package filter narrows transformed endpoints down with tri-state code filters.
package filter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/chmouel/go-wfc-report/internal/model"
)

// Mode is the state of a single code filter.
type Mode int

const (
	Inactive Mode = iota
	Active
	Removed
)

// Next is the toggle cycle: inactive -> active -> removed -> inactive.
func Next(m Mode) Mode {
	switch m {
	case Inactive:
		return Active
	case Active:
		return Removed
	default:
		return Inactive
	}
}

func (m Mode) String() string {
	switch m {
	case Active:
		return "active"
	case Removed:
		return "removed"
	default:
		return "inactive"
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "inactive":
		return Inactive, nil
	case "active":
		return Active, nil
	case "removed":
		return Removed, nil
	default:
		return Inactive, fmt.Errorf("unknown filter state %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// State maps codes to filter modes. Values are never mutated in place:
// Set and Toggle return a new State.
type State map[model.Code]Mode

// Initial returns an all-inactive state for every code observed in endpoints.
func Initial(endpoints []model.TransformedEndpoint) State {
	s := State{}
	for _, ep := range endpoints {
		for _, c := range ep.HTTPStatusCodes {
			s[model.Status(c.Code)] = Inactive
		}
		for _, c := range ep.Faults {
			s[model.Fault(c.Code)] = Inactive
		}
	}
	return s
}

// Get returns the mode of code, Inactive when unknown.
func (s State) Get(code model.Code) Mode { return s[code] }

// Set returns a copy of s with code set to mode.
func (s State) Set(code model.Code, mode Mode) State {
	out := make(State, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[code] = mode
	return out
}

// Toggle returns a copy of s with code advanced to its next mode.
func (s State) Toggle(code model.Code) State {
	return s.Set(code, Next(s.Get(code)))
}

// Codes returns status codes ascending followed by fault codes ascending.
func (s State) Codes() []model.Code {
	out := make([]model.Code, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == model.StatusCode
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func (s State) has(mode Mode) bool {
	for _, m := range s {
		if m == mode {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the state with signed integer keys: status codes as
// is, fault codes negated.
func (s State) MarshalJSON() ([]byte, error) {
	raw := make(map[string]Mode, len(s))
	for c, m := range s {
		raw[strconv.Itoa(c.Key())] = m
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes signed integer keys.
func (s *State) UnmarshalJSON(b []byte) error {
	var raw map[string]Mode
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(State, len(raw))
	for k, m := range raw {
		key, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid filter key %q: %w", k, err)
		}
		out[model.CodeFromKey(key)] = m
	}
	*s = out
	return nil
}

// Apply returns the endpoints kept under state, preserving order.
//
// Removed codes veto an endpoint. When any code is active, only endpoints
// carrying an active code are kept. With neither, everything is kept.
func Apply(endpoints []model.TransformedEndpoint, state State) []model.TransformedEndpoint {
	anyActive := state.has(Active)
	anyRemoved := state.has(Removed)

	out := make([]model.TransformedEndpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		if keep(ep, state, anyActive, anyRemoved) {
			out = append(out, ep)
		}
	}
	return out
}

func keep(ep model.TransformedEndpoint, state State, anyActive, anyRemoved bool) bool {
	if !anyActive && !anyRemoved {
		return true
	}
	hasRemoved := matches(ep, state, Removed)
	hasActive := matches(ep, state, Active)
	switch {
	case anyActive && !anyRemoved:
		return hasActive
	case anyActive && anyRemoved:
		return !hasRemoved && hasActive
	default:
		return !hasRemoved
	}
}

func matches(ep model.TransformedEndpoint, state State, mode Mode) bool {
	for _, c := range ep.HTTPStatusCodes {
		if state.Get(model.Status(c.Code)) == mode {
			return true
		}
	}
	for _, c := range ep.Faults {
		if state.Get(model.Fault(c.Code)) == mode {
			return true
		}
	}
	return false
}
