// Package mapping proposes which source header feeds each canonical trade
// field, and tracks interactive corrections to that proposal.
package mapping

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/tradeops/schema"
)

// Mapping maps a canonical field key to the source header that feeds it.
// Unmapped keys are absent.
type Mapping map[string]string

// Clone returns an independent copy.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the mapped keys sorted.
func (m Mapping) Keys() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Strategy selects how headers are matched to fields.
type Strategy string

const (
	// Exact maps a field only to a header identical to its label.
	Exact Strategy = "exact"
	// Flexible falls back to normalized label and alias matching.
	Flexible Strategy = "flexible"
)

var (
	ErrUnknownStrategy = errors.New("unknown mapping strategy")
	ErrUnknownHeader   = errors.New("mapping references unknown header")
	ErrUnknownField    = errors.New("unknown canonical field")
)

// ParseStrategy accepts "exact" or "flexible"; empty means Flexible.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flexible":
		return Flexible, nil
	case "exact":
		return Exact, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Build dispatches to BuildExact or BuildFlexible.
func Build(s Strategy, fields schema.FieldSet, headers []string) (Mapping, error) {
	switch s {
	case Exact:
		return BuildExact(fields, headers), nil
	case Flexible, "":
		return BuildFlexible(fields, headers), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// BuildExact maps each field whose label appears verbatim, case included,
// among headers.
func BuildExact(fields schema.FieldSet, headers []string) Mapping {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	m := Mapping{}
	for _, f := range fields {
		if present[f.Label] {
			m[f.Key] = f.Label
		}
	}
	return m
}

// BuildFlexible starts from BuildExact and then, for each unmatched field,
// tries its normalized label followed by its aliases against the normalized
// headers. The first candidate that hits wins. When two headers normalize to
// the same string the earlier one is used.
func BuildFlexible(fields schema.FieldSet, headers []string) Mapping {
	m := BuildExact(fields, headers)

	byNorm := make(map[string]string, len(headers))
	for _, h := range headers {
		n := schema.NormalizeHeader(h)
		if _, dup := byNorm[n]; !dup {
			byNorm[n] = h
		}
	}

	for _, f := range fields {
		if _, done := m[f.Key]; done {
			continue
		}
		candidates := append([]string{schema.NormalizeHeader(f.Label)}, schema.Aliases(f.Key)...)
		for _, c := range candidates {
			if h, ok := byNorm[c]; ok {
				m[f.Key] = h
				break
			}
		}
	}
	return m
}

// Validate checks that every header referenced by m exists in headers.
func Validate(m Mapping, headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, k := range m.Keys() {
		if h := m[k]; h != "" && !present[h] {
			return fmt.Errorf("%w: %s -> %q", ErrUnknownHeader, k, h)
		}
	}
	return nil
}
