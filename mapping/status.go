package mapping

import "github.com/rustyeddy/tradeops/schema"

// Status summarizes how much of a field set a mapping covers. Missing
// required fields are a warning for callers to act on, not an error.
type Status struct {
	Mapped          int      `json:"mapped"`
	Total           int      `json:"total"`
	RequiredMapped  int      `json:"requiredMapped"`
	RequiredTotal   int      `json:"requiredTotal"`
	MissingRequired []string `json:"missingRequired,omitempty"`
}

// Complete reports whether every required field is mapped.
func (s Status) Complete() bool { return s.RequiredMapped == s.RequiredTotal }

// StatusOf computes the coverage of m over fields.
func StatusOf(fields schema.FieldSet, m Mapping) Status {
	st := Status{Total: len(fields)}
	for _, f := range fields {
		_, ok := m[f.Key]
		ok = ok && m[f.Key] != ""
		if ok {
			st.Mapped++
		}
		if !f.Required {
			continue
		}
		st.RequiredTotal++
		if ok {
			st.RequiredMapped++
		} else {
			st.MissingRequired = append(st.MissingRequired, f.Key)
		}
	}
	return st
}
