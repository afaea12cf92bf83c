package zcap

import "encoding/json"

// OneOrMany represents a JSON-LD field that is polymorphic between a single
// string and an ordered sequence of strings: controller, @context, and
// allowedAction all take this shape. Ingest accepts either shape; the shape
// observed on ingest is preserved on round-trip rather than normalized to
// one canonical form, per the round-trip fidelity requirement.
type OneOrMany struct {
	values []string
	// wasMany records whether the value arrived as a JSON array, even a
	// single-element one, so re-marshaling reproduces the same shape.
	wasMany bool
}

// One builds an OneOrMany that marshals as a bare JSON string.
func One(v string) OneOrMany {
	return OneOrMany{values: []string{v}, wasMany: false}
}

// Many builds an OneOrMany that marshals as a JSON array, even if it ends
// up holding a single element.
func Many(v ...string) OneOrMany {
	return OneOrMany{values: append([]string(nil), v...), wasMany: true}
}

// IsZero reports whether the field was never set (distinguishing an absent
// optional field from Many() with zero elements, which is invalid input).
func (o OneOrMany) IsZero() bool { return o.values == nil && !o.wasMany }

// Values returns the underlying strings in order; nil for the zero value
// and for Many() called with no arguments.
func (o OneOrMany) Values() []string { return o.values }

// First returns the first value, or "" if empty.
func (o OneOrMany) First() string {
	if len(o.values) == 0 {
		return ""
	}
	return o.values[0]
}

// Contains reports whether s is present, byte-exact.
func (o OneOrMany) Contains(s string) bool {
	for _, v := range o.values {
		if v == s {
			return true
		}
	}
	return false
}

// ContainsFold reports whether s is present under case-insensitive compare.
func (o OneOrMany) ContainsFold(s string) bool {
	for _, v := range o.values {
		if equalFold(v, s) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return foldLower(a) == foldLower(b)
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func foldLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// MarshalJSON emits a bare string when the value holds exactly one element
// and did not arrive as an array; otherwise it emits an array.
func (o OneOrMany) MarshalJSON() ([]byte, error) {
	if !o.wasMany && len(o.values) == 1 {
		return json.Marshal(o.values[0])
	}
	if o.values == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(o.values)
}

// UnmarshalJSON accepts either a bare string or an array of strings.
func (o *OneOrMany) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		o.values = []string{s}
		o.wasMany = false
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	o.values = many
	o.wasMany = true
	return nil
}
