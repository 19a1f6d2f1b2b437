// Package jsonschema is a minimal JSON Schema representation used for
// export. It is shared by the OpenAI and Gemini emitters so both dialects
// serialize through the same ordered encoder.
package jsonschema

import (
	json "github.com/goccy/go-json"
)

// Schema is a minimal JSON Schema node. Keep this struct small and extend
// incrementally as dialects need more keywords.
type Schema struct {
	// Core
	Type   any    `json:"type,omitempty"` // string or []string (nullable encoding)
	Format string `json:"format,omitempty"`

	// Literal/enum compression
	Enum []any `json:"enum,omitempty"`

	// Unsatisfiable ("never") encoding
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Object
	//
	// Required is a *[]string, not a []string, for the same reason
	// Properties and Defs are pointer-backed: encoding/json's omitempty
	// treats every zero-length slice as empty regardless of nilness, so a
	// plain []string would silently drop "required":[] for a closed empty
	// object. A non-nil pointer is never "empty" to omitempty, so this
	// field is omitted only when a node (a primitive, an array, a $ref,
	// ...) never had Required populated in the first place, and always
	// rendered — even as "[]" — once an emitter builds an object node.
	Properties           *Properties `json:"properties,omitempty"`
	Required             *[]string   `json:"required,omitempty"`
	AdditionalProperties any         `json:"additionalProperties,omitempty"`
	Defs                 *Properties `json:"$defs,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union / reference
	AnyOf []*Schema `json:"anyOf,omitempty"`
	Ref   string    `json:"$ref,omitempty"`
}

// Properties is an insertion-order-preserving string->*Schema map. Plain Go
// maps randomize iteration order, which would break the determinism
// contract (declaration order in, declaration order out); this type keeps a
// parallel key slice so MarshalJSON can walk entries in set order.
type Properties struct {
	keys   []string
	values map[string]*Schema
}

// NewProperties returns an empty, ready-to-use Properties map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]*Schema)}
}

// Set inserts or overwrites the schema for key, preserving first-insertion
// position (overwriting an existing key does not move it).
func (p *Properties) Set(key string, s *Schema) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = s
}

// Get returns the schema for key and whether it was present.
func (p *Properties) Get(key string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	s, ok := p.values[key]
	return s, ok
}

// Len reports the number of entries.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order. Callers must not mutate it.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return p.keys
}

// MarshalJSON renders entries as a JSON object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range p.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// Float64 is a convenience helper for populating Minimum/Maximum pointers.
func Float64(v float64) *float64 { return &v }
