// Package emit holds logic shared by the OpenAI and Gemini dialect
// emitters: named-type resolution with cycle breaking (spec §4.4) and
// intersection merging (spec §4.7). Both are dialect-agnostic — they
// operate on the IR and the def table, never on dialect-specific
// encoding choices (nullability, closure) — so they live here once
// instead of being duplicated per dialect, the way the teacher repo
// shares resolution helpers (dsl/irconv.go's getPrivateField) across
// whatever consumes them.
package emit

import "github.com/tdlconv/tdlconv/jsonschema"

// Resolve implements the named-type resolution/cycle-breaking discipline
// of spec §4.4, shared verbatim by both dialects:
//
//   - already emitted (present in defs): return a $ref, do nothing else.
//   - currently being emitted (on the visitation stack): install a
//     dialect-specific placeholder at that key and return a $ref. This
//     breaks recursion without aborting.
//   - otherwise: mark visiting, lower the body, unmark, store the result
//     under name (overwriting any placeholder installed during a nested
//     recursive visit), and return a $ref.
func Resolve(
	defs *jsonschema.Properties,
	stack map[string]bool,
	name string,
	placeholder func() *jsonschema.Schema,
	lowerBody func() (*jsonschema.Schema, error),
) (*jsonschema.Schema, error) {
	ref := &jsonschema.Schema{Ref: "#/$defs/" + name}

	if _, ok := defs.Get(name); ok {
		return ref, nil
	}
	if stack[name] {
		defs.Set(name, placeholder())
		return ref, nil
	}

	stack[name] = true
	body, err := lowerBody()
	delete(stack, name)
	if err != nil {
		return nil, err
	}
	defs.Set(name, body)
	return ref, nil
}
