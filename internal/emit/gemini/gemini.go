// Package gemini implements the Gemini jsonschema_gemini emitter
// (spec §4.6): object openness follows the IR's Closed flag (or a
// string-domain index signature's value schema), and optionality is
// encoded by omission from required rather than by nullability.
package gemini

import (
	"strconv"

	"github.com/tdlconv/tdlconv/internal/aerr"
	"github.com/tdlconv/tdlconv/internal/emit"
	"github.com/tdlconv/tdlconv/internal/ir"
	"github.com/tdlconv/tdlconv/jsonschema"
)

type emitter struct {
	doc   *ir.Doc
	defs  *jsonschema.Properties
	stack map[string]bool
}

// Emit produces the Gemini jsonschema_gemini schema for doc. The root is
// deliberately closed (additionalProperties: false) even though nested
// objects may be open.
func Emit(doc *ir.Doc) (*jsonschema.Schema, error) {
	e := &emitter{doc: doc, defs: jsonschema.NewProperties(), stack: map[string]bool{}}

	for _, name := range doc.Types.Names() {
		if _, err := e.resolveRef(name); err != nil {
			return nil, err
		}
	}

	props := jsonschema.NewProperties()
	required := make([]string, 0, len(doc.Symbols))
	for _, sym := range doc.Symbols {
		base, err := e.lower(sym.Type)
		if err != nil {
			return nil, err
		}
		if sym.IsArray {
			base = &jsonschema.Schema{Type: "array", Items: base}
		}
		props.Set(sym.Name, base)
		if !sym.Optional {
			required = append(required, sym.Name)
		}
	}

	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             &required,
		AdditionalProperties: false,
		Defs:                 e.defs,
	}, nil
}

func (e *emitter) resolveRef(name string) (*jsonschema.Schema, error) {
	def, ok := e.doc.Types.Get(name)
	if !ok {
		return nil, aerr.Ref(name, "undeclared type reference")
	}
	return emit.Resolve(e.defs, e.stack, name, placeholder, func() (*jsonschema.Schema, error) {
		return e.lower(def.Node)
	})
}

// placeholder is installed at a $defs key for a self- or
// mutually-recursive named type (spec §4.4). Gemini defaults nested
// objects open, so the placeholder is an open empty object.
func placeholder() *jsonschema.Schema {
	empty := []string{}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		Required:             &empty,
		AdditionalProperties: true,
	}
}

func (e *emitter) lower(node ir.TypeNode) (*jsonschema.Schema, error) {
	switch n := node.(type) {
	case ir.Primitive:
		return lowerPrimitive(n), nil
	case ir.StringLiteral:
		return &jsonschema.Schema{Type: "string", Enum: []any{n.Value}}, nil
	case ir.NumberLiteral:
		return &jsonschema.Schema{Type: "number", Enum: []any{n.Value}}, nil
	case ir.BooleanLiteral:
		return &jsonschema.Schema{Type: "boolean", Enum: []any{n.Value}}, nil
	case ir.TypeRef:
		return e.resolveRef(n.Name)
	case ir.Union:
		return e.lowerUnion(n)
	case ir.Intersection:
		merged, err := emit.MergeIntersection(e.doc, n)
		if err != nil {
			return nil, err
		}
		return e.lowerObject(merged)
	case ir.Object:
		return e.lowerObject(n)
	default:
		return nil, aerr.TypeExpr("unrecognized-node", "unrecognized type node")
	}
}

func lowerPrimitive(p ir.Primitive) *jsonschema.Schema {
	switch p.Name {
	case ir.PrimNumber:
		return &jsonschema.Schema{Type: "number"}
	case ir.PrimBoolean:
		return &jsonschema.Schema{Type: "boolean"}
	case ir.PrimNever:
		return &jsonschema.Schema{Type: "number", Minimum: jsonschema.Float64(1), Maximum: jsonschema.Float64(0)}
	default: // string, typedoc, image, audio, video
		return &jsonschema.Schema{Type: "string"}
	}
}

func (e *emitter) lowerUnion(u ir.Union) (*jsonschema.Schema, error) {
	if jsonType, vals, ok := homogeneousLiterals(u.Members); ok {
		return &jsonschema.Schema{Type: jsonType, Enum: vals}, nil
	}
	anyOf := make([]*jsonschema.Schema, 0, len(u.Members))
	for _, m := range u.Members {
		s, err := e.lower(m)
		if err != nil {
			return nil, err
		}
		anyOf = append(anyOf, s)
	}
	return &jsonschema.Schema{AnyOf: anyOf}, nil
}

func (e *emitter) lowerObject(obj ir.Object) (*jsonschema.Schema, error) {
	props := jsonschema.NewProperties()
	required := make([]string, 0, len(obj.Props)+len(obj.IndexSigs))

	var additional any = true // default: open unless Closed
	if obj.Closed {
		additional = false
	}

	for _, p := range obj.Props {
		base, err := e.lower(p.Type)
		if err != nil {
			return nil, err
		}
		if p.IsArray {
			base = &jsonschema.Schema{Type: "array", Items: base}
		}
		props.Set(p.Name, base)
		if !p.Optional {
			required = append(required, p.Name)
		}
	}

	for _, sig := range obj.IndexSigs {
		if sig.Kind == ir.IndexString {
			if !isNever(sig.ValueType) {
				valSchema, err := e.lower(sig.ValueType)
				if err != nil {
					return nil, err
				}
				if sig.IsArray {
					valSchema = &jsonschema.Schema{Type: "array", Items: valSchema}
				}
				additional = valSchema // last string-domain signature wins
			}
			continue
		}
		valBase, err := e.lower(sig.ValueType)
		if err != nil {
			return nil, err
		}
		for _, keyNode := range sig.Keys {
			keyName, err := literalKeyName(keyNode)
			if err != nil {
				return nil, err
			}
			v := valBase
			if sig.IsArray {
				v = &jsonschema.Schema{Type: "array", Items: valBase}
			}
			props.Set(keyName, v)
			if !sig.Optional {
				required = append(required, keyName)
			}
		}
	}

	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             &required,
		AdditionalProperties: additional,
	}, nil
}

func isNever(n ir.TypeNode) bool {
	p, ok := n.(ir.Primitive)
	return ok && p.Name == ir.PrimNever
}

func homogeneousLiterals(members []ir.TypeNode) (jsonType string, values []any, ok bool) {
	if len(members) == 0 {
		return "", nil, false
	}
	values = make([]any, 0, len(members))
	for _, m := range members {
		var cur string
		var v any
		switch lit := m.(type) {
		case ir.StringLiteral:
			cur, v = "string", lit.Value
		case ir.NumberLiteral:
			cur, v = "number", lit.Value
		case ir.BooleanLiteral:
			cur, v = "boolean", lit.Value
		default:
			return "", nil, false
		}
		if jsonType == "" {
			jsonType = cur
		} else if jsonType != cur {
			return "", nil, false
		}
		values = append(values, v)
	}
	return jsonType, values, true
}

func literalKeyName(n ir.TypeNode) (string, error) {
	switch v := n.(type) {
	case ir.StringLiteral:
		return v.Value, nil
	case ir.NumberLiteral:
		return strconv.FormatFloat(v.Value, 'g', -1, 64), nil
	case ir.BooleanLiteral:
		if v.Value {
			return "true", nil
		}
		return "false", nil
	default:
		return "", aerr.Label("", "enum-domain index signature key must be a literal")
	}
}
