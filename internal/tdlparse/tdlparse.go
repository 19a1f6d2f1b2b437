// Package tdlparse implements the top-level TDL document parser (spec
// §4.1) and the inline-object body parser (spec §4.2). It consumes a
// *yaml.Node tree — gopkg.in/yaml.v3 already preserves mapping entry
// order in Node.Content, so no auxiliary insertion-order bookkeeping is
// needed at this layer (spec §9, "Ordering as an invariant").
package tdlparse

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tdlconv/tdlconv/internal/aerr"
	"github.com/tdlconv/tdlconv/internal/ir"
	"github.com/tdlconv/tdlconv/internal/lexexpr"
)

var (
	reExtendsSugar = regexp.MustCompile(`^([A-Z][A-Za-z0-9]*)\((.+)\)$`)
	reTypeName     = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	reSymbolLabel  = regexp.MustCompile(`^([a-z][A-Za-z0-9_]*)([?\[\]]*)$`)
	rePropLabel    = regexp.MustCompile(`^([a-z][A-Za-z0-9_]*)(.*)$`)
	reIndexSig     = regexp.MustCompile(`^\[([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(.+)\](\[\]|\?|\?\[\]|\[\]\?|)$`)
)

// Parse walks root (the document node returned by yaml.Unmarshal into a
// *yaml.Node, or its mapping content node) and produces a TDL IR document.
func Parse(root *yaml.Node) (*ir.Doc, error) {
	top := root
	if top.Kind == yaml.DocumentNode {
		if len(top.Content) == 0 {
			return nil, aerr.Shape("TDL document must be a YAML mapping at the top level")
		}
		top = top.Content[0]
	}
	if top.Kind != yaml.MappingNode {
		return nil, aerr.Shape("TDL document must be a YAML mapping at the top level")
	}

	doc := ir.NewDoc()
	for i := 0; i+1 < len(top.Content); i += 2 {
		keyNode := top.Content[i]
		valNode := top.Content[i+1]
		key := keyNode.Value

		switch {
		case strings.HasPrefix(key, "_"):
			var v any
			if err := valNode.Decode(&v); err != nil {
				return nil, aerr.Shape("failed to decode metadata section %q: %v", key, err)
			}
			doc.Meta[key] = v

		case reExtendsSugar.MatchString(key):
			m := reExtendsSugar.FindStringSubmatch(key)
			name, baseExpr := m[1], m[2]
			if valNode.Kind != yaml.MappingNode {
				return nil, aerr.Shape("extends-sugar body for %q must be a YAML mapping", name)
			}
			body, err := parseInlineObjectBody(valNode)
			if err != nil {
				return nil, err
			}
			base, err := lexexpr.Parse(baseExpr)
			if err != nil {
				return nil, err
			}
			doc.Types.Set(&ir.TypeDef{
				Name: name,
				Node: ir.Intersection{Members: []ir.TypeNode{base, body}},
			})

		case reTypeName.MatchString(key):
			node, err := parseValueAsTypeNode(valNode)
			if err != nil {
				return nil, err
			}
			doc.Types.Set(&ir.TypeDef{Name: key, Node: node})

		case reSymbolLabel.MatchString(key):
			m := reSymbolLabel.FindStringSubmatch(key)
			name, tail := m[1], m[2]
			isArray, optional := labelFlags(tail)
			node, err := parseValueAsTypeNode(valNode)
			if err != nil {
				return nil, err
			}
			doc.Symbols = append(doc.Symbols, ir.SymbolDef{
				Name: name, Type: node, Optional: optional, IsArray: isArray,
			})

		default:
			return nil, aerr.Shape("Unrecognized top-level entry: %s", key)
		}
	}
	return doc, nil
}

// parseValueAsTypeNode interprets a type definition's or symbol's RHS: a
// YAML mapping is an inline object body, a scalar is a type expression.
func parseValueAsTypeNode(val *yaml.Node) (ir.TypeNode, error) {
	switch val.Kind {
	case yaml.MappingNode:
		return parseInlineObjectBody(val)
	case yaml.ScalarNode:
		return lexexpr.Parse(val.Value)
	default:
		return nil, aerr.Shape("type definition value must be a YAML mapping or scalar string")
	}
}

// parseInlineObjectBody implements spec §4.2.
func parseInlineObjectBody(node *yaml.Node) (ir.Object, error) {
	obj := ir.Object{}
	seen := map[string]bool{}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]
		label := keyNode.Value

		if strings.HasPrefix(label, "[") {
			sig, closes, err := parseIndexSignature(label, valNode)
			if err != nil {
				return ir.Object{}, err
			}
			if closes {
				obj.Closed = true
				continue
			}
			obj.IndexSigs = append(obj.IndexSigs, sig)
			continue
		}

		m := rePropLabel.FindStringSubmatch(label)
		if m == nil {
			return ir.Object{}, aerr.Label(label, "malformed property label")
		}
		name, tail := m[1], m[2]
		if seen[name] {
			return ir.Object{}, aerr.Label(name, "duplicate property name in object body")
		}
		seen[name] = true
		isArray, optional := labelFlags(tail)

		propType, err := parseValueAsTypeNode(valNode)
		if err != nil {
			return ir.Object{}, err
		}
		obj.Props = append(obj.Props, ir.PropNode{
			Name: name, Type: propType, Optional: optional, IsArray: isArray,
		})
	}
	return obj, nil
}

// parseIndexSignature parses a `[k: DOMAIN]TAIL` label together with its
// YAML value. It returns closes=true when this is the closure-sugar entry
// `[k: string]? never`, which the caller absorbs into Object.Closed rather
// than retaining as an IndexSigNode (spec §3 invariant, §4.2).
func parseIndexSignature(label string, valNode *yaml.Node) (sig ir.IndexSigNode, closes bool, err error) {
	m := reIndexSig.FindStringSubmatch(label)
	if m == nil {
		return ir.IndexSigNode{}, false, aerr.Label(label, "malformed index signature label")
	}
	domain, tail := m[2], m[3]
	isArray, optional := labelFlags(tail)

	valueType, err := parseValueAsTypeNode(valNode)
	if err != nil {
		return ir.IndexSigNode{}, false, err
	}

	if strings.TrimSpace(domain) == ir.PrimString {
		if optional && isNever(valueType) {
			return ir.IndexSigNode{}, true, nil
		}
		return ir.IndexSigNode{
			Kind: ir.IndexString, ValueType: valueType, Optional: optional, IsArray: isArray,
		}, false, nil
	}

	keys, err := parseEnumLikeDomain(domain)
	if err != nil {
		return ir.IndexSigNode{}, false, err
	}
	return ir.IndexSigNode{
		Kind: ir.IndexEnum, Keys: keys, ValueType: valueType, Optional: optional, IsArray: isArray,
	}, false, nil
}

// parseEnumLikeDomain splits an enum-like index-signature domain on
// top-level `|` and parses each member as a literal or ALL_CAPS token
// (spec §4.2). Unlike the general type-expression grammar, references and
// primitives are not legal domain members.
func parseEnumLikeDomain(domain string) ([]ir.TypeNode, error) {
	parts := lexexpr.SplitTopLevel(strings.TrimSpace(domain), '|')
	nodes := make([]ir.TypeNode, 0, len(parts))
	for _, raw := range parts {
		tok := strings.TrimSpace(raw)
		switch {
		case tok == "true":
			nodes = append(nodes, ir.BooleanLiteral{Value: true})
		case tok == "false":
			nodes = append(nodes, ir.BooleanLiteral{Value: false})
		default:
			if lit, ok := lexexpr.ParseQuoted(tok); ok {
				nodes = append(nodes, ir.StringLiteral{Value: lit})
				continue
			}
			if lexexpr.IsNumericToken(tok) {
				v, perr := strconv.ParseFloat(tok, 64)
				if perr != nil {
					return nil, aerr.Label(tok, "invalid numeric literal in enum-like domain")
				}
				nodes = append(nodes, ir.NumberLiteral{Value: v})
				continue
			}
			if lexexpr.IsAllCapsToken(tok) {
				nodes = append(nodes, ir.StringLiteral{Value: tok})
				continue
			}
			return nil, aerr.Label(tok, "Enum-like expression must be literals or ALL_CAPS_TOKENs")
		}
	}
	return nodes, nil
}

func isNever(n ir.TypeNode) bool {
	p, ok := n.(ir.Primitive)
	return ok && p.Name == ir.PrimNever
}

func labelFlags(tail string) (isArray, optional bool) {
	return strings.Contains(tail, "[]"), strings.Contains(tail, "?")
}
