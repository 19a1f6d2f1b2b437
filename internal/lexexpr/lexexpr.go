// Package lexexpr implements the scalar type-expression sub-parser (spec
// §4.3): a small recursive-descent parser over a single YAML string
// scalar that produces an ir.TypeNode. It is deliberately independent of
// the YAML-mapping-walking parser in internal/tdlparse so the grammar can
// be tested in isolation, the way the teacher repo keeps its codec
// grammars (codec/rfc3339.go) separate from the schema-building DSL.
package lexexpr

import (
	"strconv"
	"strings"

	"github.com/tdlconv/tdlconv/internal/aerr"
	"github.com/tdlconv/tdlconv/internal/ir"
)

var primitiveWords = map[string]bool{
	ir.PrimString:  true,
	ir.PrimNumber:  true,
	ir.PrimBoolean: true,
	ir.PrimTypedoc: true,
	ir.PrimImage:   true,
	ir.PrimAudio:   true,
	ir.PrimVideo:   true,
	ir.PrimNever:   true,
}

// Parse parses a trimmed scalar type expression into a TypeNode.
func Parse(src string) (ir.TypeNode, error) {
	s := strings.TrimSpace(src)
	if s == "" {
		return nil, aerr.TypeExpr("empty-expression", "type expression must not be empty")
	}
	if err := rejectUnsupported(s); err != nil {
		return nil, err
	}
	return parseUnion(s)
}

// rejectUnsupported scans the whole expression once, before recursive
// descent begins, for constructs the TDL subset explicitly disallows
// (spec §4.3 Rejections). A single substring/word scan over the full
// expression already covers constructs nested inside union/intersection
// members, since their text is a substring of s.
func rejectUnsupported(s string) error {
	if strings.Contains(s, "=>") {
		return aerr.TypeExpr("function-type", "function types are not supported: %q", s)
	}
	if strings.Contains(s, "::") {
		return aerr.TypeExpr("qualified-import", "qualified imports are not supported: %q", s)
	}
	if containsWord(s, "if") || containsWord(s, "then") || containsWord(s, "else") {
		return aerr.TypeExpr("conditional-type", "conditional types are not supported: %q", s)
	}
	return nil
}

func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		pos := idx + i
		before := byte(' ')
		if pos > 0 {
			before = s[pos-1]
		}
		after := byte(' ')
		if pos+len(word) < len(s) {
			after = s[pos+len(word)]
		}
		if !isIdentByte(before) && !isIdentByte(after) {
			return true
		}
		idx = pos + len(word)
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func parseUnion(s string) (ir.TypeNode, error) {
	parts := splitTopLevel(s, '|')
	if len(parts) >= 2 {
		members := make([]ir.TypeNode, 0, len(parts))
		for _, p := range parts {
			m, err := parseIntersection(strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return ir.Union{Members: members}, nil
	}
	return parseIntersection(s)
}

func parseIntersection(s string) (ir.TypeNode, error) {
	parts := splitTopLevel(s, '&')
	if len(parts) >= 2 {
		members := make([]ir.TypeNode, 0, len(parts))
		for _, p := range parts {
			m, err := parseParenOrAtom(strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return ir.Intersection{Members: members}, nil
	}
	return parseParenOrAtom(s)
}

func parseParenOrAtom(s string) (ir.TypeNode, error) {
	if isFullyParenthesized(s) {
		inner := strings.TrimSpace(s[1 : len(s)-1])
		return parseUnion(inner)
	}
	return parseAtom(s)
}

// isFullyParenthesized reports whether s is wrapped in a single matching
// pair of parentheses that never closes before the final character (i.e.
// paren depth stays > 0 at every prefix except the very end).
func isFullyParenthesized(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}

func parseAtom(s string) (ir.TypeNode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, aerr.TypeExpr("empty-expression", "empty type expression")
	}

	if lit, ok := parseQuoted(s); ok {
		return ir.StringLiteral{Value: lit}, nil
	}
	if s == "true" {
		return ir.BooleanLiteral{Value: true}, nil
	}
	if s == "false" {
		return ir.BooleanLiteral{Value: false}, nil
	}
	if isNumericToken(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, aerr.TypeExpr("unrecognized-token", "invalid numeric literal %q", s)
		}
		return ir.NumberLiteral{Value: v}, nil
	}
	if primitiveWords[s] {
		return ir.Primitive{Name: s}, nil
	}
	if isGeneric, name, arg := splitGeneric(s); isGeneric {
		if name == "Ref" {
			_ = arg // Ref<T> is opaque; the referenced type is not resolved further.
			return ir.Primitive{Name: ir.PrimString}, nil
		}
		return nil, aerr.TypeExpr("unsupported-generic", "generic type %q is not supported", s)
	}
	if isTypeRefIdent(s) {
		return ir.TypeRef{Name: s}, nil
	}
	if isAllCapsIdent(s) {
		return ir.StringLiteral{Value: s}, nil
	}
	return nil, aerr.TypeExpr("unrecognized-token", "unrecognized type expression %q", s)
}

func parseQuoted(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '\'' && q != '"') || s[len(s)-1] != q {
		return "", false
	}
	return s[1 : len(s)-1], true
}

func isNumericToken(s string) bool {
	if s == "" {
		return false
	}
	seenDigit := false
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' && !seenDot && i != 0 && i != len(s)-1:
			seenDot = true
		default:
			return false
		}
	}
	return seenDigit
}

// splitGeneric recognizes `Name<arg>` where arg runs to the matching `>`.
func splitGeneric(s string) (ok bool, name, arg string) {
	lt := strings.IndexByte(s, '<')
	if lt < 0 || s[len(s)-1] != '>' {
		return false, "", ""
	}
	name = s[:lt]
	if !isTypeRefIdent(name) {
		return false, "", ""
	}
	arg = s[lt+1 : len(s)-1]
	return true, name, arg
}

func isTypeRefIdent(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func isAllCapsIdent(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') && c != '_' {
			return false
		}
	}
	return true
}

// SplitTopLevel is the exported form of splitTopLevel, reused by
// internal/tdlparse to split an enum-like index-signature domain on `|`
// with the same quoting/nesting discipline as union splitting.
func SplitTopLevel(s string, sep byte) []string { return splitTopLevel(s, sep) }

// ParseQuoted recognizes a single- or double-quoted literal and returns
// its unquoted contents. Exported for reuse by the enum-like
// index-signature domain parser (spec §4.2), which restricts literals to
// quoted strings, booleans, numbers, and ALL_CAPS tokens.
func ParseQuoted(s string) (string, bool) { return parseQuoted(s) }

// IsNumericToken reports whether s is a bare (unsigned, optionally
// decimal) numeric token.
func IsNumericToken(s string) bool { return isNumericToken(s) }

// IsAllCapsToken reports whether s is an ALL_CAPS identifier token.
func IsAllCapsToken(s string) bool { return isAllCapsIdent(s) }

// splitTopLevel splits s on sep, skipping occurrences inside (...), <...>,
// and single/double-quoted strings (a backslash escapes the next rune
// inside a quoted string so an escaped quote does not end it early).
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depthParen, depthAngle := 0, 0
	var quote byte
	escaped := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depthParen++
		case ')':
			if depthParen > 0 {
				depthParen--
			}
		case '<':
			depthAngle++
		case '>':
			if depthAngle > 0 {
				depthAngle--
			}
		default:
			if c == sep && depthParen == 0 && depthAngle == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
