// Package ir defines the intermediate representation the TDL parser
// produces and both schema emitters consume. This package is internal: the
// public surface is the tdlconv.Convert entry point.
package ir

// NodeKind identifies a TypeNode variant. The set is closed and small; a
// new variant must be added to every switch that dispatches on Kind.
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindStringLiteral
	KindNumberLiteral
	KindBooleanLiteral
	KindTypeRef
	KindUnion
	KindIntersection
	KindObject
)

// Primitive names recognized by the type-expression sub-parser.
const (
	PrimString  = "string"
	PrimNumber  = "number"
	PrimBoolean = "boolean"
	PrimTypedoc = "typedoc"
	PrimImage   = "image"
	PrimAudio   = "audio"
	PrimVideo   = "video"
	PrimNever   = "never"
)

// TypeNode is the root of the TDL type-expression algebra: a closed,
// tagged sum. Use Kind() for exhaustive switches instead of type hierarchies.
type TypeNode interface {
	Kind() NodeKind
}

// Primitive is one of the reserved primitive words.
type Primitive struct{ Name string }

func (Primitive) Kind() NodeKind { return KindPrimitive }

// StringLiteral is a quoted or ALL_CAPS-token string literal.
type StringLiteral struct{ Value string }

func (StringLiteral) Kind() NodeKind { return KindStringLiteral }

// NumberLiteral stores the numeric value parsed from the source token.
type NumberLiteral struct{ Value float64 }

func (NumberLiteral) Kind() NodeKind { return KindNumberLiteral }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct{ Value bool }

func (BooleanLiteral) Kind() NodeKind { return KindBooleanLiteral }

// TypeRef references a named type declared elsewhere in the document
// (forward references and self-references are both legal).
type TypeRef struct{ Name string }

func (TypeRef) Kind() NodeKind { return KindTypeRef }

// Union is a sum of >=2 alternatives, built from a top-level `|`.
type Union struct{ Members []TypeNode }

func (Union) Kind() NodeKind { return KindUnion }

// Intersection is a product of >=2 operands, built from a top-level `&`
// or the `TypeName(BaseExpr)` extends sugar.
type Intersection struct{ Members []TypeNode }

func (Intersection) Kind() NodeKind { return KindIntersection }

// PropNode is a single declared property of an Object.
type PropNode struct {
	Name     string
	Type     TypeNode
	Optional bool
	IsArray  bool // true => array-of-Type, not Type itself
}

// IndexSigKind distinguishes a string-domain map from an enum-like domain.
type IndexSigKind int

const (
	IndexString IndexSigKind = iota
	IndexEnum
)

// IndexSigNode is an object member declared via `[k: DOMAIN]` sugar.
type IndexSigNode struct {
	Kind      IndexSigKind
	Keys      []TypeNode // literal nodes, populated when Kind == IndexEnum
	ValueType TypeNode
	Optional  bool
	IsArray   bool
}

// Object is a structural record: declared properties plus index signatures
// plus an explicit closure flag (set by the `[k: string]? never` sugar,
// which is itself never retained in IndexSigs).
type Object struct {
	Props     []PropNode
	IndexSigs []IndexSigNode
	Closed    bool
}

func (Object) Kind() NodeKind { return KindObject }

// TypeDef binds a declared name to its TypeNode body.
type TypeDef struct {
	Name string
	Node TypeNode
}

// SymbolDef is a lowercase-labeled top-level entry: a field of the emitted
// root object.
type SymbolDef struct {
	Name     string
	Type     TypeNode
	Optional bool
	IsArray  bool
}

// TypeTable is an insertion-order-preserving TypeName -> TypeDef map. Plain
// Go maps do not preserve iteration order, and $defs determinism (spec §5)
// requires source declaration order, not map order.
type TypeTable struct {
	order []string
	defs  map[string]*TypeDef
}

// NewTypeTable returns an empty, ready-to-use TypeTable.
func NewTypeTable() *TypeTable {
	return &TypeTable{defs: make(map[string]*TypeDef)}
}

// Set records def under its own name, preserving first-insertion order. A
// redeclaration of the same name overwrites the value in place without
// moving its position.
func (t *TypeTable) Set(def *TypeDef) {
	if _, ok := t.defs[def.Name]; !ok {
		t.order = append(t.order, def.Name)
	}
	t.defs[def.Name] = def
}

// Get looks up a type definition by name.
func (t *TypeTable) Get(name string) (*TypeDef, bool) {
	if t == nil {
		return nil, false
	}
	d, ok := t.defs[name]
	return d, ok
}

// Names returns declared type names in source declaration order.
func (t *TypeTable) Names() []string {
	if t == nil {
		return nil
	}
	return t.order
}

// Len reports the number of declared types.
func (t *TypeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Doc is the whole parsed TDL document.
type Doc struct {
	Types   *TypeTable
	Symbols []SymbolDef
	// Meta holds underscore-prefixed top-level sections verbatim
	// (_primitives, _externals, _imports, _comments, ...). The core never
	// interprets them; they are preserved for downstream tools.
	Meta map[string]any
}

// NewDoc returns an empty, ready-to-use Doc.
func NewDoc() *Doc {
	return &Doc{Types: NewTypeTable(), Meta: map[string]any{}}
}
