package tdlparse

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/tdlconv/tdlconv/internal/ir"
)

func parseYAML(t *testing.T, src string) *ir.Doc {
	t.Helper()
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(src), &root); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	doc, err := Parse(&root)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	return doc
}

func TestParse_RootMustBeMapping(t *testing.T) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte("- a\n- b\n"), &root); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if _, err := Parse(&root); err == nil {
		t.Fatalf("expected shape error for sequence root")
	}
}

func TestParse_SimpleSymbol(t *testing.T) {
	doc := parseYAML(t, "foo: string\n")
	if len(doc.Symbols) != 1 {
		t.Fatalf("expected 1 symbol, got %d", len(doc.Symbols))
	}
	s := doc.Symbols[0]
	if s.Name != "foo" || s.Optional || s.IsArray {
		t.Fatalf("unexpected symbol: %#v", s)
	}
	if p, ok := s.Type.(ir.Primitive); !ok || p.Name != "string" {
		t.Fatalf("expected Primitive(string), got %#v", s.Type)
	}
}

func TestParse_OptionalArraySymbol(t *testing.T) {
	doc := parseYAML(t, "tags?[]: 'a' | 'b' | 'c'\n")
	s := doc.Symbols[0]
	if s.Name != "tags" || !s.Optional || !s.IsArray {
		t.Fatalf("unexpected symbol: %#v", s)
	}
	if _, ok := s.Type.(ir.Union); !ok {
		t.Fatalf("expected union type, got %#v", s.Type)
	}
}

func TestParse_TypeDefinitionInlineObject(t *testing.T) {
	doc := parseYAML(t, "User:\n  name: string\n  age?: number\n")
	def, ok := doc.Types.Get("User")
	if !ok {
		t.Fatalf("expected type User to be declared")
	}
	obj, ok := def.Node.(ir.Object)
	if !ok || len(obj.Props) != 2 {
		t.Fatalf("expected 2-prop object, got %#v", def.Node)
	}
	if obj.Props[0].Name != "name" || obj.Props[0].Optional {
		t.Fatalf("unexpected first prop: %#v", obj.Props[0])
	}
	if obj.Props[1].Name != "age" || !obj.Props[1].Optional {
		t.Fatalf("unexpected second prop: %#v", obj.Props[1])
	}
}

func TestParse_ClosureSugar(t *testing.T) {
	doc := parseYAML(t, "User:\n  name: string\n  '[k: string]?': never\n")
	def, _ := doc.Types.Get("User")
	obj := def.Node.(ir.Object)
	if !obj.Closed {
		t.Fatalf("expected Closed=true from closure sugar")
	}
	if len(obj.IndexSigs) != 0 {
		t.Fatalf("closure sugar must not be retained as an index signature, got %#v", obj.IndexSigs)
	}
}

func TestParse_ClosureSugarIdempotent(t *testing.T) {
	once := parseYAML(t, "User:\n  name: string\n  '[k: string]?': never\n")
	twice := parseYAML(t, "User:\n  name: string\n  '[k: string]?': never\n  '[j: string]?': never\n")
	o1 := once.Types.Names()
	o2 := twice.Types.Names()
	if len(o1) != len(o2) {
		t.Fatalf("type count mismatch")
	}
	d1, _ := once.Types.Get("User")
	d2, _ := twice.Types.Get("User")
	obj1 := d1.Node.(ir.Object)
	obj2 := d2.Node.(ir.Object)
	if !obj1.Closed || !obj2.Closed {
		t.Fatalf("both declarations must close the object")
	}
	if len(obj1.IndexSigs) != 0 || len(obj2.IndexSigs) != 0 {
		t.Fatalf("neither declaration should retain an index signature")
	}
}

func TestParse_OpenMapIndexSignature(t *testing.T) {
	doc := parseYAML(t, "scores:\n  '[k: string]': number\n")
	s := doc.Symbols[0]
	obj := s.Type.(ir.Object)
	if len(obj.IndexSigs) != 1 || obj.IndexSigs[0].Kind != ir.IndexString {
		t.Fatalf("expected one string-domain index sig, got %#v", obj.IndexSigs)
	}
}

func TestParse_EnumLikeIndexSignature(t *testing.T) {
	doc := parseYAML(t, "scores:\n  \"[k: 'a'|'b']\": number\n")
	s := doc.Symbols[0]
	obj := s.Type.(ir.Object)
	if len(obj.IndexSigs) != 1 || obj.IndexSigs[0].Kind != ir.IndexEnum {
		t.Fatalf("expected one enum-domain index sig, got %#v", obj.IndexSigs)
	}
	if len(obj.IndexSigs[0].Keys) != 2 {
		t.Fatalf("expected 2 enum keys, got %d", len(obj.IndexSigs[0].Keys))
	}
}

func TestParse_ExtendsSugar(t *testing.T) {
	doc := parseYAML(t, "Base:\n  x: string\nDerived(Base):\n  y: number\n")
	def, ok := doc.Types.Get("Derived")
	if !ok {
		t.Fatalf("expected Derived type")
	}
	inter, ok := def.Node.(ir.Intersection)
	if !ok || len(inter.Members) != 2 {
		t.Fatalf("expected 2-member intersection, got %#v", def.Node)
	}
	if _, ok := inter.Members[0].(ir.TypeRef); !ok {
		t.Fatalf("expected first member to be TypeRef(Base), got %#v", inter.Members[0])
	}
	if _, ok := inter.Members[1].(ir.Object); !ok {
		t.Fatalf("expected second member to be the inline body object, got %#v", inter.Members[1])
	}
}

func TestParse_MetaSectionsPreserved(t *testing.T) {
	doc := parseYAML(t, "_comments:\n  note: hello\nfoo: string\n")
	v, ok := doc.Meta["_comments"]
	if !ok {
		t.Fatalf("expected _comments to be preserved in Meta")
	}
	m, ok := v.(map[string]any)
	if !ok || m["note"] != "hello" {
		t.Fatalf("unexpected meta value: %#v", v)
	}
}

func TestParse_UnrecognizedTopLevelEntry(t *testing.T) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte("123abc: string\n"), &root); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if _, err := Parse(&root); err == nil {
		t.Fatalf("expected error for unrecognized top-level entry")
	}
}

func TestParse_DuplicatePropertyName(t *testing.T) {
	var root yaml.Node
	src := "User:\n  name: string\n  name: number\n"
	if err := yaml.Unmarshal([]byte(src), &root); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	_, err := Parse(&root)
	if err == nil {
		t.Fatalf("expected duplicate-property error")
	}
}
