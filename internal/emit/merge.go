package emit

import (
	"github.com/tdlconv/tdlconv/internal/aerr"
	"github.com/tdlconv/tdlconv/internal/ir"
)

// MergeIntersection implements spec §4.7: it collapses an Intersection's
// object-like operands into a single synthetic Object. Merging is
// structural and shallow — later operands overwrite earlier ones
// property-for-property (rightmost wins wholesale; conflicting property
// types are never recursively merged), index signatures accumulate in
// operand order, and Closed becomes true if any operand is closed.
func MergeIntersection(doc *ir.Doc, node ir.Intersection) (ir.Object, error) {
	result := ir.Object{}
	order := map[string]int{} // prop name -> index into result.Props

	for _, member := range node.Members {
		obj, err := resolveObjectLike(doc, member)
		if err != nil {
			return ir.Object{}, err
		}
		for _, p := range obj.Props {
			if idx, ok := order[p.Name]; ok {
				result.Props[idx] = p
			} else {
				order[p.Name] = len(result.Props)
				result.Props = append(result.Props, p)
			}
		}
		result.IndexSigs = append(result.IndexSigs, obj.IndexSigs...)
		if obj.Closed {
			result.Closed = true
		}
	}
	return result, nil
}

// resolveObjectLike reduces node to an ir.Object: an Object is itself,
// a TypeRef is looked up and resolved recursively, and a nested
// Intersection is merged recursively. Anything else is a dialect error
// per spec §4.7 step 1 / §7 ("Intersection with non-object-like operand").
func resolveObjectLike(doc *ir.Doc, node ir.TypeNode) (ir.Object, error) {
	switch n := node.(type) {
	case ir.Object:
		return n, nil
	case ir.TypeRef:
		def, ok := doc.Types.Get(n.Name)
		if !ok {
			return ir.Object{}, aerr.Ref(n.Name, "undeclared type referenced in intersection")
		}
		return resolveObjectLike(doc, def.Node)
	case ir.Intersection:
		return MergeIntersection(doc, n)
	default:
		return ir.Object{}, aerr.Dialect("Intersection operands must be object-like")
	}
}
