package tdlconv

import "github.com/tdlconv/tdlconv/internal/aerr"

// Authoring error categories (spec §7), re-exported from internal/aerr so
// callers can switch on category without importing an internal package.
const (
	CodeShape    = aerr.CodeShape
	CodeLabel    = aerr.CodeLabel
	CodeTypeExpr = aerr.CodeTypeExpr
	CodeRef      = aerr.CodeRef
	CodeDialect  = aerr.CodeDialect
)

// AuthoringError is the single error kind this package surfaces (spec §7):
// all parse and emit failures are authoring mistakes in the TDL source,
// never partial results. There is no multi-issue accumulation here — the
// spec is explicit that errors propagate immediately with no partial
// output, so unlike the teacher's Issues slice, one AuthoringError is the
// whole story.
type AuthoringError = aerr.Error

// AsAuthoringError extracts an *AuthoringError from err, if any.
func AsAuthoringError(err error) (*AuthoringError, bool) {
	ae, ok := err.(*AuthoringError)
	return ae, ok
}
