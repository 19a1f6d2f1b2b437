package tdlconv

import (
	"gopkg.in/yaml.v3"

	"github.com/tdlconv/tdlconv/internal/aerr"
	"github.com/tdlconv/tdlconv/internal/emit/gemini"
	"github.com/tdlconv/tdlconv/internal/emit/openai"
	"github.com/tdlconv/tdlconv/internal/tdlparse"
	"github.com/tdlconv/tdlconv/jsonschema"
)

// Result is the pair of schemas produced by Convert (spec §6).
type Result struct {
	OpenAI *jsonschema.Schema
	Gemini *jsonschema.Schema
}

// Convert parses typedocYaml as a TDL document and lowers it into both the
// OpenAI Structured Outputs and Gemini jsonschema_gemini dialects. The
// conversion is pure and stateless: each call builds a fresh IR and fresh
// emitter state, so it is safe to call concurrently from multiple
// goroutines (spec §5).
//
// Any failure — YAML that is not a mapping at the top level, a malformed
// label, an unsupported type-expression construct, an undeclared type
// reference, or a dialect-specific constraint violation — is returned as
// an *AuthoringError. There is no partial output on error.
func Convert(typedocYaml string) (Result, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(typedocYaml), &root); err != nil {
		return Result{}, aerr.Shape("invalid YAML: %v", err)
	}
	if len(root.Content) == 0 {
		return Result{}, aerr.Shape("TDL document must be a YAML mapping at the top level")
	}

	doc, err := tdlparse.Parse(&root)
	if err != nil {
		return Result{}, err
	}

	openaiSchema, err := openai.Emit(doc)
	if err != nil {
		return Result{}, err
	}
	geminiSchema, err := gemini.Emit(doc)
	if err != nil {
		return Result{}, err
	}

	return Result{OpenAI: openaiSchema, Gemini: geminiSchema}, nil
}
