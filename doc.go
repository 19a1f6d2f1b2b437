// Package tdlconv compiles a Typedoc Definition Language (TDL) document —
// a YAML-shaped schema description for constraining LLM outputs — into
// two JSON Schema dialects: the OpenAI Structured Outputs subset and the
// Gemini jsonschema_gemini subset.
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - internal/ir holds the shared intermediate representation, internal/lexexpr the
//   scalar type-expression grammar, internal/tdlparse the YAML-mapping walker, and
//   internal/emit (plus internal/emit/openai and internal/emit/gemini) the two
//   schema lowerings. The CLI lives under cmd/tdlconv.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	res, err := tdlconv.Convert(yamlText)
//	if err != nil {
//	    var ae *tdlconv.AuthoringError
//	    errors.As(err, &ae)
//	}
//	openaiJSON, _ := json.MarshalIndent(res.OpenAI, "", "  ")
//	geminiJSON, _ := json.MarshalIndent(res.Gemini, "", "  ")
package tdlconv
