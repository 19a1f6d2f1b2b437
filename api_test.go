package tdlconv_test

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdlconv/tdlconv"
)

func convertJSON(t *testing.T, src string) (openai, gemini map[string]any) {
	t.Helper()
	res, err := tdlconv.Convert(src)
	require.NoError(t, err)
	return decode(t, res.OpenAI), decode(t, res.Gemini)
}

func decode(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

// Scenario 1: trivial primitive symbol.
func TestConvert_TrivialPrimitiveSymbol(t *testing.T) {
	openai, gemini := convertJSON(t, "foo: string\n")

	want := map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"foo": map[string]any{"type": "string"}},
		"required":             []any{"foo"},
		"additionalProperties": false,
		"$defs":                map[string]any{},
	}
	assert.Equal(t, want, openai)
	assert.Equal(t, want, gemini)
}

// Scenario 2: optional array of literal enum.
func TestConvert_OptionalArrayOfLiteralEnum(t *testing.T) {
	openai, gemini := convertJSON(t, "tags?[]: 'a' | 'b' | 'c'\n")

	oTags := openai["properties"].(map[string]any)["tags"].(map[string]any)
	assert.Equal(t, []any{"array", "null"}, oTags["type"])
	assert.Equal(t, []any{"a", "b", "c"}, oTags["items"].(map[string]any)["enum"])
	assert.Contains(t, openai["required"], "tags")

	gTags := gemini["properties"].(map[string]any)["tags"].(map[string]any)
	assert.Equal(t, "array", gTags["type"])
	// The sole symbol is optional, so Gemini's root "required" key must
	// still be present as an empty array rather than omitted entirely.
	assert.Contains(t, gemini, "required")
	assert.Equal(t, []any{}, gemini["required"])
}

// Scenario 3: closed inline object via `[k: string]? never` closure sugar.
func TestConvert_ClosedInlineObject(t *testing.T) {
	openai, gemini := convertJSON(t, "user:\n  name: string\n  '[k: string]?': never\n")

	for _, got := range []map[string]any{openai, gemini} {
		user := got["properties"].(map[string]any)["user"].(map[string]any)
		assert.Equal(t, false, user["additionalProperties"])
		uprops := user["properties"].(map[string]any)
		assert.Contains(t, uprops, "name")
		assert.Len(t, uprops, 1, "closure sugar must not leak an index-signature property")
	}
}

// Scenario 4: open map is Gemini-only; OpenAI rejects string index signatures.
func TestConvert_OpenMapGeminiOnly(t *testing.T) {
	_, err := tdlconv.Convert("scores:\n  '[k: string]': number\n")
	require.Error(t, err)
	ae, ok := tdlconv.AsAuthoringError(err)
	require.True(t, ok)
	assert.Equal(t, tdlconv.CodeDialect, ae.Code)
}

// Scenario 5: recursive named type terminates and produces a $defs entry.
func TestConvert_RecursiveNamedType(t *testing.T) {
	openai, gemini := convertJSON(t, "Tree:\n  value: number\n  children[]: Tree\nroot: Tree\n")

	for _, got := range []map[string]any{openai, gemini} {
		tree := got["$defs"].(map[string]any)["Tree"].(map[string]any)
		children := tree["properties"].(map[string]any)["children"].(map[string]any)
		assert.Equal(t, "array", children["type"])
		assert.Equal(t, "#/$defs/Tree", children["items"].(map[string]any)["$ref"])
	}
}

// Scenario 6: intersection override, rightmost wins.
func TestConvert_IntersectionRightmostWins(t *testing.T) {
	src := "A:\n  x: string\n  y: string\nB:\n  x: number\nout: A & B\n"
	openai, gemini := convertJSON(t, src)

	for _, got := range []map[string]any{openai, gemini} {
		out := got["properties"].(map[string]any)["out"].(map[string]any)
		oprops := out["properties"].(map[string]any)
		assert.Equal(t, "number", oprops["x"].(map[string]any)["type"], "rightmost operand wins")
		assert.Equal(t, "string", oprops["y"].(map[string]any)["type"])
	}
}

func TestConvert_RefGenericLowersToString(t *testing.T) {
	openai, _ := convertJSON(t, "id: Ref<Widget>\n")
	id := openai["properties"].(map[string]any)["id"].(map[string]any)
	assert.Equal(t, "string", id["type"])
}

func TestConvert_NeverProperty(t *testing.T) {
	openai, gemini := convertJSON(t, "x: never\n")
	for _, got := range []map[string]any{openai, gemini} {
		x := got["properties"].(map[string]any)["x"].(map[string]any)
		assert.Equal(t, float64(1), x["minimum"])
		assert.Equal(t, float64(0), x["maximum"])
	}
}

func TestConvert_EnumDomainIndexSignature(t *testing.T) {
	src := "scores:\n  \"[k: 'a'|'b']\": number\n"
	openai, gemini := convertJSON(t, src)

	oScores := openai["properties"].(map[string]any)["scores"].(map[string]any)
	oProps := oScores["properties"].(map[string]any)
	assert.Equal(t, "number", oProps["a"].(map[string]any)["type"])
	assert.Equal(t, "number", oProps["b"].(map[string]any)["type"])
	assert.Contains(t, oScores["required"], "a")
	assert.Contains(t, oScores["required"], "b")

	gScores := gemini["properties"].(map[string]any)["scores"].(map[string]any)
	assert.Contains(t, gScores["required"], "a")
	assert.Contains(t, gScores["required"], "b")
}

func TestConvert_ShapeErrorOnNonMappingRoot(t *testing.T) {
	_, err := tdlconv.Convert("- a\n- b\n")
	require.Error(t, err)
	ae, ok := tdlconv.AsAuthoringError(err)
	require.True(t, ok)
	assert.Equal(t, tdlconv.CodeShape, ae.Code)
}

func TestConvert_ReferenceErrorOnUndeclaredType(t *testing.T) {
	_, err := tdlconv.Convert("foo: Bar\n")
	require.Error(t, err)
	ae, ok := tdlconv.AsAuthoringError(err)
	require.True(t, ok)
	assert.Equal(t, tdlconv.CodeRef, ae.Code)
}

func TestConvert_Determinism(t *testing.T) {
	src := "Zeta:\n  a: string\nAlpha:\n  b: number\nfoo: Zeta\nbar: Alpha\n"
	r1, err := tdlconv.Convert(src)
	require.NoError(t, err)
	r2, err := tdlconv.Convert(src)
	require.NoError(t, err)

	b1, err := json.Marshal(r1.OpenAI)
	require.NoError(t, err)
	b2, err := json.Marshal(r2.OpenAI)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2), "Convert must be deterministic")

	// $defs must preserve declaration order: Zeta before Alpha.
	assert.Less(t, strings.Index(string(b1), `"Zeta"`), strings.Index(string(b1), `"Alpha"`))
}

func TestConvert_ConcurrentCallsAreIndependent(t *testing.T) {
	src := "Tree:\n  value: number\n  children[]: Tree\nroot: Tree\nfoo: string\n"
	const n = 16
	results := make([][]byte, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := tdlconv.Convert(src)
			if !assert.NoError(t, err) {
				return
			}
			b, _ := json.Marshal(res.OpenAI)
			results[i] = b
		}()
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		assert.Equal(t, string(results[0]), string(results[i]), "concurrent Convert calls diverged at index %d", i)
	}
}

func TestConvert_EveryNamedTypeEagerlyRegistered(t *testing.T) {
	openai, gemini := convertJSON(t, "Unused:\n  a: string\nfoo: string\n")
	for _, got := range []map[string]any{openai, gemini} {
		assert.Contains(t, got["$defs"].(map[string]any), "Unused")
	}
}
