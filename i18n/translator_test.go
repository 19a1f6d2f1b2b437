package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("shape_error", nil); msg == "shape_error" || msg == "" {
		t.Fatalf("expected a human label, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("shape_error", nil); msg == "shape error" {
		t.Fatalf("expected japanese label, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	SetLanguage("en")
	if msg := T("nonexistent_code", nil); msg != "nonexistent_code" {
		t.Fatalf("expected fallback to code itself, got %q", msg)
	}
}
