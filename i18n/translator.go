// Package i18n provides localized labels for the authoring-error
// categories (spec §7). The converter itself never needs translation —
// AuthoringError.Message is always English — but the CLI's error line
// prefixes the message with a localized category label, which is the
// only ambient surface where this package is exercised.
package i18n

// Translator retrieves a localized category label for an authoring-error
// code. data carries optional metadata (currently unused, kept for parity
// with richer translators a caller might plug in).
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "shape_error":
			return "形式エラー"
		case "label_error":
			return "ラベルエラー"
		case "type_expr_error":
			return "型式エラー"
		case "reference_error":
			return "参照エラー"
		case "dialect_error":
			return "方言エラー"
		}
	default: // "en"
		switch code {
		case "shape_error":
			return "shape error"
		case "label_error":
			return "label error"
		case "type_expr_error":
			return "type-expression error"
		case "reference_error":
			return "reference error"
		case "dialect_error":
			return "dialect error"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a category label for code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
