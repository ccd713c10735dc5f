package elements

import "fmt"

// Entry is one raw record pulled from a dataset split. Keys are feature
// names and values hold whatever shape the feature's descriptor declares:
// scalars, strings, slices, or the translation value types below.
type Entry map[string]interface{}

// TranslationPair is one language code and its translated text.
type TranslationPair struct {
	Language string
	Text     string
}

// Translation is the raw value of a fixed-language translation feature.
// Pair order is the declaration order of the languages in the dataset's
// schema, so converting the same entry twice walks the languages in the
// same order.
type Translation struct {
	Pairs []TranslationPair
}

func NewTranslation(pairs ...TranslationPair) Translation {
	return Translation{Pairs: pairs}
}

func (obj Translation) Languages() []string {
	languages := make([]string, len(obj.Pairs))
	for i, pair := range obj.Pairs {
		languages[i] = pair.Language
	}
	return languages
}

func (obj Translation) Texts() []string {
	texts := make([]string, len(obj.Pairs))
	for i, pair := range obj.Pairs {
		texts[i] = pair.Text
	}
	return texts
}

// VariableTranslation is the raw value of a variable-language translation
// feature. Languages and Translations are parallel lists aligned by index.
type VariableTranslation struct {
	Languages    []string
	Translations []string
}

func (obj VariableTranslation) IsValid() error {
	if len(obj.Languages) != len(obj.Translations) {
		return fmt.Errorf(
			"%w| got %d languages and %d translations",
			ErrTranslationInvalid, len(obj.Languages), len(obj.Translations),
		)
	}
	return nil
}
