package operations

import (
	"fmt"

	"github.com/alekLukanen/errs"

	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
	"github.com/alekLukanen/DatasetBridge/fields"
)

// LanguagesNamespace is the label namespace used for the language half of
// translation fields.
const LanguagesNamespace = "languages"

/*
* Convert one raw entry into an instance using the split's feature schema.
* Every feature in the schema is converted; a failure on any feature fails
* the whole entry with no partial instance. Sequence features whose raw
* list is empty are left out of the instance entirely.
 */
func EntryToInstance(schema *features.Schema, entry elements.Entry) (fields.Instance, error) {
	instance := fields.NewInstance()

	for _, schemaField := range schema.Fields() {
		field, include, err := convertFeature(schemaField.Name, schemaField.Feature, entry)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("feature %s", schemaField.Name))
		}
		if !include {
			continue
		}
		instance[schemaField.Name] = field
	}

	return instance, nil
}

func convertFeature(name string, feature features.IFeature, entry elements.Entry) (fields.IField, bool, error) {
	switch typedFeature := feature.(type) {
	case features.ClassLabel:
		value, err := entryValue(entry, name)
		if err != nil {
			return nil, false, err
		}
		return fields.NewLabelField(value, name), true, nil

	case features.Value:
		value, err := entryValue(entry, name)
		if err != nil {
			return nil, false, err
		}
		if typedFeature.IsString() {
			text, ok := value.(string)
			if !ok {
				return nil, false, errs.NewStackError(
					fmt.Errorf("%w| expected a string got %T", ErrEntryValueInvalid, value),
				)
			}
			return fields.NewTextField(text), true, nil
		}
		return fields.NewLabelField(value, name), true, nil

	case features.Sequence:
		return convertSequence(name, typedFeature, entry)

	case features.Translation:
		value, err := entryValue(entry, name)
		if err != nil {
			return nil, false, err
		}
		translation, ok := value.(elements.Translation)
		if !ok {
			return nil, false, errs.NewStackError(
				fmt.Errorf("%w| expected a translation got %T", ErrEntryValueInvalid, value),
			)
		}
		return translationField(translation.Languages(), translation.Texts()), true, nil

	case features.TranslationVariableLanguages:
		value, err := entryValue(entry, name)
		if err != nil {
			return nil, false, err
		}
		translation, ok := value.(elements.VariableTranslation)
		if !ok {
			return nil, false, errs.NewStackError(
				fmt.Errorf("%w| expected a variable translation got %T", ErrEntryValueInvalid, value),
			)
		}
		if err := translation.IsValid(); err != nil {
			return nil, false, errs.NewStackError(err)
		}
		return translationField(translation.Languages, translation.Translations), true, nil

	default:
		return nil, false, errs.NewStackError(
			fmt.Errorf("%w| type %s", ErrUnsupportedFeatureConversion, feature.TypeName()),
		)
	}
}

func convertSequence(name string, feature features.Sequence, entry elements.Entry) (fields.IField, bool, error) {
	switch innerFeature := feature.Inner.(type) {
	case features.Value:
		if !innerFeature.IsString() {
			return nil, false, errs.NewStackError(
				fmt.Errorf("%w| inner type %s dtype %s", ErrUnsupportedSequenceFeature, innerFeature.TypeName(), innerFeature.Dtype),
			)
		}
		value, err := entryValue(entry, name)
		if err != nil {
			return nil, false, err
		}
		items, err := stringItems(value)
		if err != nil {
			return nil, false, err
		}
		if len(items) == 0 {
			return nil, false, nil
		}
		listFields := make([]fields.IField, len(items))
		for i, item := range items {
			listFields[i] = fields.NewTextField(item)
		}
		return fields.NewListField(listFields...), true, nil

	case features.ClassLabel:
		value, err := entryValue(entry, name)
		if err != nil {
			return nil, false, err
		}
		items, err := genericItems(value)
		if err != nil {
			return nil, false, err
		}
		if len(items) == 0 {
			return nil, false, nil
		}
		listFields := make([]fields.IField, len(items))
		for i, item := range items {
			listFields[i] = fields.NewLabelField(item, name)
		}
		return fields.NewListField(listFields...), true, nil

	default:
		return nil, false, errs.NewStackError(
			fmt.Errorf("%w| inner type %s", ErrUnsupportedSequenceFeature, feature.Inner.TypeName()),
		)
	}
}

// translationField pairs a language label list with a text list. The two
// halves are aligned strictly by index.
func translationField(languages []string, texts []string) fields.ListField {
	languageFields := make([]fields.IField, len(languages))
	for i, language := range languages {
		languageFields[i] = fields.NewLabelField(language, LanguagesNamespace)
	}

	textFields := make([]fields.IField, len(texts))
	for i, text := range texts {
		textFields[i] = fields.NewTextField(text)
	}

	return fields.NewListField(
		fields.NewListField(languageFields...),
		fields.NewListField(textFields...),
	)
}

func entryValue(entry elements.Entry, name string) (interface{}, error) {
	value, exists := entry[name]
	if !exists {
		return nil, errs.NewStackError(
			fmt.Errorf("%w| %s", ErrEntryFieldMissing, name),
		)
	}
	return value, nil
}

func stringItems(value interface{}) ([]string, error) {
	switch typedValue := value.(type) {
	case []string:
		return typedValue, nil
	case []interface{}:
		items := make([]string, len(typedValue))
		for i, item := range typedValue {
			text, ok := item.(string)
			if !ok {
				return nil, errs.NewStackError(
					fmt.Errorf("%w| list item %d is %T not a string", ErrEntryValueInvalid, i, item),
				)
			}
			items[i] = text
		}
		return items, nil
	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| expected a string list got %T", ErrEntryValueInvalid, value),
		)
	}
}

func genericItems(value interface{}) ([]interface{}, error) {
	switch typedValue := value.(type) {
	case []interface{}:
		return typedValue, nil
	case []string:
		items := make([]interface{}, len(typedValue))
		for i, item := range typedValue {
			items[i] = item
		}
		return items, nil
	case []int64:
		items := make([]interface{}, len(typedValue))
		for i, item := range typedValue {
			items[i] = item
		}
		return items, nil
	case []int:
		items := make([]interface{}, len(typedValue))
		for i, item := range typedValue {
			items[i] = item
		}
		return items, nil
	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| expected a list got %T", ErrEntryValueInvalid, value),
		)
	}
}
