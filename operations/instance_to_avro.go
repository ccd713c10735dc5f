package operations

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alekLukanen/errs"
	"github.com/linkedin/goavro/v2"

	"github.com/alekLukanen/DatasetBridge/features"
	"github.com/alekLukanen/DatasetBridge/fields"
)

/*
* Build an avro codec for instances converted under the given feature
* schema. Downstream trainers consume instance batches as avro binary so
* each feature kind has a fixed avro shape.
 */
func FeatureSchemaAvroCodec(schema *features.Schema) (*goavro.Codec, error) {
	type avroField struct {
		Name string      `json:"name"`
		Type interface{} `json:"type"`
	}
	type avroSchemaTemplate struct {
		Type   string      `json:"type"`
		Name   string      `json:"name"`
		Fields []avroField `json:"fields"`
	}

	avroSchema := avroSchemaTemplate{
		Type:   "record",
		Name:   "instanceRecord",
		Fields: make([]avroField, 0),
	}

	for _, schemaField := range schema.Fields() {
		avroType, err := FeatureToAvroType(schemaField.Feature)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("feature %s", schemaField.Name))
		}
		avroSchema.Fields = append(avroSchema.Fields, avroField{
			Name: schemaField.Name,
			Type: avroType,
		})
	}

	codecData, err := json.Marshal(avroSchema)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	codec, err := goavro.NewCodec(string(codecData))
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return codec, nil
}

func FeatureToAvroType(feature features.IFeature) (interface{}, error) {
	switch typedFeature := feature.(type) {
	case features.ClassLabel:
		return "long", nil
	case features.Value:
		return valueDtypeToAvroType(typedFeature.Dtype)
	case features.Sequence:
		switch innerFeature := typedFeature.Inner.(type) {
		case features.Value:
			if !innerFeature.IsString() {
				return nil, errs.NewStackError(ErrUnsupportedFeatureToAvroConversion)
			}
			return map[string]interface{}{"type": "array", "items": "string"}, nil
		case features.ClassLabel:
			return map[string]interface{}{"type": "array", "items": "long"}, nil
		default:
			return nil, errs.NewStackError(ErrUnsupportedFeatureToAvroConversion)
		}
	case features.Translation:
		return map[string]interface{}{"type": "map", "values": "string"}, nil
	case features.TranslationVariableLanguages:
		return map[string]interface{}{
			"type": "record",
			"name": "variableTranslation",
			"fields": []interface{}{
				map[string]interface{}{
					"name": "language",
					"type": map[string]interface{}{"type": "array", "items": "string"},
				},
				map[string]interface{}{
					"name": "translation",
					"type": map[string]interface{}{"type": "array", "items": "string"},
				},
			},
		}, nil
	default:
		return nil, errs.NewStackError(ErrUnsupportedFeatureToAvroConversion)
	}
}

func valueDtypeToAvroType(dtype string) (interface{}, error) {
	switch dtype {
	case "string", "large_string":
		return "string", nil
	case "bool":
		return "boolean", nil
	case "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64":
		return "long", nil
	case "float16", "float32", "float64":
		return "double", nil
	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| dtype %s", ErrUnsupportedFeatureToAvroConversion, dtype),
		)
	}
}

/*
* Flatten an instance back to avro native data for the schema's codec.
* Sequence features omitted from the instance encode as empty arrays.
 */
func InstanceToAvroNative(schema *features.Schema, instance fields.Instance) (map[string]interface{}, error) {
	nativeData := make(map[string]interface{})

	for _, schemaField := range schema.Fields() {
		field, exists := instance[schemaField.Name]
		if !exists {
			if _, isSequence := schemaField.Feature.(features.Sequence); isSequence {
				nativeData[schemaField.Name] = []interface{}{}
				continue
			}
			return nil, errs.NewStackError(
				fmt.Errorf("%w| instance has no field %s", ErrInstanceFieldInvalid, schemaField.Name),
			)
		}

		nativeValue, err := fieldToAvroNative(schemaField.Feature, field)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("feature %s", schemaField.Name))
		}
		nativeData[schemaField.Name] = nativeValue
	}

	return nativeData, nil
}

func fieldToAvroNative(feature features.IFeature, field fields.IField) (interface{}, error) {
	switch typedFeature := feature.(type) {
	case features.ClassLabel:
		labelField, ok := field.(fields.LabelField)
		if !ok {
			return nil, errs.NewStackError(ErrInstanceFieldInvalid)
		}
		return labelToLong(labelField.Label)

	case features.Value:
		if typedFeature.IsString() {
			textField, ok := field.(fields.TextField)
			if !ok {
				return nil, errs.NewStackError(ErrInstanceFieldInvalid)
			}
			return textFieldText(textField), nil
		}
		labelField, ok := field.(fields.LabelField)
		if !ok {
			return nil, errs.NewStackError(ErrInstanceFieldInvalid)
		}
		return scalarToAvroNative(typedFeature.Dtype, labelField.Label)

	case features.Sequence:
		listField, ok := field.(fields.ListField)
		if !ok {
			return nil, errs.NewStackError(ErrInstanceFieldInvalid)
		}
		items := make([]interface{}, len(listField.Fields))
		for i, itemField := range listField.Fields {
			switch typedItem := itemField.(type) {
			case fields.TextField:
				items[i] = textFieldText(typedItem)
			case fields.LabelField:
				longValue, err := labelToLong(typedItem.Label)
				if err != nil {
					return nil, err
				}
				items[i] = longValue
			default:
				return nil, errs.NewStackError(ErrInstanceFieldInvalid)
			}
		}
		return items, nil

	case features.Translation:
		languages, texts, err := translationHalves(field)
		if err != nil {
			return nil, err
		}
		translationMap := make(map[string]interface{}, len(languages))
		for i, language := range languages {
			translationMap[language] = texts[i]
		}
		return translationMap, nil

	case features.TranslationVariableLanguages:
		languages, texts, err := translationHalves(field)
		if err != nil {
			return nil, err
		}
		languageItems := make([]interface{}, len(languages))
		for i, language := range languages {
			languageItems[i] = language
		}
		textItems := make([]interface{}, len(texts))
		for i, text := range texts {
			textItems[i] = text
		}
		return map[string]interface{}{
			"language":    languageItems,
			"translation": textItems,
		}, nil

	default:
		return nil, errs.NewStackError(ErrUnsupportedFeatureToAvroConversion)
	}
}

// translationHalves splits a translation pair field back into its language
// and text lists.
func translationHalves(field fields.IField) ([]string, []string, error) {
	pairField, ok := field.(fields.ListField)
	if !ok || pairField.Len() != 2 {
		return nil, nil, errs.NewStackError(ErrInstanceFieldInvalid)
	}
	languageList, ok := pairField.Fields[0].(fields.ListField)
	if !ok {
		return nil, nil, errs.NewStackError(ErrInstanceFieldInvalid)
	}
	textList, ok := pairField.Fields[1].(fields.ListField)
	if !ok {
		return nil, nil, errs.NewStackError(ErrInstanceFieldInvalid)
	}
	if languageList.Len() != textList.Len() {
		return nil, nil, errs.NewStackError(ErrInstanceFieldInvalid)
	}

	languages := make([]string, languageList.Len())
	for i, languageField := range languageList.Fields {
		labelField, ok := languageField.(fields.LabelField)
		if !ok {
			return nil, nil, errs.NewStackError(ErrInstanceFieldInvalid)
		}
		language, ok := labelField.Label.(string)
		if !ok {
			return nil, nil, errs.NewStackError(ErrInstanceFieldInvalid)
		}
		languages[i] = language
	}

	texts := make([]string, textList.Len())
	for i, textField := range textList.Fields {
		typedTextField, ok := textField.(fields.TextField)
		if !ok {
			return nil, nil, errs.NewStackError(ErrInstanceFieldInvalid)
		}
		texts[i] = textFieldText(typedTextField)
	}

	return languages, texts, nil
}

func textFieldText(field fields.TextField) string {
	if len(field.Tokens) == 1 {
		return field.Tokens[0].Text
	}
	tokenTexts := make([]string, len(field.Tokens))
	for i, token := range field.Tokens {
		tokenTexts[i] = token.Text
	}
	return strings.Join(tokenTexts, " ")
}

func labelToLong(label interface{}) (int64, error) {
	switch typedLabel := label.(type) {
	case int:
		return int64(typedLabel), nil
	case int8:
		return int64(typedLabel), nil
	case int16:
		return int64(typedLabel), nil
	case int32:
		return int64(typedLabel), nil
	case int64:
		return typedLabel, nil
	case uint8:
		return int64(typedLabel), nil
	case uint16:
		return int64(typedLabel), nil
	case uint32:
		return int64(typedLabel), nil
	case uint64:
		return int64(typedLabel), nil
	case uint:
		return int64(typedLabel), nil
	default:
		return 0, errs.NewStackError(
			fmt.Errorf("%w| label is %T not an integer", ErrInstanceFieldInvalid, label),
		)
	}
}

func scalarToAvroNative(dtype string, value interface{}) (interface{}, error) {
	switch dtype {
	case "large_string":
		typedValue, ok := value.(string)
		if !ok {
			return nil, errs.NewStackError(ErrInstanceFieldInvalid)
		}
		return typedValue, nil
	case "bool":
		typedValue, ok := value.(bool)
		if !ok {
			return nil, errs.NewStackError(ErrInstanceFieldInvalid)
		}
		return typedValue, nil
	case "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64":
		return labelToLong(value)
	case "float16", "float32", "float64":
		switch typedValue := value.(type) {
		case float32:
			return float64(typedValue), nil
		case float64:
			return typedValue, nil
		default:
			return nil, errs.NewStackError(ErrInstanceFieldInvalid)
		}
	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| dtype %s", ErrUnsupportedFeatureToAvroConversion, dtype),
		)
	}
}

/*
* Encode a batch of instances to avro binary, one message per instance.
 */
func InstancesToAvro(schema *features.Schema, instances []fields.Instance) ([][]byte, error) {
	codec, err := FeatureSchemaAvroCodec(schema)
	if err != nil {
		return nil, err
	}

	data := make([][]byte, len(instances))
	for i, instance := range instances {
		nativeData, err := InstanceToAvroNative(schema, instance)
		if err != nil {
			return nil, err
		}
		msgData, err := codec.BinaryFromNative(nil, nativeData)
		if err != nil {
			return nil, errs.Wrap(err)
		}
		data[i] = msgData
	}

	return data, nil
}
