package features

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alekLukanen/errs"
)

type featureDTO struct {
	Type      string          `json:"_type"`
	Dtype     string          `json:"dtype"`
	Names     []string        `json:"names"`
	Languages []string        `json:"languages"`
	Feature   json.RawMessage `json:"feature"`
}

/*
* Parse a dataset info features document into a schema. The document is a
* JSON object mapping feature names to type-tagged descriptors. A token
* level walk is used instead of unmarshalling into a map so the schema
* keeps the document's field order.
 */
func ParseSchema(data []byte) (*Schema, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))

	tok, err := decoder.Token()
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed reading features document"))
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errs.NewStackError(
			fmt.Errorf("%w| features document is not a JSON object", ErrSchemaInvalid),
		)
	}

	schema := NewSchema()
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("failed reading feature name"))
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, errs.NewStackError(
				fmt.Errorf("%w| feature name is not a string", ErrSchemaInvalid),
			)
		}

		var rawFeature json.RawMessage
		if err := decoder.Decode(&rawFeature); err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("failed reading descriptor for feature %s", name))
		}

		feature, err := ParseFeature(rawFeature)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("feature %s", name))
		}

		if _, err := schema.AddFeature(name, feature); err != nil {
			return nil, errs.NewStackError(err)
		}
	}

	return schema, nil
}

// ParseFeature parses a single type-tagged feature descriptor. A
// descriptor without a _type but with a dtype is the shorthand form of a
// Value descriptor.
func ParseFeature(data []byte) (IFeature, error) {
	var dto featureDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed unmarshalling feature descriptor"))
	}

	if dto.Type == "" && dto.Dtype != "" {
		dto.Type = ValueTypeName
	}

	switch dto.Type {
	case ClassLabelTypeName:
		return ClassLabel{Names: dto.Names}, nil
	case ValueTypeName:
		if dto.Dtype == "" {
			return nil, errs.NewStackError(
				fmt.Errorf("%w| Value descriptor has no dtype", ErrSchemaInvalid),
			)
		}
		return Value{Dtype: dto.Dtype}, nil
	case SequenceTypeName:
		if len(dto.Feature) == 0 {
			return nil, errs.NewStackError(
				fmt.Errorf("%w| Sequence descriptor has no inner feature", ErrSchemaInvalid),
			)
		}
		inner, err := ParseFeature(dto.Feature)
		if err != nil {
			return nil, err
		}
		return Sequence{Inner: inner}, nil
	case TranslationTypeName:
		return Translation{Languages: dto.Languages}, nil
	case TranslationVariableLanguagesTypeName:
		return TranslationVariableLanguages{Languages: dto.Languages}, nil
	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| type %q", ErrUnsupportedFeatureType, dto.Type),
		)
	}
}
