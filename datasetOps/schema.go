package datasetops

import (
	"fmt"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"

	"github.com/alekLukanen/DatasetBridge/features"
)

/*
* Build the arrow schema a split's parquet data is expected to carry for
* the given feature schema.
 */
func FeatureSchemaArrowSchema(schema *features.Schema) (*arrow.Schema, error) {
	arrowFields := make([]arrow.Field, 0, schema.NumFields())
	for _, schemaField := range schema.Fields() {
		arrowType, err := FeatureArrowType(schemaField.Feature)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("feature %s", schemaField.Name))
		}
		arrowFields = append(arrowFields, arrow.Field{
			Name: schemaField.Name,
			Type: arrowType,
		})
	}
	return arrow.NewSchema(arrowFields, nil), nil
}

func FeatureArrowType(feature features.IFeature) (arrow.DataType, error) {
	switch typedFeature := feature.(type) {
	case features.ClassLabel:
		return arrow.PrimitiveTypes.Int64, nil

	case features.Value:
		return valueDtypeArrowType(typedFeature.Dtype)

	case features.Sequence:
		switch innerFeature := typedFeature.Inner.(type) {
		case features.Value:
			if !innerFeature.IsString() {
				return nil, errs.NewStackError(
					fmt.Errorf("%w| sequence of %s", ErrUnsupportedDataType, innerFeature.Dtype),
				)
			}
			return arrow.ListOf(arrow.BinaryTypes.String), nil
		case features.ClassLabel:
			return arrow.ListOf(arrow.PrimitiveTypes.Int64), nil
		default:
			return nil, errs.NewStackError(
				fmt.Errorf("%w| sequence of %s", ErrUnsupportedDataType, typedFeature.Inner.TypeName()),
			)
		}

	case features.Translation:
		structFields := make([]arrow.Field, len(typedFeature.Languages))
		for i, language := range typedFeature.Languages {
			structFields[i] = arrow.Field{Name: language, Type: arrow.BinaryTypes.String}
		}
		return arrow.StructOf(structFields...), nil

	case features.TranslationVariableLanguages:
		return arrow.StructOf(
			arrow.Field{Name: "language", Type: arrow.ListOf(arrow.BinaryTypes.String)},
			arrow.Field{Name: "translation", Type: arrow.ListOf(arrow.BinaryTypes.String)},
		), nil

	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| feature type %s", ErrUnsupportedDataType, feature.TypeName()),
		)
	}
}

func valueDtypeArrowType(dtype string) (arrow.DataType, error) {
	switch dtype {
	case "string":
		return arrow.BinaryTypes.String, nil
	case "large_string":
		return arrow.BinaryTypes.LargeString, nil
	case "bool":
		return arrow.FixedWidthTypes.Boolean, nil
	case "int8":
		return arrow.PrimitiveTypes.Int8, nil
	case "int16":
		return arrow.PrimitiveTypes.Int16, nil
	case "int32":
		return arrow.PrimitiveTypes.Int32, nil
	case "int64":
		return arrow.PrimitiveTypes.Int64, nil
	case "uint8":
		return arrow.PrimitiveTypes.Uint8, nil
	case "uint16":
		return arrow.PrimitiveTypes.Uint16, nil
	case "uint32":
		return arrow.PrimitiveTypes.Uint32, nil
	case "uint64":
		return arrow.PrimitiveTypes.Uint64, nil
	case "float32":
		return arrow.PrimitiveTypes.Float32, nil
	case "float64":
		return arrow.PrimitiveTypes.Float64, nil
	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| dtype %s", ErrUnsupportedDataType, dtype),
		)
	}
}
