package datasetops

import (
	"fmt"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
)

/*
* Extract one row of an arrow record as a raw entry. The feature schema
* drives the extraction: each feature's descriptor decides how its column
* is decoded.
 */
func ExtractEntry(schema *features.Schema, record arrow.Record, rowIndex int) (elements.Entry, error) {
	if rowIndex < 0 || int64(rowIndex) >= record.NumRows() {
		return nil, errs.NewStackError(
			fmt.Errorf("%w| row %d of %d", ErrRowIndexOutOfRange, rowIndex, record.NumRows()),
		)
	}

	entry := make(elements.Entry, schema.NumFields())
	for _, schemaField := range schema.Fields() {
		value, err := extractFeatureValue(schemaField.Feature, record, schemaField.Name, rowIndex)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("feature %s row %d", schemaField.Name, rowIndex))
		}
		entry[schemaField.Name] = value
	}

	return entry, nil
}

func featureColumn(record arrow.Record, name string) (arrow.Array, error) {
	indices := record.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, errs.NewStackError(
			fmt.Errorf("%w| %s", ErrColumnNotFound, name),
		)
	}
	if len(indices) > 1 {
		return nil, errs.NewStackError(
			fmt.Errorf("%w| %s", ErrMultipleColumnsFound, name),
		)
	}
	return record.Column(indices[0]), nil
}

func extractFeatureValue(feature features.IFeature, record arrow.Record, name string, rowIndex int) (interface{}, error) {
	col, err := featureColumn(record, name)
	if err != nil {
		return nil, err
	}

	switch typedFeature := feature.(type) {
	case features.ClassLabel:
		return integerValue(col, rowIndex)

	case features.Value:
		if typedFeature.IsString() {
			return stringValue(col, rowIndex)
		}
		return scalarValue(col, rowIndex)

	case features.Sequence:
		switch innerFeature := typedFeature.Inner.(type) {
		case features.Value:
			if !innerFeature.IsString() {
				return nil, errs.NewStackError(
					fmt.Errorf("%w| sequence of %s", ErrUnsupportedDataType, innerFeature.Dtype),
				)
			}
			return stringListValue(col, rowIndex)
		case features.ClassLabel:
			return integerListValue(col, rowIndex)
		default:
			return nil, errs.NewStackError(
				fmt.Errorf("%w| sequence of %s", ErrUnsupportedDataType, typedFeature.Inner.TypeName()),
			)
		}

	case features.Translation:
		return translationValue(col, rowIndex)

	case features.TranslationVariableLanguages:
		return variableTranslationValue(col, rowIndex)

	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| feature type %s", ErrUnsupportedDataType, feature.TypeName()),
		)
	}
}

func integerValue(arr arrow.Array, rowIndex int) (interface{}, error) {
	switch typedArr := arr.(type) {
	case *array.Int64:
		return typedArr.Value(rowIndex), nil
	case *array.Int32:
		return int64(typedArr.Value(rowIndex)), nil
	case *array.Int16:
		return int64(typedArr.Value(rowIndex)), nil
	case *array.Int8:
		return int64(typedArr.Value(rowIndex)), nil
	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| %s is not an integer column", ErrUnsupportedDataType, arr.DataType().ID()),
		)
	}
}

func stringValue(arr arrow.Array, rowIndex int) (interface{}, error) {
	switch typedArr := arr.(type) {
	case *array.String:
		return typedArr.Value(rowIndex), nil
	case *array.LargeString:
		return typedArr.Value(rowIndex), nil
	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| %s is not a string column", ErrUnsupportedDataType, arr.DataType().ID()),
		)
	}
}

func scalarValue(arr arrow.Array, rowIndex int) (interface{}, error) {
	switch arr.DataType().ID() {
	case arrow.BOOL:
		return arr.(*array.Boolean).Value(rowIndex), nil
	case arrow.INT8:
		return arr.(*array.Int8).Value(rowIndex), nil
	case arrow.INT16:
		return arr.(*array.Int16).Value(rowIndex), nil
	case arrow.INT32:
		return arr.(*array.Int32).Value(rowIndex), nil
	case arrow.INT64:
		return arr.(*array.Int64).Value(rowIndex), nil
	case arrow.UINT8:
		return arr.(*array.Uint8).Value(rowIndex), nil
	case arrow.UINT16:
		return arr.(*array.Uint16).Value(rowIndex), nil
	case arrow.UINT32:
		return arr.(*array.Uint32).Value(rowIndex), nil
	case arrow.UINT64:
		return arr.(*array.Uint64).Value(rowIndex), nil
	case arrow.FLOAT32:
		return arr.(*array.Float32).Value(rowIndex), nil
	case arrow.FLOAT64:
		return arr.(*array.Float64).Value(rowIndex), nil
	case arrow.STRING:
		return arr.(*array.String).Value(rowIndex), nil
	case arrow.LARGE_STRING:
		return arr.(*array.LargeString).Value(rowIndex), nil
	default:
		return nil, errs.NewStackError(
			fmt.Errorf("%w| %s", ErrUnsupportedDataType, arr.DataType().ID()),
		)
	}
}

func stringListValue(arr arrow.Array, rowIndex int) ([]string, error) {
	listArr, ok := arr.(*array.List)
	if !ok {
		return nil, errs.NewStackError(
			fmt.Errorf("%w| %s is not a list column", ErrUnsupportedDataType, arr.DataType().ID()),
		)
	}
	if listArr.IsNull(rowIndex) {
		return []string{}, nil
	}

	start, end := listArr.ValueOffsets(rowIndex)
	items := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item, err := stringValue(listArr.ListValues(), int(i))
		if err != nil {
			return nil, err
		}
		items = append(items, item.(string))
	}
	return items, nil
}

func integerListValue(arr arrow.Array, rowIndex int) ([]interface{}, error) {
	listArr, ok := arr.(*array.List)
	if !ok {
		return nil, errs.NewStackError(
			fmt.Errorf("%w| %s is not a list column", ErrUnsupportedDataType, arr.DataType().ID()),
		)
	}
	if listArr.IsNull(rowIndex) {
		return []interface{}{}, nil
	}

	start, end := listArr.ValueOffsets(rowIndex)
	items := make([]interface{}, 0, end-start)
	for i := start; i < end; i++ {
		item, err := integerValue(listArr.ListValues(), int(i))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// translationValue decodes a struct column whose fields are language codes
// into an ordered translation value. Pair order is the struct's field
// order.
func translationValue(arr arrow.Array, rowIndex int) (elements.Translation, error) {
	structArr, ok := arr.(*array.Struct)
	if !ok {
		return elements.Translation{}, errs.NewStackError(
			fmt.Errorf("%w| %s is not a struct column", ErrUnsupportedDataType, arr.DataType().ID()),
		)
	}
	structType, ok := arr.DataType().(*arrow.StructType)
	if !ok {
		return elements.Translation{}, errs.NewStackError(ErrUnsupportedDataType)
	}

	pairs := make([]elements.TranslationPair, 0, structArr.NumField())
	for i := 0; i < structArr.NumField(); i++ {
		text, err := stringValue(structArr.Field(i), rowIndex)
		if err != nil {
			return elements.Translation{}, err
		}
		pairs = append(pairs, elements.TranslationPair{
			Language: structType.Field(i).Name,
			Text:     text.(string),
		})
	}
	return elements.NewTranslation(pairs...), nil
}

func variableTranslationValue(arr arrow.Array, rowIndex int) (elements.VariableTranslation, error) {
	structArr, ok := arr.(*array.Struct)
	if !ok {
		return elements.VariableTranslation{}, errs.NewStackError(
			fmt.Errorf("%w| %s is not a struct column", ErrUnsupportedDataType, arr.DataType().ID()),
		)
	}
	structType, ok := arr.DataType().(*arrow.StructType)
	if !ok {
		return elements.VariableTranslation{}, errs.NewStackError(ErrUnsupportedDataType)
	}

	languageIndex, ok := structType.FieldIdx("language")
	if !ok {
		return elements.VariableTranslation{}, errs.NewStackError(
			fmt.Errorf("%w| language", ErrColumnNotFound),
		)
	}
	translationIndex, ok := structType.FieldIdx("translation")
	if !ok {
		return elements.VariableTranslation{}, errs.NewStackError(
			fmt.Errorf("%w| translation", ErrColumnNotFound),
		)
	}

	languages, err := stringListValue(structArr.Field(languageIndex), rowIndex)
	if err != nil {
		return elements.VariableTranslation{}, err
	}
	translations, err := stringListValue(structArr.Field(translationIndex), rowIndex)
	if err != nil {
		return elements.VariableTranslation{}, err
	}

	translation := elements.VariableTranslation{
		Languages:    languages,
		Translations: translations,
	}
	if err := translation.IsValid(); err != nil {
		return elements.VariableTranslation{}, errs.NewStackError(err)
	}
	return translation, nil
}
