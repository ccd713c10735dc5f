package datasetops

import (
	"errors"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"

	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
)

func buildSchema(t *testing.T, schemaFields ...features.SchemaField) *features.Schema {
	schema := features.NewSchema()
	for _, schemaField := range schemaFields {
		if _, err := schema.AddFeature(schemaField.Name, schemaField.Feature); err != nil {
			t.Fatalf("failed to build schema: %s", err)
		}
	}
	return schema
}

func buildSampleRecord(t *testing.T, mem *memory.GoAllocator, schema *features.Schema) arrow.Record {
	arrowSchema, err := FeatureSchemaArrowSchema(schema)
	if err != nil {
		t.Fatalf("failed to build arrow schema: %s", err)
	}

	recBuilder := array.NewRecordBuilder(mem, arrowSchema)
	defer recBuilder.Release()

	recBuilder.Field(0).(*array.StringBuilder).AppendValues(
		[]string{"hello world", "goodbye"}, nil,
	)
	recBuilder.Field(1).(*array.Int64Builder).AppendValues([]int64{1, 0}, nil)

	tokensBuilder := recBuilder.Field(2).(*array.ListBuilder)
	tokensValueBuilder := tokensBuilder.ValueBuilder().(*array.StringBuilder)
	for _, tokens := range [][]string{{"hello", "world"}, {}} {
		tokensBuilder.Append(true)
		tokensValueBuilder.AppendValues(tokens, nil)
	}

	tagsBuilder := recBuilder.Field(3).(*array.ListBuilder)
	tagsValueBuilder := tagsBuilder.ValueBuilder().(*array.Int64Builder)
	for _, tags := range [][]int64{{0, 2}, {1}} {
		tagsBuilder.Append(true)
		tagsValueBuilder.AppendValues(tags, nil)
	}

	translationBuilder := recBuilder.Field(4).(*array.StructBuilder)
	enBuilder := translationBuilder.FieldBuilder(0).(*array.StringBuilder)
	frBuilder := translationBuilder.FieldBuilder(1).(*array.StringBuilder)
	for _, pair := range [][2]string{{"hello", "bonjour"}, {"goodbye", "au revoir"}} {
		translationBuilder.Append(true)
		enBuilder.Append(pair[0])
		frBuilder.Append(pair[1])
	}

	return recBuilder.NewRecord()
}

func sampleSchema(t *testing.T) *features.Schema {
	return buildSchema(t,
		features.SchemaField{Name: "text", Feature: features.Value{Dtype: "string"}},
		features.SchemaField{Name: "label", Feature: features.ClassLabel{Names: []string{"neg", "pos"}}},
		features.SchemaField{Name: "tokens", Feature: features.Sequence{Inner: features.Value{Dtype: "string"}}},
		features.SchemaField{Name: "tags", Feature: features.Sequence{Inner: features.ClassLabel{Names: []string{"O", "B", "I"}}}},
		features.SchemaField{Name: "translation", Feature: features.Translation{Languages: []string{"en", "fr"}}},
	)
}

func TestExtractEntry(t *testing.T) {

	mem := memory.NewGoAllocator()
	schema := sampleSchema(t)
	record := buildSampleRecord(t, mem, schema)
	defer record.Release()

	entry, err := ExtractEntry(schema, record, 0)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, "hello world", entry["text"])
	assert.Equal(t, int64(1), entry["label"])
	assert.Equal(t, []string{"hello", "world"}, entry["tokens"])
	assert.Equal(t, []interface{}{int64(0), int64(2)}, entry["tags"])
	assert.Equal(
		t,
		elements.NewTranslation(
			elements.TranslationPair{Language: "en", Text: "hello"},
			elements.TranslationPair{Language: "fr", Text: "bonjour"},
		),
		entry["translation"],
	)

	secondEntry, err := ExtractEntry(schema, record, 1)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "goodbye", secondEntry["text"])
	assert.Equal(t, []string{}, secondEntry["tokens"])
}

func TestExtractEntry_LargeStringValue(t *testing.T) {

	mem := memory.NewGoAllocator()
	schema := buildSchema(t, features.SchemaField{
		Name: "text", Feature: features.Value{Dtype: "large_string"},
	})
	arrowSchema, err := FeatureSchemaArrowSchema(schema)
	if !assert.Nil(t, err) {
		return
	}

	recBuilder := array.NewRecordBuilder(mem, arrowSchema)
	defer recBuilder.Release()
	recBuilder.Field(0).(*array.LargeStringBuilder).AppendValues(
		[]string{"hello world"}, nil,
	)

	record := recBuilder.NewRecord()
	defer record.Release()

	entry, err := ExtractEntry(schema, record, 0)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "hello world", entry["text"])
}

func TestExtractEntry_LargeStringBackedSequence(t *testing.T) {

	// parquet readers may hand back list columns with large string values
	// even when the feature declares a plain string sequence
	mem := memory.NewGoAllocator()
	schema := buildSchema(t, features.SchemaField{
		Name: "tokens", Feature: features.Sequence{Inner: features.Value{Dtype: "string"}},
	})
	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "tokens", Type: arrow.ListOf(arrow.BinaryTypes.LargeString)},
	}, nil)

	recBuilder := array.NewRecordBuilder(mem, arrowSchema)
	defer recBuilder.Release()

	tokensBuilder := recBuilder.Field(0).(*array.ListBuilder)
	tokensValueBuilder := tokensBuilder.ValueBuilder().(*array.LargeStringBuilder)
	tokensBuilder.Append(true)
	tokensValueBuilder.AppendValues([]string{"hello", "world"}, nil)

	record := recBuilder.NewRecord()
	defer record.Release()

	entry, err := ExtractEntry(schema, record, 0)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []string{"hello", "world"}, entry["tokens"])
}

func TestExtractEntry_RowOutOfRange(t *testing.T) {

	mem := memory.NewGoAllocator()
	schema := sampleSchema(t)
	record := buildSampleRecord(t, mem, schema)
	defer record.Release()

	_, err := ExtractEntry(schema, record, 2)
	assert.True(t, errors.Is(err, ErrRowIndexOutOfRange))
}

func TestExtractEntry_VariableTranslation(t *testing.T) {

	mem := memory.NewGoAllocator()
	schema := buildSchema(t, features.SchemaField{
		Name: "translation", Feature: features.TranslationVariableLanguages{Languages: []string{"en", "fr"}},
	})
	arrowSchema, err := FeatureSchemaArrowSchema(schema)
	if !assert.Nil(t, err) {
		return
	}

	recBuilder := array.NewRecordBuilder(mem, arrowSchema)
	defer recBuilder.Release()

	structBuilder := recBuilder.Field(0).(*array.StructBuilder)
	languageBuilder := structBuilder.FieldBuilder(0).(*array.ListBuilder)
	languageValueBuilder := languageBuilder.ValueBuilder().(*array.StringBuilder)
	translationBuilder := structBuilder.FieldBuilder(1).(*array.ListBuilder)
	translationValueBuilder := translationBuilder.ValueBuilder().(*array.StringBuilder)

	structBuilder.Append(true)
	languageBuilder.Append(true)
	languageValueBuilder.AppendValues([]string{"en", "fr"}, nil)
	translationBuilder.Append(true)
	translationValueBuilder.AppendValues([]string{"hello", "bonjour"}, nil)

	record := recBuilder.NewRecord()
	defer record.Release()

	entry, err := ExtractEntry(schema, record, 0)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(
		t,
		elements.VariableTranslation{
			Languages:    []string{"en", "fr"},
			Translations: []string{"hello", "bonjour"},
		},
		entry["translation"],
	)
}

func TestDatasetEntryIterator(t *testing.T) {

	mem := memory.NewGoAllocator()
	schema := sampleSchema(t)
	firstRecord := buildSampleRecord(t, mem, schema)
	defer firstRecord.Release()
	secondRecord := buildSampleRecord(t, mem, schema)
	defer secondRecord.Release()

	dataset, err := NewDataset(
		elements.NewSplitKey("sample", "", "train"),
		schema,
		[]arrow.Record{firstRecord, secondRecord},
	)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, int64(4), dataset.NumRows())

	entryIterator := dataset.Read()
	texts := make([]string, 0, 4)
	for entryIterator.Next() {
		texts = append(texts, entryIterator.Entry()["text"].(string))
	}
	if !assert.Nil(t, entryIterator.Err()) {
		return
	}
	assert.Equal(t, []string{"hello world", "goodbye", "hello world", "goodbye"}, texts)
}

func TestNewDataset_MissingColumn(t *testing.T) {

	mem := memory.NewGoAllocator()
	schema := sampleSchema(t)
	record := buildSampleRecord(t, mem, schema)
	defer record.Release()

	extendedSchema := sampleSchema(t)
	if _, err := extendedSchema.AddFeature("extra", features.Value{Dtype: "string"}); err != nil {
		t.Fatalf("failed to build schema: %s", err)
	}

	_, err := NewDataset(
		elements.NewSplitKey("sample", "", "train"),
		extendedSchema,
		[]arrow.Record{record},
	)
	assert.True(t, errors.Is(err, ErrDatasetInvalid))
}
