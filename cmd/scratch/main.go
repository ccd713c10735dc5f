package main

import (
	"log/slog"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	datasetops "github.com/alekLukanen/DatasetBridge/datasetOps"
	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
	"github.com/alekLukanen/DatasetBridge/fields"
	"github.com/alekLukanen/DatasetBridge/operations"
	"github.com/alekLukanen/DatasetBridge/reader"
	"github.com/alekLukanen/errs"
)

func main() {

	ConvertSampleSplit()

}

func ConvertSampleSplit() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("Running DatasetBridge Scratch")

	schema, err := features.ParseSchema([]byte(`{
		"text": {"_type": "Value", "dtype": "string"},
		"label": {"_type": "ClassLabel", "names": ["neg", "pos"]},
		"tokens": {"_type": "Sequence", "feature": {"_type": "Value", "dtype": "string"}}
	}`))
	if err != nil {
		logger.Error("failed to parse feature schema", slog.String("error", errs.ErrorWithStack(err)))
		return
	}

	arrowSchema, err := datasetops.FeatureSchemaArrowSchema(schema)
	if err != nil {
		logger.Error("failed to build arrow schema", slog.String("error", errs.ErrorWithStack(err)))
		return
	}

	mem := memory.NewGoAllocator()
	recBuilder := array.NewRecordBuilder(mem, arrowSchema)
	defer recBuilder.Release()

	recBuilder.Field(0).(*array.StringBuilder).AppendValues(
		[]string{"a good movie", "a terrible movie", "forgettable"}, nil,
	)
	recBuilder.Field(1).(*array.Int64Builder).AppendValues([]int64{1, 0, 0}, nil)

	listBuilder := recBuilder.Field(2).(*array.ListBuilder)
	tokenBuilder := listBuilder.ValueBuilder().(*array.StringBuilder)
	for _, tokens := range [][]string{
		{"a", "good", "movie"},
		{"a", "terrible", "movie"},
		{},
	} {
		listBuilder.Append(true)
		tokenBuilder.AppendValues(tokens, nil)
	}

	rec := recBuilder.NewRecord()
	defer rec.Release()

	dataset, err := datasetops.NewDataset(
		elements.NewSplitKey("sample", "", "train"),
		schema,
		[]arrow.Record{rec},
	)
	if err != nil {
		logger.Error("failed to build dataset", slog.String("error", errs.ErrorWithStack(err)))
		return
	}

	splitReader := reader.NewSplitReaderFromDataset(logger, dataset, reader.ReaderOptions{
		DatasetName: "sample",
	})

	instances := make([]fields.Instance, 0, dataset.NumRows())
	instanceIterator := splitReader.Read()
	for instanceIterator.Next() {
		instance := instanceIterator.Instance()
		instances = append(instances, instance)
		logger.Info("converted instance", slog.Any("fieldNames", instance.FieldNames()))
	}
	if instanceIterator.Err() != nil {
		logger.Error("failed to convert split", slog.String("error", errs.ErrorWithStack(instanceIterator.Err())))
		return
	}

	avroData, err := operations.InstancesToAvro(schema, instances)
	if err != nil {
		logger.Error("failed to encode instances", slog.String("error", errs.ErrorWithStack(err)))
		return
	}
	logger.Info("encoded instances to avro", slog.Int("numMessages", len(avroData)))

	protoData, err := operations.InstancesToProto(schema, instances)
	if err != nil {
		logger.Error("failed to encode instances", slog.String("error", errs.ErrorWithStack(err)))
		return
	}
	logger.Info("encoded instances to proto", slog.Int("numStructs", len(protoData)))

	logger.Info("DatasetBridge Scratch Complete")
}
