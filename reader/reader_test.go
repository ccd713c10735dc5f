package reader

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	datasetops "github.com/alekLukanen/DatasetBridge/datasetOps"
	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
	"github.com/alekLukanen/DatasetBridge/fields"
	"github.com/alekLukanen/DatasetBridge/storage"
)

func testLogger() *slog.Logger {
	return slog.New(
		slog.NewJSONHandler(
			os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug},
		),
	)
}

func buildTestDataset(t *testing.T) *datasetops.Dataset {
	schema := features.NewSchema()
	if _, err := schema.AddFeature("text", features.Value{Dtype: "string"}); err != nil {
		t.Fatalf("failed to build schema: %s", err)
	}
	if _, err := schema.AddFeature("label", features.ClassLabel{Names: []string{"neg", "pos"}}); err != nil {
		t.Fatalf("failed to build schema: %s", err)
	}

	arrowSchema, err := datasetops.FeatureSchemaArrowSchema(schema)
	if err != nil {
		t.Fatalf("failed to build arrow schema: %s", err)
	}

	mem := memory.NewGoAllocator()
	recBuilder := array.NewRecordBuilder(mem, arrowSchema)
	defer recBuilder.Release()
	recBuilder.Field(0).(*array.StringBuilder).AppendValues(
		[]string{"a good movie", "a bad movie", "an ok movie"}, nil,
	)
	recBuilder.Field(1).(*array.Int64Builder).AppendValues([]int64{1, 0, 1}, nil)

	record := recBuilder.NewRecord()

	dataset, err := datasetops.NewDataset(
		elements.NewSplitKey("reviews", "", "train"),
		schema,
		[]arrow.Record{record},
	)
	if err != nil {
		t.Fatalf("failed to build dataset: %s", err)
	}
	return dataset
}

type MockSplitRepository struct {
	mock.Mock
}

func (obj *MockSplitRepository) GetSplitManifest(ctx context.Context, splitKey elements.SplitKey) (*storage.SplitManifest, error) {
	args := obj.Called(ctx, splitKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.SplitManifest), args.Error(1)
}

func (obj *MockSplitRepository) LoadSplit(ctx context.Context, splitKey elements.SplitKey) (*datasetops.Dataset, error) {
	args := obj.Called(ctx, splitKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datasetops.Dataset), args.Error(1)
}

func TestNewSplitReader(t *testing.T) {

	ctx := context.Background()
	dataset := buildTestDataset(t)
	defer dataset.Release()
	repository := new(MockSplitRepository)

	repository.On(
		"LoadSplit", ctx, elements.NewSplitKey("reviews", "", "train"),
	).Return(dataset, nil)

	// an omitted split name falls back to the train split
	splitReader, err := NewSplitReader(ctx, testLogger(), repository, ReaderOptions{
		DatasetName: "reviews",
	})
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, elements.NewSplitKey("reviews", "", "train"), splitReader.Key())
	assert.Equal(t, 2, splitReader.Features().NumFields())

	instanceIterator := splitReader.Read()
	count := 0
	for instanceIterator.Next() {
		instance := instanceIterator.Instance()
		assert.True(t, instance.HasField("text"))

		labelField, ok := instance["label"].(fields.LabelField)
		if !assert.True(t, ok) {
			return
		}
		assert.Equal(t, "label", labelField.Namespace)
		count++
	}
	if !assert.Nil(t, instanceIterator.Err()) {
		return
	}
	assert.Equal(t, 3, count)
	repository.AssertExpectations(t)
}

func TestNewSplitReader_DatasetNameRequired(t *testing.T) {

	ctx := context.Background()
	repository := new(MockSplitRepository)

	_, err := NewSplitReader(ctx, testLogger(), repository, ReaderOptions{})
	assert.True(t, errors.Is(err, ErrDatasetNameRequired))
	repository.AssertNotCalled(t, "LoadSplit", mock.Anything, mock.Anything)
}

func TestNewSplitReader_LoadFailure(t *testing.T) {

	ctx := context.Background()
	repository := new(MockSplitRepository)

	repository.On(
		"LoadSplit", ctx, elements.NewSplitKey("missing", "", "validation"),
	).Return(nil, storage.ErrSplitNotFound)

	_, err := NewSplitReader(ctx, testLogger(), repository, ReaderOptions{
		DatasetName: "missing",
		SplitName:   "validation",
	})
	assert.True(t, errors.Is(err, storage.ErrSplitNotFound))
}

func TestSplitReader_MaxInstances(t *testing.T) {

	dataset := buildTestDataset(t)
	defer dataset.Release()

	splitReader := NewSplitReaderFromDataset(testLogger(), dataset, ReaderOptions{
		DatasetName:  "reviews",
		MaxInstances: 2,
	})

	instanceIterator := splitReader.Read()
	count := 0
	for instanceIterator.Next() {
		count++
	}
	if !assert.Nil(t, instanceIterator.Err()) {
		return
	}
	assert.Equal(t, 2, count)
}

func TestSplitReader_ReadStartsFreshPass(t *testing.T) {

	dataset := buildTestDataset(t)
	defer dataset.Release()

	splitReader := NewSplitReaderFromDataset(testLogger(), dataset, ReaderOptions{
		DatasetName: "reviews",
	})

	for range 2 {
		instanceIterator := splitReader.Read()
		count := 0
		for instanceIterator.Next() {
			count++
		}
		if !assert.Nil(t, instanceIterator.Err()) {
			return
		}
		assert.Equal(t, 3, count)
	}
}
