package reader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alekLukanen/errs"

	datasetops "github.com/alekLukanen/DatasetBridge/datasetOps"
	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
	"github.com/alekLukanen/DatasetBridge/fields"
	"github.com/alekLukanen/DatasetBridge/operations"
	"github.com/alekLukanen/DatasetBridge/storage"
)

const DefaultSplitName = "train"

type ReaderOptions struct {
	DatasetName string
	ConfigName  string
	SplitName   string

	// MaxInstances caps how many instances the iterator yields. Zero
	// means no cap.
	MaxInstances int

	// sharding flags are accepted for compatibility with the generic
	// reader contract; the conversion logic does not consult them
	ManualDistributedSharding  bool
	ManualMultiprocessSharding bool
}

// SplitReader reads one split of one dataset and converts its entries to
// instances. A reader works with exactly one split; create a separate
// reader per split. It is not safe for concurrent use.
type SplitReader struct {
	logger  *slog.Logger
	dataset *datasetops.Dataset
	options ReaderOptions
}

/*
* Construct a reader for the given split, resolving and loading the split
* up front. An unresolvable dataset, config or split fails construction
* immediately; there are no retries.
 */
func NewSplitReader(
	ctx context.Context,
	logger *slog.Logger,
	repository storage.ISplitRepository,
	options ReaderOptions,
) (*SplitReader, error) {
	if options.DatasetName == "" {
		return nil, errs.NewStackError(ErrDatasetNameRequired)
	}
	if options.SplitName == "" {
		options.SplitName = DefaultSplitName
	}

	splitKey := elements.NewSplitKey(options.DatasetName, options.ConfigName, options.SplitName)
	dataset, err := repository.LoadSplit(ctx, splitKey)
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed loading split %s", splitKey.Path()))
	}

	logger.Info(
		"split reader ready",
		slog.String("split", splitKey.Path()),
		slog.Int64("numRows", dataset.NumRows()),
	)

	return &SplitReader{
		logger:  logger,
		dataset: dataset,
		options: options,
	}, nil
}

// NewSplitReaderFromDataset wraps an already materialized dataset. Used
// when the split was built in memory instead of loaded from a repository.
func NewSplitReaderFromDataset(
	logger *slog.Logger,
	dataset *datasetops.Dataset,
	options ReaderOptions,
) *SplitReader {
	return &SplitReader{
		logger:  logger,
		dataset: dataset,
		options: options,
	}
}

func (obj *SplitReader) Dataset() *datasetops.Dataset {
	return obj.dataset
}

func (obj *SplitReader) Features() *features.Schema {
	return obj.dataset.Features()
}

func (obj *SplitReader) Key() elements.SplitKey {
	return obj.dataset.Key()
}

// Read returns a forward-only iterator converting the split's entries to
// instances lazily, one per entry, in stored order. The iterator can not
// be restarted; call Read again for a fresh pass.
func (obj *SplitReader) Read() *InstanceIterator {
	return &InstanceIterator{
		entries:      obj.dataset.Read(),
		schema:       obj.dataset.Features(),
		maxInstances: obj.options.MaxInstances,
	}
}

// InstanceIterator yields one instance per raw entry. A conversion
// failure stops the iteration; no partial instance is yielded.
type InstanceIterator struct {
	entries      *datasetops.EntryIterator
	schema       *features.Schema
	maxInstances int

	count    int
	instance fields.Instance
	err      error
}

func (obj *InstanceIterator) Next() bool {
	if obj.err != nil {
		return false
	}
	if obj.maxInstances > 0 && obj.count >= obj.maxInstances {
		return false
	}
	if !obj.entries.Next() {
		obj.err = obj.entries.Err()
		return false
	}

	instance, err := operations.EntryToInstance(obj.schema, obj.entries.Entry())
	if err != nil {
		obj.err = err
		return false
	}

	obj.instance = instance
	obj.count++
	return true
}

func (obj *InstanceIterator) Instance() fields.Instance {
	return obj.instance
}

func (obj *InstanceIterator) Err() error {
	return obj.err
}
