package datasetops

import (
	"fmt"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"

	"github.com/alekLukanen/DatasetBridge/elements"
	"github.com/alekLukanen/DatasetBridge/features"
)

// Dataset is one materialized split: the feature schema plus the arrow
// records holding the split's rows in stored order.
type Dataset struct {
	key     elements.SplitKey
	schema  *features.Schema
	records []arrow.Record
	numRows int64
}

func NewDataset(key elements.SplitKey, schema *features.Schema, records []arrow.Record) (*Dataset, error) {
	if schema == nil || schema.NumFields() == 0 {
		return nil, errs.NewStackError(
			fmt.Errorf("%w| dataset has no feature schema", ErrDatasetInvalid),
		)
	}

	var numRows int64
	for _, record := range records {
		for _, schemaField := range schema.Fields() {
			if indices := record.Schema().FieldIndices(schemaField.Name); len(indices) == 0 {
				return nil, errs.NewStackError(
					fmt.Errorf("%w| record has no column for feature %s", ErrDatasetInvalid, schemaField.Name),
				)
			}
		}
		numRows += record.NumRows()
	}

	return &Dataset{
		key:     key,
		schema:  schema,
		records: records,
		numRows: numRows,
	}, nil
}

func (obj *Dataset) Key() elements.SplitKey {
	return obj.key
}

func (obj *Dataset) Features() *features.Schema {
	return obj.schema
}

func (obj *Dataset) NumRows() int64 {
	return obj.numRows
}

func (obj *Dataset) Records() []arrow.Record {
	return obj.records
}

// Release releases the dataset's arrow records. The dataset must not be
// used afterwards.
func (obj *Dataset) Release() {
	for _, record := range obj.records {
		record.Release()
	}
	obj.records = nil
	obj.numRows = 0
}

// Read returns a forward-only iterator over the dataset's raw entries in
// stored order. Each call starts a fresh pass over the records.
func (obj *Dataset) Read() *EntryIterator {
	return &EntryIterator{dataset: obj}
}

// EntryIterator walks a dataset's rows one entry at a time. It is not
// safe for concurrent use.
type EntryIterator struct {
	dataset *Dataset

	recordIndex int
	rowIndex    int64
	entry       elements.Entry
	err         error
}

func (obj *EntryIterator) Next() bool {
	if obj.err != nil {
		return false
	}

	for obj.recordIndex < len(obj.dataset.records) {
		record := obj.dataset.records[obj.recordIndex]
		if obj.rowIndex < record.NumRows() {
			entry, err := ExtractEntry(obj.dataset.schema, record, int(obj.rowIndex))
			if err != nil {
				obj.err = err
				return false
			}
			obj.entry = entry
			obj.rowIndex++
			return true
		}
		obj.recordIndex++
		obj.rowIndex = 0
	}

	return false
}

func (obj *EntryIterator) Entry() elements.Entry {
	return obj.entry
}

func (obj *EntryIterator) Err() error {
	return obj.err
}
