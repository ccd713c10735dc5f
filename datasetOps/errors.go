package datasetops

import "errors"

var (
	ErrDatasetInvalid       = errors.New("dataset invalid")
	ErrColumnNotFound       = errors.New("column not found")
	ErrMultipleColumnsFound = errors.New("multiple columns found")
	ErrUnsupportedDataType  = errors.New("unsupported data type")
	ErrRowIndexOutOfRange   = errors.New("row index out of range")
)
