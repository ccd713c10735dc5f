package reader

import "errors"

var (
	ErrDatasetNameRequired = errors.New("dataset name required")
)
