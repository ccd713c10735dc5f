package features

import "errors"

var (
	ErrSchemaInvalid          = errors.New("feature schema invalid")
	ErrFeatureNotFound        = errors.New("feature not found")
	ErrUnsupportedFeatureType = errors.New("unsupported feature type")
)
