package operations

import "errors"

var (
	ErrUnsupportedFeatureConversion       = errors.New("unsupported feature conversion")
	ErrUnsupportedSequenceFeature         = errors.New("unsupported sequence inner feature")
	ErrEntryFieldMissing                  = errors.New("entry field missing")
	ErrEntryValueInvalid                  = errors.New("entry value invalid")
	ErrUnsupportedFeatureToAvroConversion = errors.New("unsupported feature to avro type conversion")
	ErrInstanceFieldInvalid               = errors.New("instance field invalid")
)
