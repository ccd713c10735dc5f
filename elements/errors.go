package elements

import "errors"

var (
	ErrSplitKeyInvalid    = errors.New("split key invalid")
	ErrTranslationInvalid = errors.New("translation invalid")
)
