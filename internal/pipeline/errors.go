package pipeline

import "errors"

var (
	ErrTooFewRows        = errors.New("CSV does not contain enough rows")
	ErrUnsupportedSource = errors.New("unsupported catalog source")
	ErrSheetNotFound     = errors.New("worksheet not found")
)
