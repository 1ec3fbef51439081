package csvtable

import "errors"

// Sentinel kinds for CSV errors.
var (
	ErrEmptyInput = errors.New("csv input has no header")
	ErrRead       = errors.New("csv read failed")
	ErrWrite      = errors.New("csv write failed")
)
