package schema

import "errors"

// ErrMissingRequired means the snapshot lacks a column no role or eligibility
// can be derived without.
var ErrMissingRequired = errors.New("required column missing")
