package marketvalue

import "errors"

// ErrNoMarketValueColumn means none of the candidate columns is present.
var ErrNoMarketValueColumn = errors.New("no market value column found")
