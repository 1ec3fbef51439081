package fbref

import "errors"

// Sentinel kinds for FBref page errors.
var (
	ErrTableNotFound = errors.New("fbref table not found")
	ErrParse         = errors.New("fbref page parse failed")
)
