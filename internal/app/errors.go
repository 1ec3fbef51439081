package service

import (
	"errors"

	"github.com/okian/squadrank/internal/domain/types"
)

// Sentinel error kinds for this package.
var (
	ErrUnknownBoard = types.ErrUnknownBoard
	ErrNoRun        = types.ErrNoRun
	ErrRead         = errors.New("read source failed")

	// ErrInvalidInput marks a snapshot the run cannot rank until its columns
	// are fixed: a missing required column or no market value column.
	ErrInvalidInput = errors.New("invalid input snapshot")
)
