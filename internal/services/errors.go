package services

import (
	"errors"

	"aqcli/internal/dataprocessing"
)

// Service-level sentinel errors mapped to API problems by the handlers.
var (
	// ErrNoData signals a selection that matched zero readings. The
	// dashboard renders an explicit "no data" state for it. Shared with
	// the dataprocessing package so errors.Is works across layers.
	ErrNoData = dataprocessing.ErrNoData

	// ErrEmptyDataset signals that preparation dropped every row of the
	// source file.
	ErrEmptyDataset = errors.New("prepared dataset is empty")

	// ErrUnknownVariable signals an unsupported variable name.
	ErrUnknownVariable = errors.New("unknown variable")
)
