package collector

import (
	"context"
	"errors"

	"IndexTracker/internal/model"
)

var (
	// ErrNoData means the source answered but nothing usable came back.
	ErrNoData = errors.New("no data returned")
	// ErrUnexpectedSchema means the payload does not have the expected shape.
	ErrUnexpectedSchema = errors.New("unexpected response schema")
)

// Fetcher retrieves the raw monthly series of the indicators published by one source.
type Fetcher interface {
	Fetch(ctx context.Context, ind model.Indicator) (model.RawSeries, error)
	Name() string
}
