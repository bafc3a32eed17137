package ingestion

import (
	"errors"
	"fmt"
)

// ErrNoUsableRows is returned when a file exists but every row was
// malformed or empty. A single skipped row is recovered locally; a file
// with nothing usable is a data-quality failure for that cell.
var ErrNoUsableRows = errors.New("ingestion: no usable rows in file")

// DataQualityError marks a per-file failure that excludes one cell's
// contribution without aborting the pipeline run.
type DataQualityError struct {
	File string
	Err  error
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("ingestion: data quality failure in %s: %v", e.File, e.Err)
}

func (e *DataQualityError) Unwrap() error { return e.Err }
