// Package storage defines the snapshot store contract: readers always see
// either the previous complete snapshot or the newly completed one.
package storage

import "errors"

// ErrEmpty is returned when no pipeline run has completed yet.
var ErrEmpty = errors.New("storage: no snapshot available")
