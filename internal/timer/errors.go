package timer

import "errors"

// ErrNoTimer is returned when an operation targets a batch with no active
// countdown.
var ErrNoTimer = errors.New("no active timer for batch")
