package errors

import "errors"

// ErrOptimisticLock means the row was modified by another operation since it
// was read; the caller should re-read and decide whether to retry.
var ErrOptimisticLock = errors.New("record was modified by another operation")
