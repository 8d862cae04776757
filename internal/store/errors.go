package store

import "errors"

// errClosed is wrapped in a StorageError when a closed Memory store is used.
var errClosed = errors.New("store is closed")
