package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores wrap these inside domain
// errors so callers can match with errors.Is regardless of backend:
// - ErrNotFound: the backing resource (file, table, key) does not exist
// - ErrCorrupt: the backing resource cannot be trusted as written
var (
	ErrNotFound = errors.New("not found")
	ErrCorrupt  = errors.New("corrupt")
)
