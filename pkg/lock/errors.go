package lock

import "errors"

var (
	ErrLocked  = errors.New("lock: already held")
	ErrNotHeld = errors.New("lock: lease expired or held by another owner")
	ErrClosed  = errors.New("lock: closed")
)
