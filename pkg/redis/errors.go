package redis

import "errors"

var (
	ErrNoURL       = errors.New("redis: REDIS_URL is empty")
	ErrInvalidURL  = errors.New("redis: invalid URL, want redis:// or rediss://")
	ErrUnreachable = errors.New("redis: server unreachable")
	ErrPing        = errors.New("redis: ping failed")
)
