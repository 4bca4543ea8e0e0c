package db

import "errors"

var (
	ErrInvalidConfig = errors.New("db: invalid DATABASE_URL")
	ErrConnect       = errors.New("db: cannot connect")
	ErrPing          = errors.New("db: ping failed")
	ErrMigrate       = errors.New("db: migration failed")
	ErrTransaction   = errors.New("db: transaction failed")
)
