package repository

import "time"

type sqliteConfig struct {
	maxOpenConns int
	busyTimeout  time.Duration
}

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*sqliteConfig)

// WithMaxOpenConns sets the connection pool size. Writers serialize on a
// single connection by default.
func WithMaxOpenConns(n int) SQLiteOption {
	return func(c *sqliteConfig) {
		if n > 0 {
			c.maxOpenConns = n
		}
	}
}

// WithBusyTimeout sets how long a statement waits on a locked database.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(c *sqliteConfig) {
		if d > 0 {
			c.busyTimeout = d
		}
	}
}
