// Package config exposes runtime configuration behind a small interface so
// business code never touches the underlying provider directly.
package config

import (
	"io"
	"time"
)

// Config retrieves typed configuration values by dotted key.
//
// Implementations return zero values for missing keys; callers that need a
// default should apply it at the call site.
type Config interface {
	io.Closer

	// GetBool returns the value for key as a bool.
	GetBool(key string) bool

	// GetString returns the value for key as a string.
	GetString(key string) string

	// GetInt returns the value for key as an int.
	GetInt(key string) int

	// GetInt32 returns the value for key as an int32.
	GetInt32(key string) int32

	// GetInt64 returns the value for key as an int64.
	GetInt64(key string) int64

	// GetFloat64 returns the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond interprets the integer value for key as seconds.
	GetSecond(key string) time.Duration

	// GetMinute interprets the integer value for key as minutes.
	GetMinute(key string) time.Duration

	// GetHour interprets the integer value for key as hours.
	GetHour(key string) time.Duration

	// GetArray returns the comma-separated value for key as a string slice.
	GetArray(key string) []string
}
