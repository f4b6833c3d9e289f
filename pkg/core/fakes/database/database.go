// Package database is a pretend database driver.
//
// It validates connection strings, flakes out on a schedule, and answers every
// query with the zero value of whatever type the caller asked for. Its real
// job is to hand consuming code a foreign set of error values to funnel.
package database

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Scheme every connection string must carry.
const Scheme string = "db://"

//#region errors

// Fake databases have problems too.
var (
	ErrConnectionFailure = errors.New("unable to connect to database")
	ErrQueryFailure      = errors.New("failed to execute query")
)

// BadURLError indicates the raw connection string failed validation.
type BadURLError struct {
	Raw string
}

func (e BadURLError) Error() string {
	return fmt.Sprintf("invalid db url: `%s`", e.Raw)
}

//#endregion errors

// URL is a validated connection string.
type URL struct {
	raw string
}

func (u URL) String() string {
	return u.raw
}

// ParseURL pretends to validate a raw connection string.
func ParseURL(s string) (URL, error) {
	if !strings.HasPrefix(s, Scheme) {
		return URL{}, BadURLError{Raw: s}
	}
	return URL{raw: s}, nil
}

// Connection - pretend this is a real db connection.
type Connection struct {
	url URL
}

// Option is a function to set various options when connecting.
// Uses defaults if an option is not set.
type Option func(*config)

type config struct {
	now func() time.Time
}

// WithClock replaces the clock driving the availability flake.
// Lets tests pin the database to a known-good (or known-bad) second.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// Maybe the database is unreliable and flakes out regularly.
// One second in three, it is down.
func unavailable(now func() time.Time) bool {
	return now().Unix()%3 == 0
}

// GetConnection validates the given connection string and pretends to dial the database.
func GetConnection(dbURL string, opts ...Option) (*Connection, error) {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	parsed, err := ParseURL(dbURL)
	if err != nil {
		return nil, err
	}

	if unavailable(cfg.now) {
		return nil, ErrConnectionFailure
	}
	return &Connection{url: parsed}, nil
}

// RunQuery pretends to execute sql against the connection.
//
// The type parameter lets the call site hint to the db lib how to unpack the
// results. In practice T would be constrained by a scanning interface supplied
// by the lib so it could convert from SQL types, but we're just pretending
// here, so every query answers with the zero value of T.
func RunQuery[T any](conn *Connection, sql string) (T, error) {
	var results T
	if conn == nil {
		return results, ErrQueryFailure
	}
	return results, nil
}
