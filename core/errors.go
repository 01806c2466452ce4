package core

import "errors"

var (
	// ErrIO is returned when the hosts file cannot be read or written.
	ErrIO = errors.New("hosts file i/o failed")

	// ErrNotFound is returned when a mode switch matches no managed entry.
	ErrNotFound = errors.New("no muko-managed entry found")

	// ErrUnresolvable is returned when a domain does not resolve to any address.
	ErrUnresolvable = errors.New("domain did not resolve")

	// ErrInvalidEntry is returned when a new entry would not round-trip as a managed line.
	ErrInvalidEntry = errors.New("invalid entry")
)
