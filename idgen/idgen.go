// Package idgen provides pluggable ID generation for readpipe stores.
//
// Constructors that persist rows accept a Generator, making the ID
// strategy a startup-time decision rather than a compile-time one.
package idgen

import (
	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator producing RFC 9562 UUID v7 strings.
// Time-sortable, so log rows cluster by insertion order.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID,
// for type-scoped identifiers (e.g. "read_", "doc_").
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Default is the package default: UUIDv7.
var Default Generator = UUIDv7()

// New produces an ID using the Default generator.
func New() string {
	return Default()
}
