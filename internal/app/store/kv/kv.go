// internal/app/store/kv/kv.go

// Package kv is the entity store adapter: a thin contract over a schemaless
// ordered key-value document store. Keys are tuples of string segments;
// Scan returns entries in key order, and callers filter by key length or
// shape to distinguish primary records from index records that share a
// prefix. The adapter has no business logic and exposes no conditional
// write semantics; every multi-key sequence built on top of it is a series
// of independent writes with no isolation.
package kv

import (
	"context"
	"strings"
)

// Key is an ordered tuple of string segments, e.g.
// {"project_members", "by_user", userID, projectID}. Segments are entity
// ids, fixed labels, or timestamps and never contain the separator.
type Key []string

const separator = "/"

// Encode renders the key as its stored string form.
func (k Key) Encode() string {
	return strings.Join(k, separator)
}

// Append returns a new key with extra segments added.
func (k Key) Append(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	out = append(out, segments...)
	return out
}

// Len reports the number of segments. Scans use it to tell primary records
// ({"tasks", id}, len 2) from index entries ({"project_members", "by_user",
// u, p}, len 4) under a shared prefix.
func (k Key) Len() int {
	return len(k)
}

// Entry is one key/value pair produced by Scan. Value is the opaque
// serialized record; the adapter never interprets it.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the substrate everything else is built on.
//
// Get reports absence with found=false rather than an error; "not found"
// is a normal outcome, not a failure. Scan returns all entries whose key
// strictly extends prefix, in key order.
type Store interface {
	Get(ctx context.Context, key Key) (value []byte, found bool, err error)
	Set(ctx context.Context, key Key, value []byte) error
	Delete(ctx context.Context, key Key) error
	Scan(ctx context.Context, prefix Key) ([]Entry, error)
}

// scanBounds returns the half-open encoded-key range [low, high) covering
// every key that extends prefix. The upper bound relies on the byte after
// the separator ('0' follows '/'); segments never contain either.
func scanBounds(prefix Key) (low, high string) {
	p := prefix.Encode()
	return p + separator, p + "0"
}

// decodeKey splits a stored string form back into segments.
func decodeKey(encoded string) Key {
	return Key(strings.Split(encoded, separator))
}
