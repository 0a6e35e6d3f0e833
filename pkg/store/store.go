// Package store provides persistent key-to-JSON-document stores used to
// accumulate downloaded package info.
//
// Two backends are provided: [JSONDir], a directory of per-package JSON
// files, and [Mongo], a MongoDB collection for larger corpora. Both store
// raw JSON documents keyed by package name.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for keys with no stored document.
var ErrNotFound = errors.New("not found")

// Store persists raw JSON documents under string keys.
type Store interface {
	// Has reports whether a document exists for key.
	Has(ctx context.Context, key string) (bool, error)

	// Get retrieves the document for key. Returns ErrNotFound when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores (or replaces) the document for key.
	Set(ctx context.Context, key string, doc []byte) error

	// Keys lists all stored keys.
	Keys(ctx context.Context) ([]string, error)
}
