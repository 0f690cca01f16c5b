// Package storage provides the path-addressed document store the bot keeps
// its sessions and reports in. Paths form a two-level tree such as
// sessions/{userID} and reports/{reportID}; values are JSON documents.
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get and Update when no document exists at the
// requested path.
var ErrNotFound = errors.New("storage: document not found")

type DocumentStore interface {
	// Get decodes the document at path into out.
	Get(ctx context.Context, path string, out interface{}) error
	// Set writes v at path, replacing any existing document.
	Set(ctx context.Context, path string, v interface{}) error
	// Update merges fields into the JSON object at path.
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	// Delete removes the document at path. Deleting a missing path is a no-op.
	Delete(ctx context.Context, path string) error
	// List returns the direct children under prefix, keyed by the last path
	// segment. An empty tree yields an empty map.
	List(ctx context.Context, prefix string) (map[string]json.RawMessage, error)
}
