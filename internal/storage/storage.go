// Package storage provides blob storage for post attachments.
package storage

import "context"

// ObjectStore persists uploaded file content and serves it back by URL.
type ObjectStore interface {
	// Upload writes content under the given relative path and returns the
	// path actually stored. The path must stay stable for PublicURL.
	Upload(ctx context.Context, path string, content []byte, contentType string) (string, error)

	// PublicURL returns the URL clients use to download the object.
	PublicURL(path string) string

	// Remove deletes the objects at the given paths. Missing objects are
	// not an error.
	Remove(ctx context.Context, paths []string) error
}
