// Package blob provides the keyed object store holding snippet code
// bodies, separate from the structured metadata in SQLite. Two backends
// are available: a local directory (fs.go) and an S3-compatible bucket
// (s3.go).
package blob

import "context"

// Store is an opaque keyed object store. Put and Delete are idempotent
// from the caller's point of view: Put overwrites, Delete of a missing
// key succeeds. There are no partial-write states.
type Store interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
