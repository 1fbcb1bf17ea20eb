// Package store persists record lists under a name.
//
// A stored dataset is exactly what [io.WriteRecords] produces: the ordered,
// identifier-free list of people. Relationships are never stored, so a
// round trip through a store reconstructs members only.
//
// Two backends are provided:
//
//   - [FileStore]: one JSON file per dataset in a directory
//   - [MongoStore]: one document per dataset in a MongoDB collection
//
// Missing datasets are reported with errors.ErrCodeNotFound; backend
// failures with errors.ErrCodeStorage.
package store

import (
	"context"

	"github.com/matzehuels/kintree/pkg/io"
)

// Store saves and loads named record lists.
type Store interface {
	// Save replaces the dataset called name.
	Save(ctx context.Context, name string, recs []io.Record) error

	// Load returns the dataset called name in its saved order.
	Load(ctx context.Context, name string) ([]io.Record, error)

	// List returns the stored dataset names, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes the dataset called name.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}
