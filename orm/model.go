package orm

import (
	"github.com/swapvault/swapd"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	swapd.Persistent
	Validate() error
}

// Indexer calculates the secondary index key for a given model. Returning
// a nil key leaves the model out of the index.
type Indexer func(Model) ([]byte, error)

// ModelBucket is implemented by buckets that operate on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db swapd.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given key exists, ErrNotFound
	// otherwise.
	Has(db swapd.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database and updates all indexes.
	Put(db swapd.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db swapd.KVStore, key []byte) error

	// ByIndex returns all entities indexed under given key. Destination
	// must be a pointer to a slice of model pointers. Keys of the loaded
	// entities are returned in the order of the destination.
	ByIndex(db swapd.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error)

	// Register registers this bucket, and all its indexes, as query
	// handlers.
	Register(name string, r swapd.QueryRouter)
}
