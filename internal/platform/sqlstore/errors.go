package sqlstore

import crerr "github.com/cockroachdb/errors"

var (
	// ErrStoreWrite marks per-row insert/update failures.
	ErrStoreWrite = crerr.New("store write failed")
	// ErrSchemaMismatch marks attempts to create tables through a read-only store.
	ErrSchemaMismatch = crerr.New("schema change refused on read-only store")
	ErrReadOnly       = crerr.New("store is read-only")
)
