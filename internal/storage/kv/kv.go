// Package kv defines the narrow ordered key-value contract the blockstore
// persists through. Backends are interchangeable; the store composes its
// column keyspaces on top of whichever one the configuration selects.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get when a key has no value.
	ErrKeyNotFound = errors.New("kv: key not found")
	// ErrClosed is returned by any operation on a closed database.
	ErrClosed = errors.New("kv: database is closed")
)

// DB is the storage contract. Implementations must order keys
// lexicographically and apply Batch atomically.
type DB interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Put(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
	Has(ctx context.Context, key []byte) (bool, error)

	// Batch applies all operations as one atomic write.
	Batch(ctx context.Context, ops []BatchOperation) error

	// Iterator walks keys in [start, end) in ascending order. A nil start
	// begins at the first key; a nil end stops after the last.
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)

	Close() error
}

// Iterator allows traversing over database entries. Key and Value stay valid
// after the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)

// Put builds a put operation for a batch.
func Put(key, value []byte) BatchOperation {
	return BatchOperation{Type: BatchPut, Key: key, Value: value}
}

// Del builds a delete operation for a batch.
func Del(key []byte) BatchOperation {
	return BatchOperation{Type: BatchDelete, Key: key}
}
