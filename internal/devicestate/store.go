// Package devicestate implements the gateway's abstract per-key hash
// store: each device's persisted fields (output protocol, odometer,
// last fix, voltage) live under a string key with string field/value
// pairs, satisfied by any of the backends in this package.
package devicestate

import "context"

// Store is the hash-map contract every backend implements. Compound
// read-compute-write sequences (e.g. odometer accrual) are performed
// by the caller; the store itself gives no cross-field atomicity,
// which is acceptable because each device is only ever updated by a
// single input worker at a time.
type Store interface {
	// HGet returns the value of a single field, or ok=false when the
	// key or field does not exist.
	HGet(ctx context.Context, key, field string) (value string, ok bool, err error)
	// HMGet returns the values of multiple fields in one round trip.
	// Missing fields are reported individually via the ok slice.
	HMGet(ctx context.Context, key string, fields ...string) (values []string, oks []bool, err error)
	// HSet writes a single field.
	HSet(ctx context.Context, key, field, value string) error
}
