// Package store keeps produced containers and their debug siblings on disk.
//
// The codec is deterministic, so artifacts are naturally content-addressed:
// the same document always yields the same container bytes and therefore the
// same identifier. The archive exploits that for idempotent, immutable
// storage of everything the encoder emits.
package store

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// Archive is a minimal content-addressable artifact store.
//
// Contract:
// - Put MUST be idempotent.
// - Stored artifacts MUST be immutable.
// - IDs MUST be derived from the bytes written.
// - Get MUST return ErrNotFound when the ID is absent.
type Archive interface {
	Put(data []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

var (
	ErrNotFound   = errors.New("store: not found")
	ErrInvalidID  = errors.New("store: invalid artifact id")
	ErrIDMismatch = errors.New("store: artifact id mismatch")
	ErrImmutable  = errors.New("store: immutable artifact mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
