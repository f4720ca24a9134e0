// Package localfs is a filesystem-backed archive for encoded containers.
//
// Containers are immutable and keyed by content ID; each may carry an
// optional plaintext sibling holding the decoded document, mirroring the
// .pkt/.xml pairing the codec uses on disk.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"ptforge.dev/pktfile/cidutil"
	"ptforge.dev/pktfile/pktfile"
	"ptforge.dev/pktfile/store"
)

// Archive stores containers immutably under root, sharded by the first two
// characters of the content ID. It is offline and deterministic: no network,
// no wall-clock dependence.
type Archive struct {
	root string
}

var _ store.Archive = (*Archive)(nil)

// New constructs an archive rooted at root. The directory is created if
// needed.
func New(root string) (*Archive, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Archive{root: root}, nil
}

// Put archives a container and returns its content ID. Re-archiving the same
// bytes is a no-op; a colliding ID over different bytes is an immutability
// violation.
func (a *Archive) Put(container []byte) (cid.Cid, error) {
	id, err := cidutil.ArtifactID(container)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, store.ErrInvalidID
	}

	path := a.containerPath(id)
	if existing, err := os.ReadFile(path); err == nil {
		if !bytes.Equal(existing, container) {
			return cid.Undef, store.ErrImmutable
		}
		return id, nil
	} else if !os.IsNotExist(err) {
		return cid.Undef, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, err
	}
	if err := store.WriteFileAtomic(path, container, 0o444); err != nil {
		return cid.Undef, err
	}
	return id, nil
}

// Get returns the archived container, re-deriving its content ID to catch
// on-disk corruption.
func (a *Archive) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, store.ErrInvalidID
	}
	b, err := os.ReadFile(a.containerPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	got, err := cidutil.ArtifactID(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, store.ErrIDMismatch
	}
	return b, nil
}

// Has reports whether a container with this content ID is archived.
func (a *Archive) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(a.containerPath(id))
	return err == nil
}

// PutSibling stores the decoded document next to an archived container, as
// the container's .xml sibling. The container must already be archived.
// Siblings are immutable like containers: storing the same document again is
// a no-op, a different document for the same ID is rejected.
func (a *Archive) PutSibling(id cid.Cid, document []byte) error {
	if !id.Defined() {
		return store.ErrInvalidID
	}
	if !a.Has(id) {
		return store.ErrNotFound
	}

	path := a.siblingPath(id)
	if existing, err := os.ReadFile(path); err == nil {
		if !bytes.Equal(existing, document) {
			return store.ErrImmutable
		}
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return store.WriteFileAtomic(path, document, 0o444)
}

// GetSibling returns the decoded document stored next to an archived
// container, or ErrNotFound when no sibling was recorded.
func (a *Archive) GetSibling(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, store.ErrInvalidID
	}
	b, err := os.ReadFile(a.siblingPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (a *Archive) containerPath(id cid.Cid) string {
	return a.shardPath(id) + pktfile.Extension
}

func (a *Archive) siblingPath(id cid.Cid) string {
	return a.shardPath(id) + pktfile.DebugExtension
}

func (a *Archive) shardPath(id cid.Cid) string {
	s := id.String()
	if len(s) < 2 {
		return filepath.Join(a.root, s)
	}
	return filepath.Join(a.root, s[:2], s)
}
