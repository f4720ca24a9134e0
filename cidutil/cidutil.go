// Package cidutil derives content identifiers for codec artifacts.
//
// Containers and their debug siblings are identified by a CIDv1 over the raw
// bytes. Because the codec is deterministic, an artifact's identifier doubles
// as a cheap equality check across machines: two hosts that encoded the same
// document hold artifacts with the same ID.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ArtifactID returns the CIDv1 (raw codec, sha2-256) for the given bytes.
func ArtifactID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// ArtifactIDString returns the string form of ArtifactID, or "" when the
// hash cannot be computed (unreachable with sha2-256 and default length).
func ArtifactIDString(data []byte) string {
	id, err := ArtifactID(data)
	if err != nil {
		return ""
	}
	return id.String()
}
