// Package pktfile implements the container codec for the target network
// simulator's .pkt files: a byte-exact, reverse-engineered transformation
// between a plaintext topology document and the proprietary on-disk format.
//
// Encode direction: deflate framing, a positional XOR pass, Twofish-128/EAX
// seal under fixed key material, a mirrored XOR pass, then the per-version
// container envelope. Decode is the exact inverse with the authentication tag
// verified before any plaintext is released. The pipeline is deterministic
// and stateless; independent documents may be processed concurrently.
package pktfile

import "bytes"

// fixedKey and fixedNonce are the cipher material baked into the target
// format. They are compatibility constants, not secrets: every conforming
// producer and consumer uses these exact values, which is why they are named
// values here rather than parameters.
var (
	fixedKey   = [16]byte{137, 137, 137, 137, 137, 137, 137, 137, 137, 137, 137, 137, 137, 137, 137, 137}
	fixedNonce = [16]byte{16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16, 16}
)

// FixedKey returns the cipher key baked into the format. The returned slice
// is a fresh copy on every call; mutating it cannot affect the codec.
func FixedKey() []byte {
	k := fixedKey
	return k[:]
}

// FixedNonce returns the nonce baked into the format, as a fresh copy.
func FixedNonce() []byte {
	n := fixedNonce
	return n[:]
}

// Extension is the container file extension. DebugExtension is the
// conventional sibling holding the pre-container document for inspection.
const (
	Extension      = ".pkt"
	DebugExtension = ".xml"
)

// tagSize is the EAX authentication tag length appended after the ciphertext.
const tagSize = 16

// A Profile pins the per-version container envelope. The 8.x format carries
// no outer marker (the sealed payload is the file); releases that prepend one
// are expressed as additional profiles, pinned by golden sample containers
// rather than guessed.
type Profile struct {
	Name  string
	Magic []byte
}

// PT8 is the default profile: no envelope beyond the sealed payload.
var PT8 = Profile{Name: "pt8"}

// wrap assembles the final container from the sealed, obfuscated payload.
func (p Profile) wrap(payload []byte) []byte {
	if len(p.Magic) == 0 {
		return payload
	}
	out := make([]byte, 0, len(p.Magic)+len(payload))
	out = append(out, p.Magic...)
	return append(out, payload...)
}

// unwrap strips and validates the envelope, returning the sealed payload.
func (p Profile) unwrap(container []byte) ([]byte, error) {
	if !bytes.HasPrefix(container, p.Magic) {
		return nil, newError(KindContainer, "PKT-CONT-002", "container does not start with the "+p.Name+" marker")
	}
	payload := container[len(p.Magic):]
	if len(payload) < tagSize {
		return nil, newError(KindContainer, "PKT-CONT-001", "container too short to hold an authentication tag")
	}
	return payload, nil
}

// Encode converts a topology document into container bytes using the default
// backend order. It either returns a complete container or fails outright.
func Encode(document []byte) ([]byte, error) {
	return DefaultSelector().Encode(document)
}

// Decode converts container bytes back into the topology document using the
// default backend order. It either returns the full original document or
// fails outright; no partial plaintext is ever returned.
func Decode(container []byte) ([]byte, error) {
	return DefaultSelector().Decode(container)
}
