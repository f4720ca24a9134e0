package pktfile

import (
	"crypto/cipher"

	xtwofish "golang.org/x/crypto/twofish"

	"ptforge.dev/pktfile/eax"
	"ptforge.dev/pktfile/twofish"
)

// pipeline runs the container transformation with a caller-supplied block
// cipher constructor. The two shipped backends differ only in which Twofish
// implementation they trust; the surrounding stages are shared so that both
// produce byte-identical containers.
type pipeline struct {
	name      string
	profile   Profile
	newCipher func(key []byte) (cipher.Block, error)
}

// NewReferenceBackend returns the preferred backend, built on the
// golang.org/x/crypto Twofish implementation.
func NewReferenceBackend(profile Profile) Backend {
	return &pipeline{
		name:    "reference",
		profile: profile,
		newCipher: func(key []byte) (cipher.Block, error) {
			return xtwofish.NewCipher(key)
		},
	}
}

// NewBuiltinBackend returns the fallback backend, built on this module's own
// Twofish implementation.
func NewBuiltinBackend(profile Profile) Backend {
	return &pipeline{
		name:    "builtin",
		profile: profile,
		newCipher: func(key []byte) (cipher.Block, error) {
			return twofish.NewCipher(key)
		},
	}
}

func (p *pipeline) Name() string { return p.name }

func (p *pipeline) block() (cipher.Block, error) {
	b, err := p.newCipher(fixedKey[:])
	if err != nil {
		// The key is a compiled-in constant, so a setup failure means the
		// backend itself cannot run.
		return nil, wrapError(KindCipher, "PKT-CIPH-001", "cipher setup failed", err)
	}
	return b, nil
}

func (p *pipeline) Encode(document []byte) ([]byte, error) {
	framed, err := frame(document)
	if err != nil {
		return nil, err
	}

	obfuscated := xorPositional(framed)

	b, err := p.block()
	if err != nil {
		return nil, err
	}
	ciphertext, tag := eax.Seal(b, fixedNonce[:], obfuscated, nil)
	sealed := append(ciphertext, tag[:]...)

	return p.profile.wrap(mirrorObfuscate(sealed)), nil
}

func (p *pipeline) Decode(container []byte) ([]byte, error) {
	payload, err := p.profile.unwrap(container)
	if err != nil {
		return nil, err
	}

	sealed := mirrorDeobfuscate(payload)
	ciphertext := sealed[:len(sealed)-tagSize]
	var tag [tagSize]byte
	copy(tag[:], sealed[len(sealed)-tagSize:])

	b, err := p.block()
	if err != nil {
		return nil, err
	}
	plaintext, err := eax.Open(b, fixedNonce[:], ciphertext, tag, nil)
	if err != nil {
		return nil, wrapError(KindAuth, "PKT-AUTH-001", "container failed authentication", err)
	}

	return unframe(xorPositional(plaintext))
}
