// Package eax implements the EAX authenticated-encryption composition over an
// arbitrary 128-bit block cipher, together with the CMAC and counter-mode
// primitives it is built from.
//
// The composition follows the original EAX construction: three OMAC
// computations with distinct one-byte tweaks (over the nonce, the associated
// data and the ciphertext) are combined by XOR into the final tag, and the
// nonce OMAC seeds the counter for the keystream. The container format this
// module targets depends on this exact layout, so the primitives are exposed
// individually rather than behind cipher.AEAD.
package eax

import (
	"crypto/cipher"
	"crypto/subtle"
	"errors"
)

// BlockSize is the only block size this package supports.
const BlockSize = 16

// TagSize is the size of an authentication tag in bytes.
const TagSize = 16

// ErrAuth is returned by Open when the tag does not verify.
var ErrAuth = errors.New("eax: message authentication failed")

// Sum computes the CMAC (OMAC1) of msg under b.
//
// Subkeys are derived from an encryption of the all-zero block by doubling in
// GF(2^128): a left shift with a conditional XOR of 0x87 into the last byte.
// The first subkey masks a full final block, the second a padded one; an
// empty message is treated as a padded empty block.
func Sum(b cipher.Block, msg []byte) [TagSize]byte {
	if b.BlockSize() != BlockSize {
		panic("eax: cipher block size must be 16 bytes")
	}
	k1, k2 := subkeys(b)

	var last [BlockSize]byte
	full := len(msg) != 0 && len(msg)%BlockSize == 0
	var head []byte
	if full {
		head = msg[:len(msg)-BlockSize]
		xorInto(&last, msg[len(msg)-BlockSize:])
		xorInto(&last, k1[:])
	} else {
		tail := len(msg) - len(msg)%BlockSize
		head = msg[:tail]
		pad := msg[tail:]
		copy(last[:], pad)
		last[len(pad)] = 0x80
		xorInto(&last, k2[:])
	}

	var x [BlockSize]byte
	for len(head) > 0 {
		xorInto(&x, head[:BlockSize])
		b.Encrypt(x[:], x[:])
		head = head[BlockSize:]
	}
	xorInto(&x, last[:])
	b.Encrypt(x[:], x[:])
	return x
}

func subkeys(b cipher.Block) (k1, k2 [BlockSize]byte) {
	var l [BlockSize]byte
	b.Encrypt(l[:], l[:])
	k1 = double(l)
	k2 = double(k1)
	return k1, k2
}

func double(in [BlockSize]byte) [BlockSize]byte {
	var out [BlockSize]byte
	var carry byte
	for i := BlockSize - 1; i >= 0; i-- {
		out[i] = in[i]<<1 | carry
		carry = in[i] >> 7
	}
	if carry != 0 {
		out[BlockSize-1] ^= 0x87
	}
	return out
}

// ApplyCTR XORs data with a keystream of encrypted counter blocks and returns
// the result. The counter starts at iv and increments as a 128-bit big-endian
// integer per block; the final keystream block is truncated, so the output is
// always exactly len(data) bytes. The transform is self-inverse.
func ApplyCTR(b cipher.Block, iv [BlockSize]byte, data []byte) []byte {
	if b.BlockSize() != BlockSize {
		panic("eax: cipher block size must be 16 bytes")
	}
	out := make([]byte, len(data))
	counter := iv
	var ks [BlockSize]byte
	for off := 0; off < len(data); off += BlockSize {
		b.Encrypt(ks[:], counter[:])
		incCounter(&counter)
		n := len(data) - off
		if n > BlockSize {
			n = BlockSize
		}
		for i := 0; i < n; i++ {
			out[off+i] = data[off+i] ^ ks[i]
		}
	}
	return out
}

func incCounter(c *[BlockSize]byte) {
	for i := BlockSize - 1; i >= 0; i-- {
		c[i]++
		if c[i] != 0 {
			break
		}
	}
}

// omac computes CMAC over a one-byte tweak block followed by data.
func omac(b cipher.Block, tweak byte, data []byte) [TagSize]byte {
	msg := make([]byte, BlockSize+len(data))
	msg[BlockSize-1] = tweak
	copy(msg[BlockSize:], data)
	return Sum(b, msg)
}

// Seal encrypts plaintext and returns the ciphertext and the authentication
// tag. Ciphertext length always equals plaintext length.
func Seal(b cipher.Block, nonce, plaintext, aad []byte) (ciphertext []byte, tag [TagSize]byte) {
	tagN := omac(b, 0x00, nonce)
	tagH := omac(b, 0x01, aad)
	ciphertext = ApplyCTR(b, tagN, plaintext)
	tagC := omac(b, 0x02, ciphertext)

	tag = tagN
	xorInto(&tag, tagH[:])
	xorInto(&tag, tagC[:])
	return ciphertext, tag
}

// Open verifies tag and, only on success, decrypts ciphertext.
//
// The tag is recomputed from the ciphertext and compared in constant time
// before any plaintext bytes are produced; on mismatch Open returns ErrAuth
// and nothing else.
func Open(b cipher.Block, nonce, ciphertext []byte, tag [TagSize]byte, aad []byte) ([]byte, error) {
	tagN := omac(b, 0x00, nonce)
	tagH := omac(b, 0x01, aad)
	tagC := omac(b, 0x02, ciphertext)

	want := tagN
	xorInto(&want, tagH[:])
	xorInto(&want, tagC[:])
	if subtle.ConstantTimeCompare(want[:], tag[:]) != 1 {
		return nil, ErrAuth
	}
	return ApplyCTR(b, tagN, ciphertext), nil
}

func xorInto(dst *[BlockSize]byte, src []byte) {
	for i := 0; i < BlockSize; i++ {
		dst[i] ^= src[i]
	}
}
