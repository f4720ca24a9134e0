// Package twofish implements the Twofish block cipher.
//
// Twofish is the cipher underneath the container format this module targets:
// a 128-bit-block Feistel network with key-dependent S-boxes, an MDS diffusion
// matrix and a pseudo-Hadamard transform, as defined by Schneier et al. in
// "Twofish: A 128-Bit Block Cipher". The container format fixes the key, so
// this package exists for byte-exact compatibility, not for general use as a
// modern cipher.
//
// The implementation must agree bit-for-bit with the published specification
// for every 16-byte input; the test suite pins the published vectors and
// cross-checks against an independent implementation.
package twofish

import (
	"crypto/cipher"
	"strconv"
)

// BlockSize is the Twofish block size in bytes.
const BlockSize = 16

// A Cipher is an instance of Twofish using a particular key.
//
// The key schedule runs once in NewCipher; afterwards the struct is only
// read, so a Cipher is safe for concurrent use.
type Cipher struct {
	s [4][256]uint32
	k [40]uint32
}

var _ cipher.Block = (*Cipher)(nil)

// KeySizeError reports an unsupported key length.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "twofish: invalid key size " + strconv.Itoa(int(k))
}

// NewCipher creates and returns a Cipher. The key argument should be the
// Twofish key, 16, 24 or 32 bytes.
func NewCipher(key []byte) (*Cipher, error) {
	keylen := len(key)
	if keylen != 16 && keylen != 24 && keylen != 32 {
		return nil, KeySizeError(keylen)
	}
	k := keylen / 8

	// S words: S[i] = RS * key[8i : 8i+8], stored as bytes.
	var s [4 * 4]byte
	for i := 0; i < k; i++ {
		for j, row := range rs {
			for n, v := range row {
				s[4*i+j] ^= gfMult(key[8*i+n], v, rsPolynomial)
			}
		}
	}

	c := new(Cipher)

	// Round subkeys: K[2i] = A + B, K[2i+1] = rol(A + 2B, 9) with
	// A = h(2i*rho, Me), B = rol(h((2i+1)*rho, Mo), 8).
	var tmp [4]byte
	for i := byte(0); i < 20; i++ {
		for j := range tmp {
			tmp[j] = 2 * i
		}
		a := h(tmp[:], key, 0)
		for j := range tmp {
			tmp[j] = 2*i + 1
		}
		b := rol(h(tmp[:], key, 1), 8)
		c.k[2*i] = a + b
		c.k[2*i+1] = rol(a+2*b, 9)
	}

	// Key-dependent S-box tables with the MDS multiply folded in.
	// The S words are applied in reverse order relative to the key halves,
	// as the specification requires.
	switch k {
	case 2:
		for i := range c.s[0] {
			c.s[0][i] = mdsColumnMult(qbox[1][qbox[0][qbox[0][byte(i)]^s[0]]^s[4]], 0)
			c.s[1][i] = mdsColumnMult(qbox[0][qbox[0][qbox[1][byte(i)]^s[1]]^s[5]], 1)
			c.s[2][i] = mdsColumnMult(qbox[1][qbox[1][qbox[0][byte(i)]^s[2]]^s[6]], 2)
			c.s[3][i] = mdsColumnMult(qbox[0][qbox[1][qbox[1][byte(i)]^s[3]]^s[7]], 3)
		}
	case 3:
		for i := range c.s[0] {
			c.s[0][i] = mdsColumnMult(qbox[1][qbox[0][qbox[0][qbox[1][byte(i)]^s[0]]^s[4]]^s[8]], 0)
			c.s[1][i] = mdsColumnMult(qbox[0][qbox[0][qbox[1][qbox[1][byte(i)]^s[1]]^s[5]]^s[9]], 1)
			c.s[2][i] = mdsColumnMult(qbox[1][qbox[1][qbox[0][qbox[0][byte(i)]^s[2]]^s[6]]^s[10]], 2)
			c.s[3][i] = mdsColumnMult(qbox[0][qbox[1][qbox[1][qbox[0][byte(i)]^s[3]]^s[7]]^s[11]], 3)
		}
	default:
		for i := range c.s[0] {
			c.s[0][i] = mdsColumnMult(qbox[1][qbox[0][qbox[0][qbox[1][qbox[1][byte(i)]^s[0]]^s[4]]^s[8]]^s[12]], 0)
			c.s[1][i] = mdsColumnMult(qbox[0][qbox[0][qbox[1][qbox[1][qbox[0][byte(i)]^s[1]]^s[5]]^s[9]]^s[13]], 1)
			c.s[2][i] = mdsColumnMult(qbox[1][qbox[1][qbox[0][qbox[0][qbox[0][byte(i)]^s[2]]^s[6]]^s[10]]^s[14]], 2)
			c.s[3][i] = mdsColumnMult(qbox[0][qbox[1][qbox[1][qbox[0][qbox[1][byte(i)]^s[3]]^s[7]]^s[11]]^s[15]], 3)
		}
	}

	return c, nil
}

// BlockSize returns the Twofish block size, 16 bytes.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts a 16-byte block from src to dst, which may overlap.
// Wrong-size input is a caller contract violation and panics.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("twofish: invalid block size")
	}

	ia := load32l(src[0:4])
	ib := load32l(src[4:8])
	ic := load32l(src[8:12])
	id := load32l(src[12:16])

	// Input whitening.
	ia ^= c.k[0]
	ib ^= c.k[1]
	ic ^= c.k[2]
	id ^= c.k[3]

	for i := 0; i < 8; i++ {
		k := c.k[8+i*4 : 12+i*4]
		t2 := c.s[1][byte(ib)] ^ c.s[2][byte(ib>>8)] ^ c.s[3][byte(ib>>16)] ^ c.s[0][byte(ib>>24)]
		t1 := (c.s[0][byte(ia)] ^ c.s[1][byte(ia>>8)] ^ c.s[2][byte(ia>>16)] ^ c.s[3][byte(ia>>24)]) + t2
		ic = ror(ic^(t1+k[0]), 1)
		id = rol(id, 1) ^ (t2 + t1 + k[1])

		t2 = c.s[1][byte(id)] ^ c.s[2][byte(id>>8)] ^ c.s[3][byte(id>>16)] ^ c.s[0][byte(id>>24)]
		t1 = (c.s[0][byte(ic)] ^ c.s[1][byte(ic>>8)] ^ c.s[2][byte(ic>>16)] ^ c.s[3][byte(ic>>24)]) + t2
		ia = ror(ia^(t1+k[2]), 1)
		ib = rol(ib, 1) ^ (t2 + t1 + k[3])
	}

	// Undo the last swap and apply output whitening.
	store32l(dst[0:4], ic^c.k[4])
	store32l(dst[4:8], id^c.k[5])
	store32l(dst[8:12], ia^c.k[6])
	store32l(dst[12:16], ib^c.k[7])
}

// Decrypt decrypts a 16-byte block from src to dst, which may overlap.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("twofish: invalid block size")
	}

	// Undo output whitening; the loaded halves are the final encrypt state.
	ic := load32l(src[0:4]) ^ c.k[4]
	id := load32l(src[4:8]) ^ c.k[5]
	ia := load32l(src[8:12]) ^ c.k[6]
	ib := load32l(src[12:16]) ^ c.k[7]

	for i := 7; i >= 0; i-- {
		k := c.k[8+i*4 : 12+i*4]
		t2 := c.s[1][byte(id)] ^ c.s[2][byte(id>>8)] ^ c.s[3][byte(id>>16)] ^ c.s[0][byte(id>>24)]
		t1 := (c.s[0][byte(ic)] ^ c.s[1][byte(ic>>8)] ^ c.s[2][byte(ic>>16)] ^ c.s[3][byte(ic>>24)]) + t2
		ia = rol(ia, 1) ^ (t1 + k[2])
		ib = ror(ib^(t2+t1+k[3]), 1)

		t2 = c.s[1][byte(ib)] ^ c.s[2][byte(ib>>8)] ^ c.s[3][byte(ib>>16)] ^ c.s[0][byte(ib>>24)]
		t1 = (c.s[0][byte(ia)] ^ c.s[1][byte(ia>>8)] ^ c.s[2][byte(ia>>16)] ^ c.s[3][byte(ia>>24)]) + t2
		ic = rol(ic, 1) ^ (t1 + k[0])
		id = ror(id^(t2+t1+k[1]), 1)
	}

	// Undo input whitening.
	store32l(dst[0:4], ia^c.k[0])
	store32l(dst[4:8], ib^c.k[1])
	store32l(dst[8:12], ic^c.k[2])
	store32l(dst[12:16], id^c.k[3])
}

// h implements the cipher's h function on a 4-byte word, selecting the even
// (offset 0) or odd (offset 1) key words.
func h(in, key []byte, offset int) uint32 {
	var y [4]byte
	copy(y[:], in[:4])
	switch len(key) / 8 {
	case 4:
		y[0] = qbox[1][y[0]] ^ key[4*(6+offset)+0]
		y[1] = qbox[0][y[1]] ^ key[4*(6+offset)+1]
		y[2] = qbox[0][y[2]] ^ key[4*(6+offset)+2]
		y[3] = qbox[1][y[3]] ^ key[4*(6+offset)+3]
		fallthrough
	case 3:
		y[0] = qbox[1][y[0]] ^ key[4*(4+offset)+0]
		y[1] = qbox[1][y[1]] ^ key[4*(4+offset)+1]
		y[2] = qbox[0][y[2]] ^ key[4*(4+offset)+2]
		y[3] = qbox[0][y[3]] ^ key[4*(4+offset)+3]
		fallthrough
	case 2:
		y[0] = qbox[1][qbox[0][qbox[0][y[0]]^key[4*(2+offset)+0]]^key[4*(0+offset)+0]]
		y[1] = qbox[0][qbox[0][qbox[1][y[1]]^key[4*(2+offset)+1]]^key[4*(0+offset)+1]]
		y[2] = qbox[1][qbox[1][qbox[0][y[2]]^key[4*(2+offset)+2]]^key[4*(0+offset)+2]]
		y[3] = qbox[0][qbox[1][qbox[1][y[3]]^key[4*(2+offset)+3]]^key[4*(0+offset)+3]]
	}
	var out uint32
	for i := range y {
		out ^= mdsColumnMult(y[i], i)
	}
	return out
}

func load32l(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func store32l(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func rol(x uint32, n uint) uint32 { return x<<n | x>>(32-n) }
func ror(x uint32, n uint) uint32 { return x>>n | x<<(32-n) }
