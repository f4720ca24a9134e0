package twofish

import (
	"bytes"
	"encoding/hex"
	"testing"

	xtwofish "golang.org/x/crypto/twofish"
)

// Published vectors from the Twofish specification (ecb_ival).
var knownVectors = []struct {
	key string
	ct  string
}{
	{
		key: "00000000000000000000000000000000",
		ct:  "9F589F5CF6122C32B6BFEC2F2AE8C35A",
	},
	{
		key: "0123456789ABCDEFFEDCBA98765432100011223344556677",
		ct:  "CFD1D2E5A9BE9CDF501F13B892BD2248",
	},
	{
		key: "0123456789ABCDEFFEDCBA987654321000112233445566778899AABBCCDDEEFF",
		ct:  "37527BE0052334B89F0CFCCAE87CFA20",
	},
}

func TestKnownVectors(t *testing.T) {
	for _, v := range knownVectors {
		key, err := hex.DecodeString(v.key)
		if err != nil {
			t.Fatalf("bad vector key: %v", err)
		}
		want, err := hex.DecodeString(v.ct)
		if err != nil {
			t.Fatalf("bad vector ciphertext: %v", err)
		}

		c, err := NewCipher(key)
		if err != nil {
			t.Fatalf("NewCipher(%s): %v", v.key, err)
		}

		var ct [BlockSize]byte
		c.Encrypt(ct[:], make([]byte, BlockSize))
		if !bytes.Equal(ct[:], want) {
			t.Fatalf("key %s: encrypt = %X, want %s", v.key, ct, v.ct)
		}

		var pt [BlockSize]byte
		c.Decrypt(pt[:], ct[:])
		if !bytes.Equal(pt[:], make([]byte, BlockSize)) {
			t.Fatalf("key %s: decrypt did not invert encrypt", v.key)
		}
	}
}

// TestAgainstReference iterates an encryption chain and compares every block
// with an independent Twofish implementation. Any divergence in the q-box
// construction, key schedule or round function shows up within a few blocks.
func TestAgainstReference(t *testing.T) {
	keys := [][]byte{
		make([]byte, 16),
		bytes.Repeat([]byte{137}, 16), // the container format's fixed key
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	}
	for _, key := range keys {
		ours, err := NewCipher(key)
		if err != nil {
			t.Fatalf("NewCipher: %v", err)
		}
		ref, err := xtwofish.NewCipher(key)
		if err != nil {
			t.Fatalf("reference NewCipher: %v", err)
		}

		block := make([]byte, BlockSize)
		want := make([]byte, BlockSize)
		got := make([]byte, BlockSize)
		back := make([]byte, BlockSize)
		for i := 0; i < 256; i++ {
			ours.Encrypt(got, block)
			ref.Encrypt(want, block)
			if !bytes.Equal(got, want) {
				t.Fatalf("key %X iteration %d: got %X, want %X", key, i, got, want)
			}

			ours.Decrypt(back, got)
			if !bytes.Equal(back, block) {
				t.Fatalf("key %X iteration %d: decrypt did not invert encrypt", key, i)
			}

			copy(block, got)
		}
	}
}

func TestKeySizeError(t *testing.T) {
	for _, n := range []int{0, 1, 15, 17, 31, 33} {
		if _, err := NewCipher(make([]byte, n)); err == nil {
			t.Fatalf("NewCipher accepted %d-byte key", n)
		}
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := NewCipher(bytes.Repeat([]byte{137}, 16))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	pt := []byte("network topology")
	if len(pt) != BlockSize {
		t.Fatalf("test plaintext must be one block")
	}
	ct := make([]byte, BlockSize)
	out := make([]byte, BlockSize)
	c.Encrypt(ct, pt)
	if bytes.Equal(ct, pt) {
		t.Fatalf("ciphertext equals plaintext")
	}
	c.Decrypt(out, ct)
	if !bytes.Equal(out, pt) {
		t.Fatalf("round trip failed: got %X", out)
	}
}
