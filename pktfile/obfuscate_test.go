package pktfile

import (
	"bytes"
	"testing"
)

func TestXORPositionalSelfInverse(t *testing.T) {
	for _, n := range []int{0, 1, 2, 255, 256, 1000} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i * 7)
		}
		once := xorPositional(data)
		twice := xorPositional(once)
		if !bytes.Equal(twice, data) {
			t.Fatalf("length %d: pass is not self-inverse", n)
		}
		if n > 2 && bytes.Equal(once, data) {
			t.Fatalf("length %d: pass left data unchanged", n)
		}
	}
}

// Hand-computed values for length 3: out[2-i] = in[i] ^ (3 - 3i) mod 256,
// so [1,2,3] -> [3^0xFD, 2^0x00, 1^0x03] = [0xFE, 0x02, 0x02].
func TestMirrorObfuscateKnownValues(t *testing.T) {
	got := mirrorObfuscate([]byte{1, 2, 3})
	want := []byte{0xFE, 0x02, 0x02}
	if !bytes.Equal(got, want) {
		t.Fatalf("mirrorObfuscate([1 2 3]) = %X, want %X", got, want)
	}
}

func TestMirrorRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 16, 255, 256, 1000} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i*31 + 5)
		}
		if got := mirrorDeobfuscate(mirrorObfuscate(data)); !bytes.Equal(got, data) {
			t.Fatalf("length %d: mirror pass round trip failed", n)
		}
		if got := mirrorObfuscate(mirrorDeobfuscate(data)); !bytes.Equal(got, data) {
			t.Fatalf("length %d: mirror pass inverse round trip failed", n)
		}
	}
}

func TestXORPositionalKnownValues(t *testing.T) {
	// Length 4: out[i] = in[i] ^ (4 - i).
	got := xorPositional([]byte{0, 0, 0, 0})
	want := []byte{4, 3, 2, 1}
	if !bytes.Equal(got, want) {
		t.Fatalf("xorPositional(zeros) = %v, want %v", got, want)
	}
}
