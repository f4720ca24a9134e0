package pktfile

// The two obfuscation passes are non-cryptographic transforms the target
// format applies around encryption. The XOR formulas below were recovered by
// reverse engineering and must stay exactly as written: algebraically
// "cleaner" rewrites change the modular arithmetic and produce containers the
// consumer rejects with no diagnostic.

// xorPositional is the pre-encryption pass: byte i is XORed with
// (length - i) mod 256. Applying it twice restores the input.
func xorPositional(data []byte) []byte {
	n := len(data)
	out := make([]byte, n)
	for i, b := range data {
		out[i] = b ^ byte(n-i)
	}
	return out
}

// mirrorObfuscate is the encode direction of the post-encryption pass: byte i
// is XORed with (length - i*length) mod 256 and placed at the mirrored
// position length-1-i.
func mirrorObfuscate(data []byte) []byte {
	n := len(data)
	out := make([]byte, n)
	for i, b := range data {
		out[n-1-i] = b ^ byte(n-i*n)
	}
	return out
}

// mirrorDeobfuscate inverts mirrorObfuscate: output byte i is the mirrored
// input byte XORed with (length - i*length) mod 256.
func mirrorDeobfuscate(data []byte) []byte {
	n := len(data)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = data[n-1-i] ^ byte(n-i*n)
	}
	return out
}
