package twofish

// Finite-field polynomials for the MDS and RS matrix multiplies.
const (
	mdsPolynomial = 0x169 // x^8 + x^6 + x^5 + x^3 + 1
	rsPolynomial  = 0x14d // x^8 + x^6 + x^3 + x^2 + 1
)

// rs is the Reed-Solomon matrix used to derive the S words from the key.
var rs = [4][8]byte{
	{0x01, 0xA4, 0x55, 0x87, 0x5A, 0x58, 0xDB, 0x9E},
	{0xA4, 0x56, 0x82, 0xF3, 0x1E, 0xC6, 0x68, 0xE5},
	{0x02, 0xA1, 0xFC, 0xC1, 0x47, 0xAE, 0x3D, 0x19},
	{0xA4, 0x55, 0x87, 0x5A, 0x58, 0xDB, 0x9E, 0x03},
}

// The fixed permutations q0 and q1 are built at init from the specification's
// 4-bit construction tables rather than spelled out as 256-entry literals.
var qbox [2][256]byte

// 4-bit helper tables t0..t3 for q0 and q1, straight from the specification.
var qt = [2][4][16]byte{
	{
		{0x8, 0x1, 0x7, 0xD, 0x6, 0xF, 0x3, 0x2, 0x0, 0xB, 0x5, 0x9, 0xE, 0xC, 0xA, 0x4},
		{0xE, 0xC, 0xB, 0x8, 0x1, 0x2, 0x3, 0x5, 0xF, 0x4, 0xA, 0x6, 0x7, 0x0, 0x9, 0xD},
		{0xB, 0xA, 0x5, 0xE, 0x6, 0xD, 0x9, 0x0, 0xC, 0x8, 0xF, 0x3, 0x2, 0x4, 0x7, 0x1},
		{0xD, 0x7, 0xF, 0x4, 0x1, 0x2, 0x6, 0xE, 0x9, 0xB, 0x3, 0x0, 0x8, 0x5, 0xC, 0xA},
	},
	{
		{0x2, 0x8, 0xB, 0xD, 0xF, 0x7, 0x6, 0xE, 0x3, 0x1, 0x9, 0x4, 0x0, 0xA, 0xC, 0x5},
		{0x1, 0xE, 0x2, 0xB, 0x4, 0xC, 0x3, 0x7, 0x6, 0xD, 0xA, 0x5, 0xF, 0x9, 0x0, 0x8},
		{0x4, 0xC, 0x7, 0x5, 0x1, 0x6, 0x9, 0xA, 0x0, 0xE, 0xD, 0x8, 0x2, 0xB, 0x3, 0xF},
		{0xB, 0x9, 0x5, 0x1, 0xC, 0x3, 0xD, 0xE, 0x6, 0x4, 0x7, 0xF, 0x2, 0x0, 0x8, 0xA},
	},
}

func init() {
	ror4 := func(b byte) byte { return b>>1 | (b&1)<<3 }

	for q := 0; q < 2; q++ {
		t := &qt[q]
		for x := 0; x < 256; x++ {
			a0 := byte(x) / 16
			b0 := byte(x) % 16
			a1 := a0 ^ b0
			b1 := a0 ^ ror4(b0) ^ (8 * a0 % 16)
			a2 := t[0][a1]
			b2 := t[1][b1]
			a3 := a2 ^ b2
			b3 := a2 ^ ror4(b2) ^ (8 * a2 % 16)
			a4 := t[2][a3]
			b4 := t[3][b3]
			qbox[q][x] = 16*b4 + a4
		}
	}
}

// gfMult returns a*b in GF(2^8)/p, via a branchless shift-and-conditional-XOR.
func gfMult(a, b byte, p uint32) byte {
	bb := [2]uint32{0, uint32(b)}
	pp := [2]uint32{0, p}
	var result uint32
	for i := 0; i < 7; i++ {
		result ^= bb[a&1]
		a >>= 1
		bb[1] = pp[bb[1]>>7] ^ bb[1]<<1
	}
	result ^= bb[a&1]
	return byte(result)
}

// mdsColumnMult calculates y{col} where [y0 y1 y2 y3] = MDS . [x0].
// The MDS matrix contains only the values 01, 5B and EF.
func mdsColumnMult(in byte, col int) uint32 {
	mul01 := uint32(in)
	mul5B := uint32(gfMult(in, 0x5B, mdsPolynomial))
	mulEF := uint32(gfMult(in, 0xEF, mdsPolynomial))

	switch col {
	case 0:
		return mul01 | mul5B<<8 | mulEF<<16 | mulEF<<24
	case 1:
		return mulEF | mulEF<<8 | mul5B<<16 | mul01<<24
	case 2:
		return mul5B | mulEF<<8 | mul01<<16 | mulEF<<24
	case 3:
		return mul5B | mul01<<8 | mulEF<<16 | mul5B<<24
	}
	panic("twofish: unreachable")
}
