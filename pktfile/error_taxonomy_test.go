package pktfile

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"testing"

	"ptforge.dev/pktfile/eax"
	"ptforge.dev/pktfile/twofish"
)

// sealFramed runs the post-framing half of the encode pipeline on an
// arbitrary framed blob, so tests can produce authentic containers whose
// frame lies.
func sealFramed(t *testing.T, framed []byte) []byte {
	t.Helper()
	b, err := twofish.NewCipher(fixedKey[:])
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	ciphertext, tag := eax.Seal(b, fixedNonce[:], xorPositional(framed), nil)
	return PT8.wrap(mirrorObfuscate(append(ciphertext, tag[:]...)))
}

// A container whose compression header claims the wrong length must be
// rejected even though decryption and authentication both succeed.
func TestHeaderLengthLieRejected(t *testing.T) {
	doc := sampleDocument()

	var framed bytes.Buffer
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(doc)+1))
	framed.Write(header[:])
	zw := zlib.NewWriter(&framed)
	if _, err := zw.Write(doc); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("deflate close: %v", err)
	}

	container := sealFramed(t, framed.Bytes())
	_, err := Decode(container)
	if err == nil {
		t.Fatalf("lying frame header accepted")
	}
	if !IsFrameLengthMismatch(err) {
		t.Fatalf("expected frame length mismatch, got %v (rule %s)", err, RuleID(err))
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured *pktfile.Error, got %T", err)
	}
	if e.Kind != KindFrame || e.RuleID != "PKT-FRAME-002" {
		t.Fatalf("expected KindFrame/PKT-FRAME-002, got %s/%s", e.Kind, e.RuleID)
	}
}

func TestShortContainerMalformed(t *testing.T) {
	for _, n := range []int{0, 1, 15} {
		_, err := Decode(make([]byte, n))
		if err == nil {
			t.Fatalf("%d-byte container accepted", n)
		}
		if !IsMalformedContainer(err) {
			t.Fatalf("%d-byte container: expected KindContainer, got %v", n, err)
		}
		if RuleID(err) != "PKT-CONT-001" {
			t.Fatalf("%d-byte container: rule %s", n, RuleID(err))
		}
	}
}

func TestProfileMagicMismatch(t *testing.T) {
	marked := Profile{Name: "pt-marked", Magic: []byte{0x50, 0x4B, 0x54, 0x01}}
	backend := NewBuiltinBackend(marked)

	container, err := backend.Encode(sampleDocument())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(container, marked.Magic) {
		t.Fatalf("container missing profile marker")
	}
	doc, err := backend.Decode(container)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(doc, sampleDocument()) {
		t.Fatalf("marked profile round trip mismatch")
	}

	// The same bytes without their marker are malformed for this profile.
	if _, err := backend.Decode(container[len(marked.Magic):]); err == nil || RuleID(err) != "PKT-CONT-002" {
		t.Fatalf("expected PKT-CONT-002, got %v", err)
	}
}

func TestAuthFailureWrapsEAX(t *testing.T) {
	container, err := Encode(sampleDocument())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	mutated := append([]byte(nil), container...)
	mutated[len(mutated)/2] ^= 0xFF

	_, derr := Decode(mutated)
	if !IsAuthenticationFailure(derr) {
		t.Fatalf("expected authentication failure, got %v", derr)
	}
	if !errors.Is(derr, eax.ErrAuth) {
		t.Fatalf("authentication failure should wrap eax.ErrAuth")
	}
	if RuleID(derr) != "PKT-AUTH-001" {
		t.Fatalf("rule = %s, want PKT-AUTH-001", RuleID(derr))
	}
}
