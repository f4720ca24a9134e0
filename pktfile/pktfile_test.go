package pktfile

import (
	"bytes"
	"sync"
	"testing"
)

func sampleDocument() []byte {
	return []byte(`<?xml version="1.0" encoding="utf-8"?><PACKETTRACER5><NETWORK><DEVICES><DEVICE><ENGINE><NAME>Router0</NAME></ENGINE></DEVICE></DEVICES></NETWORK></PACKETTRACER5>`)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	docs := [][]byte{
		{},
		{0x00},
		[]byte("a"),
		sampleDocument(),
		bytes.Repeat([]byte{0xA5}, 15),
		bytes.Repeat([]byte{0xA5}, 16),
		bytes.Repeat([]byte{0xA5}, 17),
		bytes.Repeat([]byte("topology "), 500),
	}
	for i, doc := range docs {
		container, err := Encode(doc)
		if err != nil {
			t.Fatalf("doc %d: Encode: %v", i, err)
		}
		got, err := Decode(container)
		if err != nil {
			t.Fatalf("doc %d: Decode: %v", i, err)
		}
		if !bytes.Equal(got, doc) {
			t.Fatalf("doc %d: round trip mismatch: got %d bytes, want %d", i, len(got), len(doc))
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	doc := sampleDocument()
	first, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("Encode is not deterministic")
	}
}

// The two backends must be byte-interchangeable in both directions.
func TestBackendsInterchangeable(t *testing.T) {
	ref := NewReferenceBackend(PT8)
	builtin := NewBuiltinBackend(PT8)
	doc := sampleDocument()

	fromRef, err := ref.Encode(doc)
	if err != nil {
		t.Fatalf("reference Encode: %v", err)
	}
	fromBuiltin, err := builtin.Encode(doc)
	if err != nil {
		t.Fatalf("builtin Encode: %v", err)
	}
	if !bytes.Equal(fromRef, fromBuiltin) {
		t.Fatalf("backends produced different containers")
	}

	crossed, err := builtin.Decode(fromRef)
	if err != nil {
		t.Fatalf("builtin Decode(reference container): %v", err)
	}
	if !bytes.Equal(crossed, doc) {
		t.Fatalf("cross-backend decode mismatch")
	}
	crossed, err = ref.Decode(fromBuiltin)
	if err != nil {
		t.Fatalf("reference Decode(builtin container): %v", err)
	}
	if !bytes.Equal(crossed, doc) {
		t.Fatalf("cross-backend decode mismatch")
	}
}

func TestEmptyDocument(t *testing.T) {
	container, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode(empty): %v", err)
	}
	if len(container) == 0 {
		t.Fatalf("empty document produced empty container")
	}
	got, err := Decode(container)
	if err != nil {
		t.Fatalf("Decode(empty container): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty document, got %d bytes", len(got))
	}
}

// The pipeline is stateless, so independent documents may be processed fully
// in parallel with byte-identical results.
func TestConcurrentEncodesAgree(t *testing.T) {
	doc := sampleDocument()
	want, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	const workers = 16
	results := make([][]byte, workers)
	var wg sync.WaitGroup
	sel := DefaultSelector()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			out, err := sel.Encode(doc)
			if err == nil {
				results[w] = out
			}
		}(w)
	}
	wg.Wait()
	for w, out := range results {
		if !bytes.Equal(out, want) {
			t.Fatalf("worker %d produced a different container", w)
		}
	}
}

func TestFixedMaterial(t *testing.T) {
	key, nonce := FixedKey(), FixedNonce()
	if len(key) != 16 || len(nonce) != 16 {
		t.Fatalf("fixed material must be 16 bytes each")
	}
	for _, b := range key {
		if b != 137 {
			t.Fatalf("FixedKey byte = %d, want 137", b)
		}
	}
	for _, b := range nonce {
		if b != 16 {
			t.Fatalf("FixedNonce byte = %d, want 16", b)
		}
	}
}

// Callers receive copies of the fixed material; scribbling on a returned
// slice must not change later calls or the codec output.
func TestFixedMaterialImmutable(t *testing.T) {
	doc := sampleDocument()
	want, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	key, nonce := FixedKey(), FixedNonce()
	for i := range key {
		key[i] = 0
	}
	for i := range nonce {
		nonce[i] = 0
	}

	if !bytes.Equal(FixedKey(), bytes.Repeat([]byte{137}, 16)) {
		t.Fatalf("FixedKey changed after caller mutation")
	}
	if !bytes.Equal(FixedNonce(), bytes.Repeat([]byte{16}, 16)) {
		t.Fatalf("FixedNonce changed after caller mutation")
	}

	got, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("container bytes changed after caller mutated fixed material")
	}
}
