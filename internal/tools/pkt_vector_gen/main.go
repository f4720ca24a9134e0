// Command pkt_vector_gen regenerates the golden vectors under
// pktfile/testdata/vectors.
//
// Vectors are recorded once and then pinned by the conformance tests; rerun
// this tool only when the format itself changes, never to make a failing test
// pass.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"ptforge.dev/pktfile/eax"
	"ptforge.dev/pktfile/pktfile"
	"ptforge.dev/pktfile/twofish"
)

func main() {
	dir := flag.String("dir", filepath.Join("pktfile", "testdata", "vectors"), "output directory")
	flag.Parse()

	if err := generate(*dir); err != nil {
		fmt.Fprintf(os.Stderr, "pkt_vector_gen: %v\n", err)
		os.Exit(1)
	}
}

func generate(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	document := []byte(`<?xml version="1.0" encoding="utf-8"?><PACKETTRACER5><VERSION>8.2.0.0162</VERSION><NETWORK><DEVICES></DEVICES><LINKS></LINKS></NETWORK></PACKETTRACER5>`)

	container, err := pktfile.Encode(document)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "topology_1.xml"), document, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "topology_1.pkt"), container, 0o644); err != nil {
		return err
	}

	b, err := twofish.NewCipher(pktfile.FixedKey())
	if err != nil {
		return fmt.Errorf("cipher: %w", err)
	}
	ct, tag := eax.Seal(b, pktfile.FixedNonce(), make([]byte, 16), nil)
	sealed := append(append([]byte(nil), ct...), tag[:]...)
	if err := os.WriteFile(filepath.Join(dir, "seal_zero16.bin"), sealed, 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote topology_1.{xml,pkt} and seal_zero16.bin to %s\n", dir)
	return nil
}
