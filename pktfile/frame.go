package pktfile

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/binary"
	"io"
	"math"
)

// frame compresses document into the target tool's length-prefixed form:
// a 4-byte big-endian uncompressed length followed by a zlib stream.
//
// The prefix is part of the on-disk format, not a transport detail; the
// consumer inflates exactly that many bytes.
func frame(document []byte) ([]byte, error) {
	if uint64(len(document)) > math.MaxUint32 {
		return nil, newError(KindCompress, "PKT-COMP-003", "document exceeds the format's 32-bit length field")
	}

	var buf bytes.Buffer
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(document)))
	buf.Write(header[:])

	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(document); err != nil {
		return nil, wrapError(KindCompress, "PKT-COMP-001", "deflate failed", err)
	}
	if err := zw.Close(); err != nil {
		return nil, wrapError(KindCompress, "PKT-COMP-001", "deflate failed", err)
	}
	return buf.Bytes(), nil
}

// unframe inflates a framed blob and checks the inflated length against the
// header field. A mismatch is rejected outright rather than truncated or
// padded: the header is covered by the authentication tag, so disagreement
// means the encoder was broken, not the transport.
func unframe(blob []byte) ([]byte, error) {
	if len(blob) < 4 {
		return nil, newError(KindFrame, "PKT-FRAME-001", "framed payload shorter than its length header")
	}
	claimed := binary.BigEndian.Uint32(blob[:4])

	// Some producers emit a gzip stream here instead of zlib; accept both,
	// sniffed by the gzip magic. The length check below applies either way.
	stream := blob[4:]
	var zr io.ReadCloser
	var err error
	if len(stream) >= 2 && stream[0] == 0x1f && stream[1] == 0x8b {
		zr, err = gzip.NewReader(bytes.NewReader(stream))
	} else {
		zr, err = zlib.NewReader(bytes.NewReader(stream))
	}
	if err != nil {
		return nil, wrapError(KindCompress, "PKT-COMP-002", "inflate failed", err)
	}
	defer zr.Close()

	document, err := io.ReadAll(zr)
	if err != nil {
		return nil, wrapError(KindCompress, "PKT-COMP-002", "inflate failed", err)
	}
	if uint64(len(document)) != uint64(claimed) {
		return nil, newError(KindFrame, "PKT-FRAME-002", "inflated length disagrees with the frame header")
	}
	return document, nil
}
