package pktfile

import "errors"

// A Backend converts whole documents to whole containers and back.
//
// Contract:
// - Encode and Decode MUST be deterministic and stateless between calls.
// - Backends configured with the same profile MUST be byte-interchangeable:
//   callers never observe which backend ran, only success or failure.
// - Decode MUST NOT return partial plaintext on any failure.
type Backend interface {
	Name() string
	Encode(document []byte) ([]byte, error)
	Decode(container []byte) ([]byte, error)
}

// Selector provides deterministic, ordered fallback across backends.
//
// The order is the slice order; callers MUST supply a fixed order so that the
// fallback strategy is explicit. A backend that fails (or reports itself
// unavailable) is skipped and the next one is tried; the first backend's
// error is surfaced only when every backend has failed, since it reflects the
// preferred backend's verdict.
type Selector struct {
	Backends []Backend
}

var _ Backend = Selector{}

// DefaultSelector returns the shipped backend order: the x/crypto-based
// reference implementation first, this module's own cipher as fallback, both
// on the default profile.
func DefaultSelector() Selector {
	return Selector{Backends: []Backend{
		NewReferenceBackend(PT8),
		NewBuiltinBackend(PT8),
	}}
}

// Name identifies the selector in diagnostics when no single backend can be
// credited.
func (s Selector) Name() string { return "auto" }

// EncodeReport encodes document and additionally reports which backend
// produced the container.
func (s Selector) EncodeReport(document []byte) ([]byte, string, error) {
	if len(s.Backends) == 0 {
		return nil, "", newError(KindBackend, "PKT-BACK-001", "selector has no backends")
	}
	var firstErr error
	for _, b := range s.Backends {
		out, err := b.Encode(document)
		if err == nil {
			return out, b.Name(), nil
		}
		if firstErr == nil && !errors.Is(err, ErrBackendUnavailable) {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = newError(KindBackend, "PKT-BACK-002", "no backend available")
	}
	return nil, "", firstErr
}

// DecodeReport decodes container and additionally reports which backend
// produced the document.
func (s Selector) DecodeReport(container []byte) ([]byte, string, error) {
	if len(s.Backends) == 0 {
		return nil, "", newError(KindBackend, "PKT-BACK-001", "selector has no backends")
	}
	var firstErr error
	for _, b := range s.Backends {
		out, err := b.Decode(container)
		if err == nil {
			return out, b.Name(), nil
		}
		if firstErr == nil && !errors.Is(err, ErrBackendUnavailable) {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = newError(KindBackend, "PKT-BACK-002", "no backend available")
	}
	return nil, "", firstErr
}

func (s Selector) Encode(document []byte) ([]byte, error) {
	out, _, err := s.EncodeReport(document)
	return out, err
}

func (s Selector) Decode(container []byte) ([]byte, error) {
	out, _, err := s.DecodeReport(container)
	return out, err
}
