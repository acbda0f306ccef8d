// Package imgcodec defines the codec-selector boundary between biomdi's
// core and the image formats it deliberately does not implement (WSQ,
// JPEG-B, JPEG-L, JPEG2000, PNG — spec.md §1 "Out of scope").
//
// The shape is the teacher's compress.Codec / compress.CreateCodec
// pattern (compress/codec.go): a small Compressor/Decompressor-style
// interface plus a registry keyed by a tag, so the core can ask for "the
// codec for this algorithm" without knowing how any of them work.
// original_source/nbis/lib/an2k/decode.c's
// biomeval_nbis_decode_binary_field_image is the grounding for *why*:
// it looks up the BIN_CA (compression algorithm) field, the HLL/VLL
// (width/height) fields, derives pixel depth from the record type, and
// only then dispatches to wsq_decode_mem or an error for anything else.
// Registry.Get mirrors that dispatch without owning any decoder.
package imgcodec

import (
	"fmt"
	"sync"
)

// Algorithm identifies a compression algorithm tag as it appears in a
// NIST BIN_CA / CGA field or an FMR-adjacent image trailer.
type Algorithm string

// Algorithm tags the core recognizes without being able to decode them
// itself; only Raw has a built-in implementation.
const (
	Raw     Algorithm = "NONE"
	WSQ     Algorithm = "WSQ"
	JPEGB   Algorithm = "JPEGB"
	JPEGL   Algorithm = "JPEGL"
	JPEG2K  Algorithm = "JPEG2K"
	PNG     Algorithm = "PNG"
)

// Pixmap is the decoded raster the core hands back to a caller. It never
// interprets the pixel bytes itself.
type Pixmap struct {
	Width     int
	Height    int
	Depth     int // bits per pixel, e.g. 8 (grayscale) or 1 (bi-level)
	PPI       int // pixels per inch, 0 if unknown
	Pixels    []byte
}

// Codec decodes and encodes the pixel blob for one Algorithm. External
// packages implement this for WSQ/JPEG/PNG and Register it; the core
// never implements an image algorithm itself.
type Codec interface {
	// Decode turns a compressed blob plus its declared dimensions into a
	// raw Pixmap.
	Decode(blob []byte, width, height, depth int) (Pixmap, error)
	// Encode turns a raw Pixmap back into a compressed blob.
	Encode(p Pixmap) ([]byte, error)
}

// rawCodec is the only built-in Codec: an identity passthrough for
// uncompressed image data, grounded on compress.NewNoOpCompressor
// (compress/noop.go) — the teacher's "algorithm" that does no work and
// shares the input's backing array rather than copying.
type rawCodec struct{}

func (rawCodec) Decode(blob []byte, width, height, depth int) (Pixmap, error) {
	return Pixmap{Width: width, Height: height, Depth: depth, Pixels: blob}, nil
}

func (rawCodec) Encode(p Pixmap) ([]byte, error) {
	return p.Pixels, nil
}

// Registry maps an Algorithm tag to its Codec. The zero Registry holds no
// codecs, not even Raw; NewRegistry returns one with Raw installed.
type Registry struct {
	mu     sync.RWMutex
	codecs map[Algorithm]Codec
}

// NewRegistry creates a Registry pre-populated with the Raw codec, the
// only algorithm the core can serve without an external collaborator.
func NewRegistry() *Registry {
	return &Registry{codecs: map[Algorithm]Codec{Raw: rawCodec{}}}
}

// Register installs codec as the implementation for alg, overwriting any
// previous registration. Callers wire in WSQ/JPEG/PNG implementations
// this way; biomdi ships none of them.
func (r *Registry) Register(alg Algorithm, codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codecs == nil {
		r.codecs = make(map[Algorithm]Codec)
	}

	r.codecs[alg] = codec
}

// Get returns the Codec registered for alg.
func (r *Registry) Get(alg Algorithm) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codecs[alg]
	if !ok {
		return nil, fmt.Errorf("imgcodec: no codec registered for algorithm %q", alg)
	}

	return c, nil
}

// Decode looks up the codec for alg and decodes blob, matching
// decode.c's two-step "look up BIN_CA, then dispatch" flow.
func (r *Registry) Decode(alg Algorithm, blob []byte, width, height, depth int) (Pixmap, error) {
	c, err := r.Get(alg)
	if err != nil {
		return Pixmap{}, err
	}

	return c.Decode(blob, width, height, depth)
}

// Encode looks up the codec for alg and encodes p.
func (r *Registry) Encode(alg Algorithm, p Pixmap) ([]byte, error) {
	c, err := r.Get(alg)
	if err != nil {
		return nil, err
	}

	return c.Encode(p)
}
