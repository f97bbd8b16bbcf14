// Package compressio is an external collaborator: an opaque byte-in/
// byte-out codec the core engine never requires, offered so a caller
// persisting batches to a kvstore.Store can shrink them first
// (SPEC_FULL.md §8).
package compressio

import (
	"github.com/klauspost/compress/zstd"

	"github.com/paiml/trueno-db/errs"
)

// Codec compresses and decompresses opaque byte payloads.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec constructs a reusable zstd codec. Callers should call Close
// when done, matching zstd.Encoder/Decoder's own resource lifecycle.
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "constructing zstd encoder")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, errs.Wrap(errs.IO, err, "constructing zstd decoder")
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// Compress returns a new slice containing the zstd-compressed form of src.
func (c *Codec) Compress(src []byte) []byte {
	return c.enc.EncodeAll(src, nil)
}

// Decompress returns the decompressed form of src, or a wrapped IO error
// if src is not valid zstd data.
func (c *Codec) Decompress(src []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(src, nil)
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "decompressing zstd payload")
	}
	return out, nil
}

// Close releases the codec's underlying resources.
func (c *Codec) Close() {
	c.enc.Close()
	c.dec.Close()
}
