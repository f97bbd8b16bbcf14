package compressio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	c, err := NewCodec()
	require.NoError(t, err)
	defer c.Close()

	original := []byte("trueno-db column batch payload, repeated repeated repeated")
	compressed := c.Compress(original)
	got, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestDecompressInvalidDataFails(t *testing.T) {
	c, err := NewCodec()
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Decompress([]byte("not zstd data"))
	assert.Error(t, err)
}
