package largebundle

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestChunkPayloadExactMultiple(t *testing.T) {
	c := qt.New(t)
	data := bytes.Repeat([]byte{0x01}, ChunkMaxSize*2)

	chunks, err := ChunkPayload(data)
	c.Assert(err, qt.IsNil)
	c.Assert(len(chunks), qt.Equals, 2)
	c.Assert(len(chunks[0]), qt.Equals, ChunkMaxSize)
	c.Assert(len(chunks[1]), qt.Equals, ChunkMaxSize)
}

// TestChunkPayloadIncludesTrailingPartialChunk guards against the original
// implementation's off-by-one, which silently dropped a trailing partial
// chunk (§9): n = 2*max + 1 must produce 3 chunks, not 2.
func TestChunkPayloadIncludesTrailingPartialChunk(t *testing.T) {
	c := qt.New(t)
	data := bytes.Repeat([]byte{0x02}, ChunkMaxSize*2+1)

	chunks, err := ChunkPayload(data)
	c.Assert(err, qt.IsNil)
	c.Assert(len(chunks), qt.Equals, 3)
	c.Assert(len(chunks[2]), qt.Equals, 1)

	reassembled := make([]byte, 0, len(data))
	for _, chunk := range chunks {
		reassembled = append(reassembled, chunk...)
	}
	c.Assert(reassembled, qt.DeepEquals, data)
}

func TestChunkPayloadRejectsEmpty(t *testing.T) {
	c := qt.New(t)
	_, err := ChunkPayload(nil)
	c.Assert(err, qt.Equals, ErrPayloadEmpty)
}

func TestChunkPayloadRejectsTooLarge(t *testing.T) {
	c := qt.New(t)
	data := make([]byte, SafeMaxSizeLimit+1)
	_, err := ChunkPayload(data)
	c.Assert(err, qt.Equals, ErrPayloadTooLarge)
}
