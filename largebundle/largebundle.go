// Package largebundle implements the large-bundle sharder (C6): chunking a
// payload, driving per-chunk bundle submission (sequential or parallel over
// a SuperAccount's chunkers), producing and resolving a manifest bundle, and
// reconstructing the original payload from its chunks.
package largebundle

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/loadnetwork/bundler/bundle"
	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
	"github.com/loadnetwork/bundler/superaccount"
)

// DefaultContentType is used when no content type is set on the builder.
const DefaultContentType = "application/octet-stream"

// LargeBundle is the builder and in-flight state for C6 (§4.6). Zero value
// is not usable directly; construct with NewBuilder().
type LargeBundle struct {
	data          []byte
	signer        *ethsigner.Signer
	contentType   string
	superAccount  *superaccount.Pool
	chunkersCount int

	chunks        [][]byte
	chunkReceipts []common.Hash
}

// Builder constructs a LargeBundle with the optional setters from §4.6.
type Builder struct {
	lb LargeBundle
}

// NewBuilder returns an empty Builder with ContentType defaulted to
// application/octet-stream, matching §4.6.
func NewBuilder() *Builder {
	return &Builder{lb: LargeBundle{contentType: DefaultContentType}}
}

// Data sets the payload to be sharded.
func (b *Builder) Data(data []byte) *Builder {
	b.lb.data = data
	return b
}

// Signer sets the key used to sign every chunk and the manifest envelope.
func (b *Builder) Signer(signer *ethsigner.Signer) *Builder {
	b.lb.signer = signer
	return b
}

// ContentType sets the MIME type recorded in the manifest's
// Data-Content-Type tag.
func (b *Builder) ContentType(contentType string) *Builder {
	if contentType != "" {
		b.lb.contentType = contentType
	}
	return b
}

// SuperAccount attaches a loaded chunker pool, enabling SuperPropagateChunks.
func (b *Builder) SuperAccount(pool *superaccount.Pool) *Builder {
	b.lb.superAccount = pool
	return b
}

// ChunkersCount caps how many of the SuperAccount's chunkers are used for
// round-robin chunk assignment; zero means "use all loaded chunkers".
func (b *Builder) ChunkersCount(n int) *Builder {
	b.lb.chunkersCount = n
	return b
}

// Build validates the builder's state, chunks the payload (fixing the
// original's off-by-one bug per §9), and returns a ready-to-propagate
// LargeBundle (§4.6 steps 1-2).
func (b *Builder) Build() (*LargeBundle, error) {
	if len(b.lb.data) == 0 {
		return nil, ErrPayloadEmpty
	}
	if b.lb.signer == nil {
		return nil, bundle.ErrPrivateKeyNeeded
	}

	chunks, err := ChunkPayload(b.lb.data)
	if err != nil {
		return nil, err
	}

	lb := b.lb
	lb.chunks = chunks
	return &lb, nil
}

// ContentType returns the MIME type recorded on the large bundle.
func (lb *LargeBundle) ContentType() string {
	return lb.contentType
}

// Chunks returns the payload's chunks in order.
func (lb *LargeBundle) Chunks() [][]byte {
	return lb.chunks
}

// ChunkReceipts returns the chunk outer-tx hashes collected by a prior
// PropagateChunks/SuperPropagateChunks call, in chunk-index order.
func (lb *LargeBundle) ChunkReceipts() []common.Hash {
	return lb.chunkReceipts
}
