package largebundle

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/loadnetwork/bundler/bundle"
	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
	"github.com/loadnetwork/bundler/log"
	"github.com/loadnetwork/bundler/submit"
)

// maxConcurrentChunkDispatch bounds the super-propagate semaphore at
// min(chunkersCount, 30), per §5's backpressure rule.
const maxConcurrentChunkDispatch = 30

const chunkRetryAttempts = 3
const chunkRetryBackoff = 100 * time.Millisecond

// PropagateChunks submits every chunk sequentially as its own single-envelope
// bundle targeting BABE2, tagged with its chunk_index (§4.6 step 3).
func (lb *LargeBundle) PropagateChunks(ctx context.Context, transport submit.Transport) error {
	receipts := make([]common.Hash, len(lb.chunks))
	for i, chunk := range lb.chunks {
		hash, err := submitChunk(ctx, transport, lb.signer, i, chunk)
		if err != nil {
			return fmt.Errorf("largebundle: propagating chunk %d: %w", i, err)
		}
		log.Debugw("propagated chunk", "index", i, "hash", hash.Hex())
		receipts[i] = hash
	}
	lb.chunkReceipts = receipts
	return nil
}

// SuperPropagateChunks dispatches chunks in parallel across the attached
// SuperAccount's chunkers, round-robin assigned (chunk i -> chunker i%K),
// bounded by min(K, 30) concurrent submissions (§4.6 step 4, §5, §7's
// C7 usage #2). Any slot left unfilled after the fan-in is a fatal
// MissingReceiptError.
func (lb *LargeBundle) SuperPropagateChunks(ctx context.Context, transport submit.Transport) error {
	if lb.superAccount == nil {
		return ErrSuperAccountNeeded
	}
	chunkers := lb.superAccount.Chunkers()
	if lb.chunkersCount > 0 && lb.chunkersCount < len(chunkers) {
		chunkers = chunkers[:lb.chunkersCount]
	}
	k := len(chunkers)
	if k == 0 {
		return ErrChunkersNeeded
	}

	limit := k
	if limit > maxConcurrentChunkDispatch {
		limit = maxConcurrentChunkDispatch
	}

	results := make([]*common.Hash, len(lb.chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	// One task per chunker submits that chunker's chunks (w, w+K, w+2K, ...)
	// one after another, so a chunker never has two broadcasts in flight.
	for w := 0; w < k; w++ {
		w := w
		chunker := chunkers[w]
		g.Go(func() error {
			for i := w; i < len(lb.chunks); i += k {
				hash, err := submitChunkWithRetry(gctx, transport, chunker, i, lb.chunks[i])
				if err != nil {
					return err
				}
				results[i] = &hash
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("largebundle: super propagate: %w", err)
	}

	receipts := make([]common.Hash, len(results))
	for i, r := range results {
		if r == nil {
			return &MissingReceiptError{Index: i}
		}
		receipts[i] = *r
	}
	lb.chunkReceipts = receipts
	return nil
}

// submitChunk builds, signs and submits a single-envelope bundle carrying
// chunk, tagged with its chunk_index, targeting BABE2.
func submitChunk(ctx context.Context, transport submit.Transport, signer *ethsigner.Signer, index int, chunk []byte) (common.Hash, error) {
	env, err := bundle.NewEnvelopeBuilder().
		Data(chunk).
		WithTag("chunk_index", strconv.Itoa(index)).
		Build()
	if err != nil {
		return common.Hash{}, err
	}

	signed, err := bundle.SignEnvelope(signer, env)
	if err != nil {
		return common.Hash{}, err
	}

	calldata, err := bundle.Encode(&bundle.BundleData{Envelopes: []bundle.SignedEnvelope{*signed}})
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := submit.CreateBundleSync(ctx, transport, signer, bundle.BABE2, calldata)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

// submitChunkWithRetry retries submitChunk up to chunkRetryAttempts times
// with a fixed backoff, per §4.6 step 4's "each task retries up to 3 times".
func submitChunkWithRetry(ctx context.Context, transport submit.Transport, signer *ethsigner.Signer, index int, chunk []byte) (common.Hash, error) {
	var lastErr error
	for attempt := 0; attempt < chunkRetryAttempts; attempt++ {
		hash, err := submitChunk(ctx, transport, signer, index, chunk)
		if err == nil {
			return hash, nil
		}
		lastErr = err
		if attempt < chunkRetryAttempts-1 {
			select {
			case <-ctx.Done():
				return common.Hash{}, ctx.Err()
			case <-time.After(chunkRetryBackoff):
			}
		}
	}
	return common.Hash{}, fmt.Errorf("largebundle: chunk %d failed after %d attempts: %w", index, chunkRetryAttempts, lastErr)
}
