package largebundle

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/loadnetwork/bundler/bundle"
	"github.com/loadnetwork/bundler/retrieve"
)

// Reconstruct resolves the manifest at manifestHash, fans out a retrieval
// per chunk receipt (expecting exactly one envelope per chunk bundle), and
// concatenates the chunk payloads in manifest order (§4.6 retrieval step 2,
// §5's ordering guarantee, §8.7/§8.8). Any single chunk failure aborts the
// whole reconstruction.
func Reconstruct(ctx context.Context, transport retrieve.Transport, manifestHash common.Hash) (payload []byte, contentType string, err error) {
	receipts, contentType, err := ResolveManifest(ctx, transport, manifestHash)
	if err != nil {
		return nil, "", err
	}

	chunks := make([][]byte, len(receipts))
	g, gctx := errgroup.WithContext(ctx)
	for i, receipt := range receipts {
		i, receipt := i, receipt
		g.Go(func() error {
			data, err := retrieve.RetrieveEnvelopes(gctx, transport, receipt, bundle.BABE2)
			if err != nil {
				return fmt.Errorf("largebundle: retrieving chunk %d (%s): %w", i, receipt.Hex(), err)
			}
			if len(data.Envelopes) != 1 {
				return fmt.Errorf("%w: chunk %d has %d envelopes", ErrChunkEnvelopeCount, i, len(data.Envelopes))
			}
			chunks[i] = data.Envelopes[0].Input
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrLargeBundleReconstruction, err)
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	payload = make([]byte, 0, total)
	for _, c := range chunks {
		payload = append(payload, c...)
	}
	return payload, contentType, nil
}
