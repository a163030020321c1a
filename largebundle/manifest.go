package largebundle

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/loadnetwork/bundler/bundle"
	"github.com/loadnetwork/bundler/retrieve"
	"github.com/loadnetwork/bundler/submit"
)

// Manifest tag names (§6).
const (
	TagProtocol        = "Protocol"
	TagChunksCount     = "Chunks-Count"
	TagContentType     = "Content-Type"
	TagDataContentType = "Data-Content-Type"

	protocolLargeBundle    = "Large-Bundle"
	manifestContentTypeVal = "application/json"
)

// Finalize builds the manifest envelope listing chunkReceipts as a JSON array
// of unprefixed hex strings, tagged per §6, and submits it as a bundle
// targeting BABE2 (§4.6 step 5). A prior PropagateChunks/SuperPropagateChunks
// call must have populated lb.chunkReceipts.
func (lb *LargeBundle) Finalize(ctx context.Context, transport submit.Transport) (common.Hash, error) {
	if len(lb.chunkReceipts) == 0 {
		return common.Hash{}, bundle.ErrEnvelopesNeeded
	}

	receiptHexes := make([]string, len(lb.chunkReceipts))
	for i, h := range lb.chunkReceipts {
		receiptHexes[i] = strings.TrimPrefix(h.Hex(), "0x")
	}
	payload, err := json.Marshal(receiptHexes)
	if err != nil {
		return common.Hash{}, fmt.Errorf("largebundle: marshaling manifest receipts: %w", err)
	}

	env, err := bundle.NewEnvelopeBuilder().
		Data(payload).
		WithTag(TagProtocol, protocolLargeBundle).
		WithTag(TagChunksCount, strconv.Itoa(len(lb.chunkReceipts))).
		WithTag(TagContentType, manifestContentTypeVal).
		WithTag(TagDataContentType, lb.contentType).
		Build()
	if err != nil {
		return common.Hash{}, err
	}

	signed, err := bundle.SignEnvelope(lb.signer, env)
	if err != nil {
		return common.Hash{}, err
	}

	calldata, err := bundle.Encode(&bundle.BundleData{Envelopes: []bundle.SignedEnvelope{*signed}})
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := submit.CreateBundleSync(ctx, transport, lb.signer, bundle.BABE2, calldata)
	if err != nil {
		return common.Hash{}, fmt.Errorf("largebundle: finalizing manifest: %w", err)
	}
	return tx.Hash(), nil
}

// ResolveManifest fetches the manifest outer tx, validates it targets BABE2,
// decodes it, and parses its single envelope's JSON chunk-receipt list,
// re-prefixing each with "0x" (§4.6 retrieval step 1).
func ResolveManifest(ctx context.Context, transport retrieve.Transport, manifestHash common.Hash) (receipts []common.Hash, contentType string, err error) {
	data, err := retrieve.RetrieveEnvelopes(ctx, transport, manifestHash, bundle.BABE2)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrLargeBundleChunksRetrieval, err)
	}
	if len(data.Envelopes) == 0 {
		return nil, "", ErrManifestEmpty
	}

	manifestEnv := data.Envelopes[0]
	contentType, _ = manifestEnv.Tags.Get(TagDataContentType)

	var hexReceipts []string
	if err := json.Unmarshal(manifestEnv.Input, &hexReceipts); err != nil {
		return nil, "", fmt.Errorf("largebundle: decoding manifest JSON: %w", err)
	}

	receipts = make([]common.Hash, len(hexReceipts))
	for i, h := range hexReceipts {
		receipts[i] = common.HexToHash(strings.TrimPrefix(h, "0x"))
	}
	return receipts, contentType, nil
}
