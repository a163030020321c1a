package gateway

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/loadnetwork/bundler/bundle"
	"github.com/loadnetwork/bundler/largebundle"
	"github.com/loadnetwork/bundler/retrieve"
	"github.com/loadnetwork/bundler/types"
)

// retrieveErr classifies a RetrieveEnvelopes failure: a missing transaction
// or a version-tag mismatch both mean "nothing here" from the caller's point
// of view, so they surface as ErrEnvelopesNotFound (404) rather than the
// generic ErrRetrievalFailed (500).
func retrieveErr(err error) Error {
	if errors.Is(err, retrieve.ErrTransactionNotFound) || errors.Is(err, bundle.ErrUnverifiedAddress) {
		return ErrEnvelopesNotFound.WithErr(err)
	}
	return ErrRetrievalFailed.WithErr(err)
}

func (g *Gateway) hashParam(r *http.Request, param string) (common.Hash, error) {
	h, ok := parseHashParam(chi.URLParam(r, param))
	if !ok {
		return common.Hash{}, ErrMalformedHash
	}
	return h, nil
}

// envelopes writes the raw decoded BundleData for outerTxHash, validated
// against version.
func (g *Gateway) envelopes(w http.ResponseWriter, r *http.Request, version bundle.Version) {
	h, err := g.hashParam(r, HashURLParam)
	if err != nil {
		err.(Error).Write(w)
		return
	}

	data, err := retrieve.RetrieveEnvelopes(r.Context(), g.transport, h, version)
	if err != nil {
		retrieveErr(err).Write(w)
		return
	}
	httpWriteJSON(w, data)
}

// envelopeIDs writes just the inner transaction hashes of the bundle at
// outerTxHash, the minimal "what's in here" view.
func (g *Gateway) envelopeIDs(w http.ResponseWriter, r *http.Request, version bundle.Version) {
	h, err := g.hashParam(r, HashURLParam)
	if err != nil {
		err.(Error).Write(w)
		return
	}

	data, err := retrieve.RetrieveEnvelopes(r.Context(), g.transport, h, version)
	if err != nil {
		retrieveErr(err).Write(w)
		return
	}

	ids := types.SliceOf(data.Envelopes, func(env bundle.SignedEnvelope) string { return env.Hash.Hex() })
	httpWriteJSON(w, ids)
}

// envelopesFull writes every envelope in the bundle at outerTxHash alongside
// its recovered signer address.
func (g *Gateway) envelopesFull(w http.ResponseWriter, r *http.Request, version bundle.Version) {
	h, err := g.hashParam(r, HashURLParam)
	if err != nil {
		err.(Error).Write(w)
		return
	}

	data, err := retrieve.RetrieveEnvelopes(r.Context(), g.transport, h, version)
	if err != nil {
		retrieveErr(err).Write(w)
		return
	}

	owned, err := retrieve.ToBundleWithOwners(data)
	if err != nil {
		ErrRetrievalFailed.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, owned)
}

func (g *Gateway) envelopesV1(w http.ResponseWriter, r *http.Request) { g.envelopes(w, r, bundle.BABE1) }
func (g *Gateway) envelopeIDsV1(w http.ResponseWriter, r *http.Request) {
	g.envelopeIDs(w, r, bundle.BABE1)
}
func (g *Gateway) envelopesFullV1(w http.ResponseWriter, r *http.Request) {
	g.envelopesFull(w, r, bundle.BABE1)
}

func (g *Gateway) envelopesV2(w http.ResponseWriter, r *http.Request) { g.envelopes(w, r, bundle.BABE2) }
func (g *Gateway) envelopeIDsV2(w http.ResponseWriter, r *http.Request) {
	g.envelopeIDs(w, r, bundle.BABE2)
}
func (g *Gateway) envelopesFullV2(w http.ResponseWriter, r *http.Request) {
	g.envelopesFull(w, r, bundle.BABE2)
}

// resolveManifest writes the chunk receipt list and declared content type of
// a large-bundle manifest.
func (g *Gateway) resolveManifest(w http.ResponseWriter, r *http.Request) {
	h, err := g.hashParam(r, ManifestHashURLParam)
	if err != nil {
		err.(Error).Write(w)
		return
	}

	receipts, contentType, err := largebundle.ResolveManifest(r.Context(), g.transport, h)
	if err != nil {
		ErrManifestNotFound.WithErr(err).Write(w)
		return
	}

	httpWriteJSON(w, struct {
		ChunkReceipts []string `json:"chunk_receipts"`
		ContentType   string   `json:"content_type"`
	}{
		ChunkReceipts: types.SliceOf(receipts, func(h common.Hash) string { return h.Hex() }),
		ContentType:   contentType,
	})
}

// reconstructManifest streams the fully reassembled payload described by a
// large-bundle manifest.
func (g *Gateway) reconstructManifest(w http.ResponseWriter, r *http.Request) {
	h, err := g.hashParam(r, ManifestHashURLParam)
	if err != nil {
		err.(Error).Write(w)
		return
	}

	payload, contentType, err := largebundle.Reconstruct(r.Context(), g.transport, h)
	if err != nil {
		ErrManifestNotFound.WithErr(err).Write(w)
		return
	}
	httpWriteBinary(w, payload, contentType)
}
