// Package retrieve implements the bundle retriever (C5): fetching an outer
// transaction, validating its version tag, and decoding it back into
// envelopes (optionally with recovered signer addresses).
package retrieve

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/loadnetwork/bundler/bundle"
)

// Transport is the narrow RPC surface the retriever depends on.
type Transport interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (*gethtypes.Transaction, error)
}

// ErrTransactionNotFound is returned when the outer transaction does not
// exist on chain.
var ErrTransactionNotFound = fmt.Errorf("retrieve: transaction not found")

// RetrieveEnvelopes fetches the outer transaction by hash, validates its
// recipient against expectedVersion (case-insensitively), and decodes its
// calldata into BundleData (§4.5).
func RetrieveEnvelopes(ctx context.Context, transport Transport, outerTxHash common.Hash, expectedVersion bundle.Version) (*bundle.BundleData, error) {
	tx, err := transport.TransactionByHash(ctx, outerTxHash)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}

	to := tx.To()
	if to == nil || !strings.EqualFold(to.Hex(), expectedVersion.String()) {
		return nil, bundle.ErrUnverifiedAddress
	}

	return bundle.Decode(tx.Data())
}

// OwnedSignedEnvelope pairs a SignedEnvelope with its recovered sender.
type OwnedSignedEnvelope struct {
	bundle.SignedEnvelope
	From common.Address
}

// ToBundleWithOwners recovers the signer of every inner transaction in data,
// producing a parallel structure carrying a `from` field (§4.5).
func ToBundleWithOwners(data *bundle.BundleData) ([]OwnedSignedEnvelope, error) {
	owned := make([]OwnedSignedEnvelope, len(data.Envelopes))
	for i, env := range data.Envelopes {
		from, err := bundle.RecoverSigner(&env)
		if err != nil {
			return nil, fmt.Errorf("retrieve: recovering owner of envelope %d: %w", i, err)
		}
		owned[i] = OwnedSignedEnvelope{SignedEnvelope: env, From: from}
	}
	return owned, nil
}
