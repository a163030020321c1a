package largebundle

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	qt "github.com/frankban/quicktest"

	"github.com/loadnetwork/bundler/bundle"
	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
)

// memTransport is an in-memory stand-in for both submit.Transport and
// retrieve.Transport, recording every broadcast outer transaction so it can
// be fetched back by hash.
type memTransport struct {
	nonces map[common.Address]uint64
	byHash map[common.Hash]*gethtypes.Transaction
}

func newMemTransport() *memTransport {
	return &memTransport{
		nonces: make(map[common.Address]uint64),
		byHash: make(map[common.Hash]*gethtypes.Transaction),
	}
}

func (m *memTransport) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	n := m.nonces[account]
	m.nonces[account] = n + 1
	return n, nil
}

func (m *memTransport) SendRawTransaction(ctx context.Context, tx *gethtypes.Transaction) error {
	m.byHash[tx.Hash()] = tx
	return nil
}

func (m *memTransport) TransactionByHash(ctx context.Context, hash common.Hash) (*gethtypes.Transaction, error) {
	tx, ok := m.byHash[hash]
	if !ok {
		return nil, nil
	}
	return tx, nil
}

func TestLargeBundleWriteManifestReconstructRoundTrip(t *testing.T) {
	c := qt.New(t)
	signer, err := ethsigner.NewSigner()
	c.Assert(err, qt.IsNil)

	payload := make([]byte, ChunkMaxSize*2+100)
	for i := range payload {
		payload[i] = byte(i)
	}

	lb, err := NewBuilder().
		Data(payload).
		Signer(signer).
		ContentType("image/png").
		Build()
	c.Assert(err, qt.IsNil)
	c.Assert(len(lb.Chunks()), qt.Equals, 3)

	transport := newMemTransport()
	err = lb.PropagateChunks(context.Background(), transport)
	c.Assert(err, qt.IsNil)
	c.Assert(len(lb.ChunkReceipts()), qt.Equals, 3)

	manifestHash, err := lb.Finalize(context.Background(), transport)
	c.Assert(err, qt.IsNil)

	got, contentType, err := Reconstruct(context.Background(), transport, manifestHash)
	c.Assert(err, qt.IsNil)
	c.Assert(contentType, qt.Equals, "image/png")
	c.Assert(got, qt.DeepEquals, payload)
}

func TestLargeBundleBuildRejectsEmptyPayload(t *testing.T) {
	c := qt.New(t)
	signer, err := ethsigner.NewSigner()
	c.Assert(err, qt.IsNil)

	_, err = NewBuilder().Signer(signer).Build()
	c.Assert(err, qt.Equals, ErrPayloadEmpty)
}

func TestLargeBundleBuildRejectsMissingSigner(t *testing.T) {
	c := qt.New(t)
	_, err := NewBuilder().Data([]byte("x")).Build()
	c.Assert(err, qt.Equals, bundle.ErrPrivateKeyNeeded)
}

func TestSuperPropagateChunksRequiresSuperAccount(t *testing.T) {
	c := qt.New(t)
	signer, err := ethsigner.NewSigner()
	c.Assert(err, qt.IsNil)

	lb, err := NewBuilder().Data([]byte("small payload")).Signer(signer).Build()
	c.Assert(err, qt.IsNil)

	err = lb.SuperPropagateChunks(context.Background(), newMemTransport())
	c.Assert(err, qt.Equals, ErrSuperAccountNeeded)
}
