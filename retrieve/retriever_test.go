package retrieve

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	qt "github.com/frankban/quicktest"

	"github.com/loadnetwork/bundler/bundle"
)

// fakeTransport returns a fixed transaction (or nil) regardless of the
// requested hash.
type fakeTransport struct {
	tx *gethtypes.Transaction
}

func (f *fakeTransport) TransactionByHash(ctx context.Context, hash common.Hash) (*gethtypes.Transaction, error) {
	return f.tx, nil
}

func txTo(to common.Address) *gethtypes.Transaction {
	return gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(0),
		Gas:      0,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     []byte{},
	})
}

// TestRetrieveEnvelopesRejectsWrongVersionTag covers scenario S6: an outer
// transaction addressed to BABE1 must be rejected when retrieved against
// BABE2 (and vice versa), since the recipient doubles as a protocol tag.
func TestRetrieveEnvelopesRejectsWrongVersionTag(t *testing.T) {
	c := qt.New(t)

	transport := &fakeTransport{tx: txTo(bundle.BABE1.Address())}
	_, err := RetrieveEnvelopes(context.Background(), transport, common.Hash{}, bundle.BABE2)
	c.Assert(err, qt.ErrorIs, bundle.ErrUnverifiedAddress)

	transport = &fakeTransport{tx: txTo(bundle.BABE2.Address())}
	_, err = RetrieveEnvelopes(context.Background(), transport, common.Hash{}, bundle.BABE1)
	c.Assert(err, qt.ErrorIs, bundle.ErrUnverifiedAddress)
}

func TestRetrieveEnvelopesRejectsNilRecipient(t *testing.T) {
	c := qt.New(t)

	transport := &fakeTransport{tx: gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(0),
		Gas:      0,
		To:       nil,
		Value:    big.NewInt(0),
		Data:     []byte{},
	})}
	_, err := RetrieveEnvelopes(context.Background(), transport, common.Hash{}, bundle.BABE1)
	c.Assert(err, qt.ErrorIs, bundle.ErrUnverifiedAddress)
}

func TestRetrieveEnvelopesSurfacesMissingTransaction(t *testing.T) {
	c := qt.New(t)

	transport := &fakeTransport{tx: nil}
	_, err := RetrieveEnvelopes(context.Background(), transport, common.Hash{}, bundle.BABE1)
	c.Assert(err, qt.ErrorIs, ErrTransactionNotFound)
}

type erroringTransport struct{ err error }

func (e *erroringTransport) TransactionByHash(ctx context.Context, hash common.Hash) (*gethtypes.Transaction, error) {
	return nil, e.err
}

func TestRetrieveEnvelopesSurfacesTransportErrors(t *testing.T) {
	c := qt.New(t)

	transport := &erroringTransport{err: errors.New("connection refused")}
	_, err := RetrieveEnvelopes(context.Background(), transport, common.Hash{}, bundle.BABE1)
	c.Assert(err, qt.Not(qt.IsNil))
}
