package submit

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	qt "github.com/frankban/quicktest"

	"github.com/loadnetwork/bundler/bundle"
	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
)

// fakeTransport rejects the first N sends with "replacement transaction
// underpriced" and succeeds afterwards, recording every nonce it was asked to
// send so the test can assert monotonicity (testable property 9).
type fakeTransport struct {
	rejectsRemaining int
	seenNonces       []uint64
}

func (f *fakeTransport) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 7, nil
}

func (f *fakeTransport) SendRawTransaction(ctx context.Context, tx *gethtypes.Transaction) error {
	f.seenNonces = append(f.seenNonces, tx.Nonce())
	if f.rejectsRemaining > 0 {
		f.rejectsRemaining--
		return errors.New("replacement transaction underpriced")
	}
	return nil
}

func TestSubmitEscalatesNonceAndFeesOnUnderpriced(t *testing.T) {
	c := qt.New(t)
	signer, err := ethsigner.NewSigner()
	c.Assert(err, qt.IsNil)

	transport := &fakeTransport{rejectsRemaining: 2}
	tx, err := Submit(context.Background(), transport, signer, bundle.BABE1, []byte{0xde, 0xad})
	c.Assert(err, qt.IsNil)
	c.Assert(tx, qt.Not(qt.IsNil))

	c.Assert(transport.seenNonces, qt.DeepEquals, []uint64{7, 8, 9})
	// Two 10% bumps from the 1 gwei / 2 gwei initial caps.
	c.Assert(tx.GasTipCap().Cmp(bigFromInt(1_000_000_000)) > 0, qt.IsTrue)
	c.Assert(tx.GasFeeCap().Cmp(bigFromInt(2_000_000_000)) > 0, qt.IsTrue)
}

func bigFromInt(v int64) *big.Int {
	return big.NewInt(v)
}

func TestSubmitSurfacesNonUnderpricedErrors(t *testing.T) {
	c := qt.New(t)
	signer, err := ethsigner.NewSigner()
	c.Assert(err, qt.IsNil)

	transport := &rejectingTransport{err: errors.New("insufficient funds")}
	_, err = Submit(context.Background(), transport, signer, bundle.BABE1, []byte{0x01})
	c.Assert(err, qt.Not(qt.IsNil))
}

type rejectingTransport struct{ err error }

func (r *rejectingTransport) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 0, nil
}

func (r *rejectingTransport) SendRawTransaction(ctx context.Context, tx *gethtypes.Transaction) error {
	return r.err
}
