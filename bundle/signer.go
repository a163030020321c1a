package bundle

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
)

var zeroAddress common.Address

// innerTxSigner is used to sign and recover the zero-cost inner transactions.
// Homestead (no EIP-155 replay protection) is deliberate: these transactions
// are never broadcast, so replay protection is moot, and it keeps v a plain
// 27/28 byte that maps directly onto the wire format's y_parity bool.
var innerTxSigner = gethtypes.HomesteadSigner{}

// SignEnvelope builds a zero-cost legacy transaction from env and signs it
// with signer, returning the wire-ready SignedEnvelope (§4.2).
func SignEnvelope(signer *ethsigner.Signer, env *Envelope) (*SignedEnvelope, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil envelope", ErrDataRequired)
	}
	to := zeroAddress
	if env.Target != nil {
		to = *env.Target
	}

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(0),
		Gas:      0,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     env.Data,
	})

	signedTx, err := gethtypes.SignTx(tx, innerTxSigner, signer.PrivateKey())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}

	v, r, s := signedTx.RawSignatureValues()
	return &SignedEnvelope{
		ChainID:  ChainID,
		Nonce:    0,
		GasPrice: big.NewInt(0),
		GasLimit: 0,
		To:       to,
		Value:    big.NewInt(0),
		Input:    env.Data,
		Hash:     signedTx.Hash(),
		YParity:  v.Uint64() == 28,
		R:        r,
		S:        s,
		Tags:     env.Tags,
	}, nil
}
