package bundle

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// RecoverSigner reassembles the legacy signed transaction described by e and
// recovers its sender via standard secp256k1 recovery, returning the sender
// address (whose Hex form is the EIP-55 checksum string) (§4.3, §8.3).
func RecoverSigner(e *SignedEnvelope) (common.Address, error) {
	v := int64(27)
	if e.YParity {
		v = 28
	}
	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    e.Nonce,
		GasPrice: e.GasPrice,
		Gas:      e.GasLimit,
		To:       &e.To,
		Value:    e.Value,
		Data:     e.Input,
		V:        big.NewInt(v),
		R:        e.R,
		S:        e.S,
	})

	addr, err := gethtypes.Sender(innerTxSigner, tx)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrSignatureRecovery, err)
	}
	return addr, nil
}
