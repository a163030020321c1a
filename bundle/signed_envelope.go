package bundle

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SignedEnvelope is the domain-level representation of a zero-cost inner
// transaction: the wire form of an Envelope after signing. Every field is
// carried explicitly (rather than re-derived) so decode can enforce §3's
// invariants without re-parsing the embedded transaction.
type SignedEnvelope struct {
	ChainID  uint64
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       common.Address
	Value    *big.Int
	Input    []byte
	Hash     common.Hash
	YParity  bool
	R        *big.Int
	S        *big.Int
	Tags     Tags
}

// Validate enforces the zero-cost inner-transaction invariants from §3/§8.2:
// nonce, gas_price, gas_limit and value must all be zero, and chain_id must
// match the configured ChainID.
func (e *SignedEnvelope) Validate() error {
	if e.ChainID != ChainID {
		return fmt.Errorf("%w: chain_id %d != %d", ErrInvariantViolation, e.ChainID, ChainID)
	}
	if e.Nonce != 0 {
		return fmt.Errorf("%w: nonce %d != 0", ErrInvariantViolation, e.Nonce)
	}
	if e.GasLimit != 0 {
		return fmt.Errorf("%w: gas_limit %d != 0", ErrInvariantViolation, e.GasLimit)
	}
	if e.GasPrice == nil || e.GasPrice.Sign() != 0 {
		return fmt.Errorf("%w: gas_price != 0", ErrInvariantViolation)
	}
	if e.Value == nil || e.Value.Sign() != 0 {
		return fmt.Errorf("%w: value != 0", ErrInvariantViolation)
	}
	return nil
}

// BundleData is the codec root: an ordered list of SignedEnvelope.
type BundleData struct {
	Envelopes []SignedEnvelope
}

// Equal performs a field-wise comparison, used by the codec round-trip test.
func (b *BundleData) Equal(other *BundleData) bool {
	if len(b.Envelopes) != len(other.Envelopes) {
		return false
	}
	for i := range b.Envelopes {
		a, c := b.Envelopes[i], other.Envelopes[i]
		if a.ChainID != c.ChainID || a.Nonce != c.Nonce || a.GasLimit != c.GasLimit ||
			a.To != c.To || a.Hash != c.Hash || a.YParity != c.YParity {
			return false
		}
		if a.GasPrice.Cmp(c.GasPrice) != 0 || a.Value.Cmp(c.Value) != 0 {
			return false
		}
		if a.R.Cmp(c.R) != 0 || a.S.Cmp(c.S) != 0 {
			return false
		}
		if string(a.Input) != string(c.Input) {
			return false
		}
		if len(a.Tags) != len(c.Tags) {
			return false
		}
		for j := range a.Tags {
			if a.Tags[j] != c.Tags[j] {
				return false
			}
		}
	}
	return true
}
