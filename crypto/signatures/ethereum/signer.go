// Package ethereum provides the ECDSA key wrapper used throughout the bundler
// to hold signing identities (the main envelope signer, the outer-tx signer,
// and superaccount chunkers).
package ethereum

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Signer wraps an ECDSA private key for signing Ethereum-style transactions
// and messages. It is a thin type conversion over ecdsa.PrivateKey, not a
// copy, so callers can freely convert to and from *ecdsa.PrivateKey.
type Signer ecdsa.PrivateKey

// Address returns the Ethereum address derived from the public key of the signer.
func (s *Signer) Address() common.Address {
	return ethcrypto.PubkeyToAddress(s.PublicKey)
}

// PrivateKey returns the underlying *ecdsa.PrivateKey.
func (s *Signer) PrivateKey() *ecdsa.PrivateKey {
	return (*ecdsa.PrivateKey)(s)
}

// HexPrivateKey returns the hex-encoded representation of the ECDSA private key.
func (s *Signer) HexPrivateKey() string {
	return common.Bytes2Hex(ethcrypto.FromECDSA((*ecdsa.PrivateKey)(s)))
}

// NewSigner creates a new ECDSA private key for signing.
func NewSigner() (*Signer, error) {
	s, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("could not generate key: %w", err)
	}
	return (*Signer)(s), nil
}

// NewSignerFromHex creates a new ECDSA private key from a hex-encoded string.
func NewSignerFromHex(hexKey string) (*Signer, error) {
	s, err := ethcrypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("could not parse private key: %w", err)
	}
	return (*Signer)(s), nil
}

// NewSignerFromSeed creates a new ECDSA private key from a seed of any
// length, hashing it first to obtain the right scalar length.
func NewSignerFromSeed(seed []byte) (*Signer, error) {
	h := ethcrypto.Keccak256(seed)
	s, err := ethcrypto.ToECDSA(h)
	if err != nil {
		return nil, fmt.Errorf("could not derive key from seed: %w", err)
	}
	return (*Signer)(s), nil
}
