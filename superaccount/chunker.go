// Package superaccount implements the chunker pool (C8): generating,
// encrypting, loading and funding the signer identities used to parallelize
// large-bundle chunk submission across distinct nonces.
package superaccount

import (
	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
)

// Chunker is a keystore-backed signing identity, one of a SuperAccount's
// pool. It is the same Signer abstraction used for the main envelope/outer-tx
// signer (§4.8): a chunker is nothing more than a Signer whose private key
// happens to live in an encrypted wallet_{i}.json file rather than being
// supplied directly by the caller.
type Chunker = ethsigner.Signer
