// Package bundle implements the envelope model, signer and codec that turn
// user payloads into the calldata of an outer EVM transaction.
package bundle

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Protocol-level constants. These are bit-exact wire values, not tunables.
const (
	// ChainID is the chain identifier used to sign outer transactions. It is
	// also recorded in every inner transaction's chain_id field and checked
	// on decode, but inner transactions are signed with the Homestead
	// signer, so their signatures do not commit to ChainID.
	ChainID = 9496

	// BlockGasLimit bounds the fee-escalation loop in the submitter.
	BlockGasLimit = 500_000_000

	// OuterGasLimit is the gas limit set on every outer transaction.
	OuterGasLimit = 490_000_000

	// InitialMaxPriorityFee and InitialMaxFee are the starting EIP-1559-style
	// fee caps applied to outer transactions before any escalation.
	InitialMaxPriorityFee = 1_000_000_000
	InitialMaxFee         = 2_000_000_000

	// TagsSizeLimit bounds the serialized size of an envelope's tag list.
	TagsSizeLimit = 2048
)

// Version is the outer-transaction recipient address, doubling as a protocol
// tag: readers must verify it before decoding calldata as a bundle.
type Version common.Address

// Equal compares two Versions case-insensitively, matching the case-insensitive
// address comparison mandated for the "to" field.
func (v Version) Equal(other Version) bool {
	return strings.EqualFold(common.Address(v).Hex(), common.Address(other).Hex())
}

// Address returns the Version as a go-ethereum address.
func (v Version) Address() common.Address {
	return common.Address(v)
}

// String returns the EIP-55 checksum representation of the version address.
func (v Version) String() string {
	return common.Address(v).Hex()
}

var (
	// BABE1 is the version address for standard bundles.
	BABE1 = Version(common.HexToAddress("0xbabe1d25501157043c7b4ea7CBC877B9B4D8A057"))
	// BABE2 is the version address for large-bundle chunks and manifests.
	BABE2 = Version(common.HexToAddress("0xbabe2dCAf248F2F1214dF2a471D77bC849a2Ce84"))
)
