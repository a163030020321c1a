package bundle

import "encoding/binary"

// Uint128 is a 16-byte little-endian unsigned integer matching Rust's borsh
// encoding of u128. gas_price is always zero in this domain's inner
// transactions, but the wire format carries the full width field, so decode
// must reject any non-zero high bytes rather than silently truncate.
type Uint128 [16]byte

// Uint128FromUint64 encodes v into the low 8 bytes of a Uint128, zeroing the
// high bytes.
func Uint128FromUint64(v uint64) Uint128 {
	var u Uint128
	binary.LittleEndian.PutUint64(u[:8], v)
	return u
}

// Uint64 returns the value as a uint64 and true if it fits (all high 8 bytes
// are zero), or false otherwise.
func (u Uint128) Uint64() (uint64, bool) {
	for _, b := range u[8:] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.LittleEndian.Uint64(u[:8]), true
}

// envelopeSignatureWire is the borsh wire representation of an inner
// transaction's signature, per §6 of the wire format.
type envelopeSignatureWire struct {
	YParity bool
	R       string
	S       string
}

// tagWire is the borsh wire representation of a Tag.
type tagWire struct {
	Name  string
	Value string
}

// txEnvelopeWrapperWire is the borsh wire representation of one signed inner
// transaction, field order matching the declaration order mandated by §6.
type txEnvelopeWrapperWire struct {
	ChainID   uint64
	Nonce     uint64
	GasPrice  Uint128
	GasLimit  uint64
	To        string
	Value     string
	Input     string
	Hash      string
	Signature envelopeSignatureWire
	Tags      *[]tagWire
}

// bundleDataWire is the borsh wire representation of BundleData.
type bundleDataWire struct {
	Envelopes []txEnvelopeWrapperWire
}
