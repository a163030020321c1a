package bundle

import (
	"crypto/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"

	ethsigner "github.com/loadnetwork/bundler/crypto/signatures/ethereum"
)

func mustSigner(c *qt.C) *ethsigner.Signer {
	s, err := ethsigner.NewSigner()
	c.Assert(err, qt.IsNil)
	return s
}

// TestCodecRoundTripSingleEnvelope covers S1: a single envelope with no
// target and no tags decodes to the exact input bytes.
func TestCodecRoundTripSingleEnvelope(t *testing.T) {
	c := qt.New(t)
	signer := mustSigner(c)

	env, err := NewEnvelopeBuilder().Data([]byte{0x01, 0x02, 0x03}).Build()
	c.Assert(err, qt.IsNil)

	signed, err := SignEnvelope(signer, env)
	c.Assert(err, qt.IsNil)

	data := &BundleData{Envelopes: []SignedEnvelope{*signed}}
	encoded, err := Encode(data)
	c.Assert(err, qt.IsNil)

	decoded, err := Decode(encoded)
	c.Assert(err, qt.IsNil)
	c.Assert(len(decoded.Envelopes), qt.Equals, 1)
	c.Assert(decoded.Envelopes[0].Input, qt.DeepEquals, []byte{0x01, 0x02, 0x03})
	c.Assert(decoded.Envelopes[0].To, qt.Equals, common.Address{})
	c.Assert(decoded.Envelopes[0].Tags, qt.HasLen, 0)
	c.Assert(data.Equal(decoded), qt.IsTrue)
}

// TestCodecRoundTripTwoEnvelopesPreservesOrderAndTarget covers S2.
func TestCodecRoundTripTwoEnvelopesPreservesOrderAndTarget(t *testing.T) {
	c := qt.New(t)
	signer := mustSigner(c)

	big1 := make([]byte, 128_000)
	big2 := make([]byte, 128_000)
	_, err := rand.Read(big1)
	c.Assert(err, qt.IsNil)
	_, err = rand.Read(big2)
	c.Assert(err, qt.IsNil)

	target := common.HexToAddress("0xfF676AF1A745dC6b5a6Cd9C5a8B7F0a4f150C64")

	env1, err := NewEnvelopeBuilder().Data(big1).Target(target).Build()
	c.Assert(err, qt.IsNil)
	env2, err := NewEnvelopeBuilder().Data(big2).Build()
	c.Assert(err, qt.IsNil)

	s1, err := SignEnvelope(signer, env1)
	c.Assert(err, qt.IsNil)
	s2, err := SignEnvelope(signer, env2)
	c.Assert(err, qt.IsNil)

	data := &BundleData{Envelopes: []SignedEnvelope{*s1, *s2}}
	encoded, err := Encode(data)
	c.Assert(err, qt.IsNil)

	decoded, err := Decode(encoded)
	c.Assert(err, qt.IsNil)
	c.Assert(len(decoded.Envelopes), qt.Equals, 2)
	c.Assert(decoded.Envelopes[0].To, qt.Equals, target)
	c.Assert(decoded.Envelopes[1].To, qt.Equals, common.Address{})
}

// TestCodecRoundTripPreservesTags covers S3.
func TestCodecRoundTripPreservesTags(t *testing.T) {
	c := qt.New(t)
	signer := mustSigner(c)

	env, err := NewEnvelopeBuilder().
		Data([]byte("hello")).
		WithTag("Content-Type", "text/plain").
		Build()
	c.Assert(err, qt.IsNil)

	signed, err := SignEnvelope(signer, env)
	c.Assert(err, qt.IsNil)

	data := &BundleData{Envelopes: []SignedEnvelope{*signed}}
	encoded, err := Encode(data)
	c.Assert(err, qt.IsNil)

	decoded, err := Decode(encoded)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded.Envelopes[0].Tags, qt.HasLen, 1)
	c.Assert(decoded.Envelopes[0].Tags[0].Name, qt.Equals, "Content-Type")
	c.Assert(decoded.Envelopes[0].Tags[0].Value, qt.Equals, "text/plain")
}

// TestSignEnvelopeSetsZeroCostFields checks that a freshly signed envelope
// carries the zero-cost field values that Decode later enforces.
func TestSignEnvelopeSetsZeroCostFields(t *testing.T) {
	c := qt.New(t)
	signer := mustSigner(c)

	env, err := NewEnvelopeBuilder().Data([]byte("x")).Build()
	c.Assert(err, qt.IsNil)
	signed, err := SignEnvelope(signer, env)
	c.Assert(err, qt.IsNil)

	c.Assert(signed.ChainID, qt.Equals, uint64(ChainID))
	c.Assert(signed.Nonce, qt.Equals, uint64(0))
	c.Assert(signed.GasLimit, qt.Equals, uint64(0))
	c.Assert(signed.GasPrice.Sign(), qt.Equals, 0)
	c.Assert(signed.Value.Sign(), qt.Equals, 0)
}

// TestSignerRecovery covers testable property 3.
func TestSignerRecovery(t *testing.T) {
	c := qt.New(t)
	signer := mustSigner(c)

	env, err := NewEnvelopeBuilder().Data([]byte("recover me")).Build()
	c.Assert(err, qt.IsNil)
	signed, err := SignEnvelope(signer, env)
	c.Assert(err, qt.IsNil)

	recovered, err := RecoverSigner(signed)
	c.Assert(err, qt.IsNil)
	c.Assert(recovered, qt.Equals, signer.Address())
}

// TestEnvelopeBuilderRequiresData covers §4.1: Build rejects missing data.
func TestEnvelopeBuilderRequiresData(t *testing.T) {
	c := qt.New(t)
	_, err := NewEnvelopeBuilder().Build()
	c.Assert(err, qt.Equals, ErrDataRequired)
}

// TestEnvelopeBuilderEnforcesTagsSizeLimit covers testable property 4.
func TestEnvelopeBuilderEnforcesTagsSizeLimit(t *testing.T) {
	c := qt.New(t)
	oversized := make([]byte, TagsSizeLimit+1)
	_, err := NewEnvelopeBuilder().
		Data([]byte("x")).
		WithTag("blob", string(oversized)).
		Build()
	c.Assert(err, qt.Equals, ErrTagsTooLarge)
}

// TestVersionEqualIsCaseInsensitive covers §6's case-insensitive "to" comparison.
func TestVersionEqualIsCaseInsensitive(t *testing.T) {
	c := qt.New(t)
	lower := Version(common.HexToAddress("0xbabe1d25501157043c7b4ea7cbc877b9b4d8a057"))
	c.Assert(lower.Equal(BABE1), qt.IsTrue)
	c.Assert(lower.Equal(BABE2), qt.IsFalse)
}
