package bundle

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/andybalholm/brotli"
	"github.com/ethereum/go-ethereum/common"
	borsh "github.com/near/borsh-go"

	"github.com/loadnetwork/bundler/types"
)

// Brotli framing parameters, carried over bit-for-bit from the original
// implementation's stream/in-memory encode and decode paths.
const (
	brotliWindowBits       = 22
	brotliQualityInMemory  = 9
	brotliQualityStreaming = 8
	brotliStreamBufferSize = 64 * 1024
	brotliDecodeBufferSize = 32 * 1024
)

// Encode serializes BundleData to borsh and compresses it with brotli,
// producing the outer transaction's calldata (§4.3).
func Encode(data *BundleData) ([]byte, error) {
	wire, err := toWire(data)
	if err != nil {
		return nil, err
	}
	borshBytes, err := borsh.Serialize(*wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBorsh, err)
	}
	return compress(borshBytes), nil
}

// Decode reverses Encode: brotli-decompresses, borsh-decodes, and enforces
// every inner transaction's zero-cost invariants. calldata may optionally
// carry a leading "0x" prefix.
func Decode(calldata []byte) (*BundleData, error) {
	calldata = stripHexPrefix(calldata)

	raw, err := decompress(calldata)
	if err != nil {
		return nil, err
	}

	var wire bundleDataWire
	if err := borsh.Deserialize(&wire, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBorsh, err)
	}

	data, err := fromWire(&wire)
	if err != nil {
		return nil, err
	}
	for i := range data.Envelopes {
		if err := data.Envelopes[i].Validate(); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func stripHexPrefix(b []byte) []byte {
	if len(b) >= 2 && b[0] == '0' && (b[1] == 'x' || b[1] == 'X') {
		return b[2:]
	}
	return b
}

// compress runs the in-memory brotli path: quality 9, window 22.
func compress(raw []byte) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriterOptions(&buf, brotli.WriterOptions{
		Quality: brotliQualityInMemory,
		LGWin:   brotliWindowBits,
	})
	_, _ = w.Write(raw)
	_ = w.Close()
	return buf.Bytes()
}

// decompress runs the in-memory brotli decode path with a 32 KiB buffer.
func decompress(compressed []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(compressed))
	var out bytes.Buffer
	buf := make([]byte, brotliDecodeBufferSize)
	if _, err := io.CopyBuffer(&out, r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrotli, err)
	}
	return out.Bytes(), nil
}

// EncodeStream runs the streaming brotli path (quality 8, 64 KiB buffer),
// used when calldata is produced incrementally rather than all at once.
func EncodeStream(w io.Writer, data *BundleData) error {
	wire, err := toWire(data)
	if err != nil {
		return err
	}
	borshBytes, err := borsh.Serialize(*wire)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBorsh, err)
	}
	bw := brotli.NewWriterOptions(w, brotli.WriterOptions{
		Quality: brotliQualityStreaming,
		LGWin:   brotliWindowBits,
	})
	buf := bytes.NewReader(borshBytes)
	chunk := make([]byte, brotliStreamBufferSize)
	if _, err := io.CopyBuffer(bw, buf, chunk); err != nil {
		return fmt.Errorf("%w: %v", ErrBrotli, err)
	}
	return bw.Close()
}

func toWire(data *BundleData) (*bundleDataWire, error) {
	wrapped := make([]txEnvelopeWrapperWire, len(data.Envelopes))
	for i, env := range data.Envelopes {
		gasPrice := Uint128FromUint64(0)
		if env.GasPrice != nil && env.GasPrice.Sign() != 0 {
			return nil, fmt.Errorf("%w: gas_price must be zero to encode", ErrInvariantViolation)
		}

		var tagsPtr *[]tagWire
		if env.Tags != nil {
			wireTags := make([]tagWire, len(env.Tags))
			for j, t := range env.Tags {
				wireTags[j] = tagWire{Name: t.Name, Value: t.Value}
			}
			tagsPtr = &wireTags
		}

		wrapped[i] = txEnvelopeWrapperWire{
			ChainID:  env.ChainID,
			Nonce:    env.Nonce,
			GasPrice: gasPrice,
			GasLimit: env.GasLimit,
			To:       env.To.Hex(),
			Value:    bigOrZero(env.Value).String(),
			Input:    types.HexBytes(env.Input).String(),
			Hash:     env.Hash.Hex(),
			Signature: envelopeSignatureWire{
				YParity: env.YParity,
				R:       bigOrZero(env.R).String(),
				S:       bigOrZero(env.S).String(),
			},
			Tags: tagsPtr,
		}
	}
	return &bundleDataWire{Envelopes: wrapped}, nil
}

func fromWire(wire *bundleDataWire) (*BundleData, error) {
	envelopes := make([]SignedEnvelope, len(wire.Envelopes))
	for i, w := range wire.Envelopes {
		gasPrice, ok := w.GasPrice.Uint64()
		if !ok {
			return nil, fmt.Errorf("%w: gas_price does not fit in 64 bits", ErrInvariantViolation)
		}

		value, err := parseDecimalOrHex(w.Value)
		if err != nil {
			return nil, err
		}
		r, err := parseDecimalOrHex(w.Signature.R)
		if err != nil {
			return nil, err
		}
		s, err := parseDecimalOrHex(w.Signature.S)
		if err != nil {
			return nil, err
		}
		inputBytes, err := types.HexStringToHexBytes(w.Input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHexDecode, err)
		}
		input := []byte(inputBytes)

		var tags Tags
		if w.Tags != nil {
			tags = make(Tags, len(*w.Tags))
			for j, t := range *w.Tags {
				tags[j] = Tag{Name: t.Name, Value: t.Value}
			}
		}

		envelopes[i] = SignedEnvelope{
			ChainID:  w.ChainID,
			Nonce:    w.Nonce,
			GasPrice: new(big.Int).SetUint64(gasPrice),
			GasLimit: w.GasLimit,
			To:       common.HexToAddress(w.To),
			Value:    value,
			Input:    input,
			Hash:     common.HexToHash(w.Hash),
			YParity:  w.Signature.YParity,
			R:        r,
			S:        s,
			Tags:     tags,
		}
	}
	return &BundleData{Envelopes: envelopes}, nil
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

func parseDecimalOrHex(s string) (*big.Int, error) {
	v, err := types.DecimalOrHexToBigInt(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid integer %q", ErrBorsh, s)
	}
	return v.MathBigInt(), nil
}
