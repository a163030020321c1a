package types

import (
	"encoding/json"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBigMarshalUnmarshalJSON(t *testing.T) {
	c := qt.New(t)
	bi := (*BigInt)(big.NewInt(1234567890))
	jsonBigInt := map[string]*BigInt{
		"bi": bi,
	}
	bBigInt, err := json.Marshal(jsonBigInt)
	c.Assert(err, qt.IsNil)

	var unmarshaled map[string]*BigInt
	c.Assert(json.Unmarshal(bBigInt, &unmarshaled), qt.IsNil)
	c.Assert(unmarshaled["bi"], qt.DeepEquals, bi)
}

func TestBigUnmarshalJSONNumeric(t *testing.T) {
	c := qt.New(t)

	// Test with string representation
	var biString BigInt
	c.Assert(json.Unmarshal([]byte(`"123456789"`), &biString), qt.IsNil)
	c.Assert(biString.String(), qt.Equals, "123456789")

	// Test with numeric representation
	var biNumeric BigInt
	c.Assert(json.Unmarshal([]byte(`123456789`), &biNumeric), qt.IsNil)
	c.Assert(biNumeric.String(), qt.Equals, "123456789")
}

func TestDecimalOrHexToBigInt(t *testing.T) {
	c := qt.New(t)

	dec, err := DecimalOrHexToBigInt("1234")
	c.Assert(err, qt.IsNil)
	c.Assert(dec.String(), qt.Equals, "1234")

	hex, err := DecimalOrHexToBigInt("0x4d2")
	c.Assert(err, qt.IsNil)
	c.Assert(hex.String(), qt.Equals, "1234")

	_, err = DecimalOrHexToBigInt("not-a-number")
	c.Assert(err, qt.Not(qt.IsNil))
}
