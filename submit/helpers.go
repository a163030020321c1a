package submit

import "math/big"

// mulFrac returns x * num / den, used for the 10% (11/10) fee-bump math in
// AdjustAndRetry.
func mulFrac(x *big.Int, num, den int64) *big.Int {
	out := new(big.Int).Mul(x, big.NewInt(num))
	return out.Div(out, big.NewInt(den))
}

// maxBig returns the largest of the given big.Int values.
func maxBig(vals ...*big.Int) *big.Int {
	max := vals[0]
	for _, v := range vals[1:] {
		if v.Cmp(max) > 0 {
			max = v
		}
	}
	return max
}
