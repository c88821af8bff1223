// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package decimal implements an unsigned fixed point number with 18 fractional
// digits, used for the global and per-staker reward index.
package decimal

import (
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/distributor/reverts"
)

// Digits is the number of fractional digits.
const Digits = 18

var (
	one = uint256.NewInt(1_000_000_000_000_000_000)

	errOverflow = reverts.New(reverts.ArithmeticOverflow, "decimal overflow")
)

// Decimal is an 18 digit fixed point number.
// It can be used as a value without state sharing.
type Decimal struct {
	raw uint256.Int
}

// Zero returns the zero decimal.
func Zero() Decimal {
	return Decimal{}
}

// One returns 1.0.
func One() Decimal {
	return Decimal{raw: *one}
}

// FromUint64 creates a decimal holding the whole number n.
func FromUint64(n uint64) Decimal {
	var d Decimal
	d.raw.Mul(uint256.NewInt(n), one)
	return d
}

// FromRaw creates a decimal from its scaled representation.
func FromRaw(raw *uint256.Int) Decimal {
	var d Decimal
	if raw != nil {
		d.raw.Set(raw)
	}
	return d
}

// FromRatio returns num/den floored to 18 digits.
func FromRatio(num, den *uint256.Int) (Decimal, error) {
	if den.IsZero() {
		return Decimal{}, reverts.New(reverts.ArithmeticOverflow, "division by zero")
	}
	var d Decimal
	if _, overflow := d.raw.MulDivOverflow(num, one, den); overflow {
		return Decimal{}, errOverflow
	}
	return d, nil
}

// Raw returns a copy of the scaled representation.
func (d Decimal) Raw() *uint256.Int {
	return new(uint256.Int).Set(&d.raw)
}

// IsZero returns true if the decimal presents a zero value.
func (d Decimal) IsZero() bool {
	return d.raw.IsZero()
}

// Cmp compares with another decimal.
func (d Decimal) Cmp(other Decimal) int {
	return d.raw.Cmp(&other.raw)
}

// Add returns d+other.
func (d Decimal) Add(other Decimal) (Decimal, error) {
	var r Decimal
	if _, overflow := r.raw.AddOverflow(&d.raw, &other.raw); overflow {
		return Decimal{}, errOverflow
	}
	return r, nil
}

// Sub returns d-other, failing if other is greater than d.
func (d Decimal) Sub(other Decimal) (Decimal, error) {
	var r Decimal
	if _, underflow := r.raw.SubOverflow(&d.raw, &other.raw); underflow {
		return Decimal{}, reverts.New(reverts.ArithmeticOverflow, "decimal underflow")
	}
	return r, nil
}

// MulInt returns floor(amount * d).
func (d Decimal) MulInt(amount *uint256.Int) (*uint256.Int, error) {
	r, overflow := new(uint256.Int).MulDivOverflow(amount, &d.raw, one)
	if overflow {
		return nil, errOverflow
	}
	return r, nil
}

// String returns the decimal form without trailing fractional zeros.
func (d Decimal) String() string {
	var whole, frac uint256.Int
	whole.DivMod(&d.raw, one, &frac)
	if frac.IsZero() {
		return whole.Dec()
	}
	fs := frac.Dec()
	fs = strings.Repeat("0", Digits-len(fs)) + fs
	return whole.Dec() + "." + strings.TrimRight(fs, "0")
}

// Parse parses a string like "15000" or "0.25".
func Parse(s string) (Decimal, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && frac == "") {
		return Decimal{}, errors.Errorf("invalid decimal %q", s)
	}
	if len(frac) > Digits {
		return Decimal{}, errors.Errorf("invalid decimal %q: too many fractional digits", s)
	}
	if strings.HasPrefix(whole, "+") || strings.HasPrefix(frac, "+") {
		return Decimal{}, errors.Errorf("invalid decimal %q", s)
	}

	w, err := uint256.FromDecimal(whole)
	if err != nil {
		return Decimal{}, errors.Wrapf(err, "invalid decimal %q", s)
	}
	var d Decimal
	if _, overflow := d.raw.MulOverflow(w, one); overflow {
		return Decimal{}, errOverflow
	}
	if frac != "" {
		f, err := uint256.FromDecimal(frac + strings.Repeat("0", Digits-len(frac)))
		if err != nil {
			return Decimal{}, errors.Wrapf(err, "invalid decimal %q", s)
		}
		if _, overflow := d.raw.AddOverflow(&d.raw, f); overflow {
			return Decimal{}, errOverflow
		}
	}
	return d, nil
}

// EncodeRLP implements rlp.Encoder.
func (d Decimal) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &d.raw)
}

// DecodeRLP implements rlp.Decoder.
func (d *Decimal) DecodeRLP(s *rlp.Stream) error {
	return s.ReadUint256(&d.raw)
}

// MarshalText implements the encoding.TextMarshaler interface.
func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (d *Decimal) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
