// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"github.com/holiman/uint256"

	"github.com/vechain/distributor/reverts"
)

// Entry emits Amount linearly across the block range [Start, End).
type Entry struct {
	Start  uint64       `json:"start"`
	End    uint64       `json:"end"`
	Amount *uint256.Int `json:"amount"`
}

// NewEntry creates an entry.
func NewEntry(start, end uint64, amount *uint256.Int) Entry {
	return Entry{Start: start, End: end, Amount: amount}
}

// Duration returns End-Start.
func (e Entry) Duration() uint64 {
	if e.End <= e.Start {
		return 0
	}
	return e.End - e.Start
}

// Validate checks the shape of the entry.
func (e Entry) Validate() error {
	if e.End <= e.Start {
		return reverts.New(reverts.InvalidSchedule, "end must be greater than begin")
	}
	if e.Amount == nil || e.Amount.IsZero() {
		return reverts.New(reverts.InvalidSchedule, "reward must be greater than zero")
	}
	return nil
}

// Overlaps reports whether the ranges of both entries intersect.
func (e Entry) Overlaps(other Entry) bool {
	return e.Start < other.End && e.End > other.Start
}

// EmittedBetween returns the amount the entry emits within [from, to),
// floor(Amount * overlap / duration).
func (e Entry) EmittedBetween(from, to uint64) *uint256.Int {
	lo := max(from, e.Start)
	hi := min(to, e.End)
	if hi <= lo || e.Amount == nil {
		return new(uint256.Int)
	}
	if lo == e.Start && hi == e.End {
		return new(uint256.Int).Set(e.Amount)
	}
	// overlap < duration, the result is below Amount
	r, _ := new(uint256.Int).MulDivOverflow(e.Amount, uint256.NewInt(hi-lo), uint256.NewInt(e.Duration()))
	return r
}

// Copy returns a deep copy.
func (e Entry) Copy() Entry {
	cpy := e
	if e.Amount != nil {
		cpy.Amount = new(uint256.Int).Set(e.Amount)
	}
	return cpy
}
