// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schedule keeps the ordered, non overlapping emission ranges of the
// reward token.
package schedule

import (
	"cmp"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/vechain/distributor/reverts"
)

var errOverlap = reverts.New(reverts.InvalidSchedule, "schedule period overtakes an existing upcoming schedule period")

// Set is a list of entries sorted by Start where no two ranges intersect.
type Set struct {
	entries []Entry
}

// New creates a set from the given entries. Each entry must be well formed and
// must not overlap any other, but may lie in the past.
func New(entries ...Entry) (*Set, error) {
	s := &Set{}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if err := s.checkOverlap(e); err != nil {
			return nil, err
		}
		s.add(e.Copy())
	}
	return s, nil
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entries in Start order.
func (s *Set) Entries() []Entry {
	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e.Copy())
	}
	return entries
}

// Copy returns a deep copy of the set.
func (s *Set) Copy() *Set {
	return &Set{entries: s.Entries()}
}

// Insert adds a new entry which must start after now. The set is left
// unchanged when the entry is rejected.
func (s *Set) Insert(e Entry, now uint64) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Start <= now {
		return reverts.New(reverts.InvalidSchedule, "cannot add a schedule that was already passed")
	}
	if err := s.checkOverlap(e); err != nil {
		return err
	}
	s.add(e.Copy())
	return nil
}

// Emitted returns the total amount emitted by all entries within [from, to).
func (s *Set) Emitted(from, to uint64) (*uint256.Int, error) {
	total := new(uint256.Int)
	if to <= from {
		return total, nil
	}
	for _, e := range s.entries {
		if e.Start >= to {
			break
		}
		if _, overflow := total.AddOverflow(total, e.EmittedBetween(from, to)); overflow {
			return nil, reverts.New(reverts.ArithmeticOverflow, "emission overflow")
		}
	}
	return total, nil
}

// Total returns the sum of all entry amounts.
func (s *Set) Total() (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, e := range s.entries {
		if _, overflow := total.AddOverflow(total, e.Amount); overflow {
			return nil, reverts.New(reverts.ArithmeticOverflow, "schedule total overflow")
		}
	}
	return total, nil
}

// TruncateAndSplit cuts the set at cutoff. Entries ending at or before cutoff
// are kept, entries starting at or after cutoff are removed and an entry
// straddling cutoff is shortened to [Start, cutoff) with the amount it emits
// in that range. It returns the amount kept and the amount removed.
// The set is left unchanged on error.
func (s *Set) TruncateAndSplit(cutoff uint64) (distributed, remaining *uint256.Int, err error) {
	var (
		kept = make([]Entry, 0, len(s.entries))
		dist = new(uint256.Int)
		rem  = new(uint256.Int)
	)
	for _, e := range s.entries {
		var past, future *uint256.Int
		switch {
		case e.End <= cutoff:
			kept = append(kept, e.Copy())
			past, future = e.Amount, new(uint256.Int)
		case e.Start >= cutoff:
			past, future = new(uint256.Int), e.Amount
		default:
			past = e.EmittedBetween(e.Start, cutoff)
			future = new(uint256.Int).Sub(e.Amount, past)
			// a zero amount entry emits nothing and is not a valid entry
			if !past.IsZero() {
				kept = append(kept, Entry{Start: e.Start, End: cutoff, Amount: past})
			}
		}
		if _, overflow := dist.AddOverflow(dist, past); overflow {
			return nil, nil, reverts.New(reverts.ArithmeticOverflow, "distributed amount overflow")
		}
		if _, overflow := rem.AddOverflow(rem, future); overflow {
			return nil, nil, reverts.New(reverts.ArithmeticOverflow, "remaining amount overflow")
		}
	}
	s.entries = kept
	return dist, rem, nil
}

// EncodeRLP implements rlp.Encoder.
func (s *Set) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, s.entries)
}

// DecodeRLP implements rlp.Decoder.
func (s *Set) DecodeRLP(stream *rlp.Stream) error {
	var entries []Entry
	if err := stream.Decode(&entries); err != nil {
		return err
	}
	decoded, err := New(entries...)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

func (s *Set) checkOverlap(e Entry) error {
	for _, existing := range s.entries {
		if e.Overlaps(existing) {
			return errOverlap
		}
	}
	return nil
}

func (s *Set) add(e Entry) {
	i, _ := slices.BinarySearchFunc(s.entries, e, func(a, b Entry) int {
		return cmp.Compare(a.Start, b.Start)
	})
	s.entries = slices.Insert(s.entries, i, e)
}
