// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferdb

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/staking"
)

// Transfer is a journaled transfer instruction.
type Transfer struct {
	Seq       uint64       `json:"seq"`
	Height    uint64       `json:"height"`
	Action    string       `json:"action"`
	Token     dist.Address `json:"token"`
	Recipient dist.Address `json:"recipient"`
	Amount    *uint256.Int `json:"amount"`
}

// NewTransfer converts a transfer emitted by action at height.
func NewTransfer(height uint64, action string, t *staking.Transfer) *Transfer {
	return &Transfer{
		Height:    height,
		Action:    action,
		Token:     t.Token,
		Recipient: t.Recipient,
		Amount:    new(uint256.Int).Set(t.Amount),
	}
}

func (t *Transfer) String() string {
	return fmt.Sprintf(`Transfer(
	seq:       %v,
	height:    %v,
	action:    %v,
	token:     %v,
	recipient: %v,
	amount:    %v)`,
		t.Seq,
		t.Height,
		t.Action,
		t.Token,
		t.Recipient,
		t.Amount)
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive height range. A To below From leaves the range open
// ended.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects journaled transfers. Nil fields match everything.
type Filter struct {
	Token     *dist.Address `json:"token"`
	Recipient *dist.Address `json:"recipient"`
	Action    string        `json:"action"`
	Range     *Range        `json:"range"`
	Options   *Options      `json:"options"`
	Order     Order         `json:"order"`
}
