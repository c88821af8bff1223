// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/holiman/uint256"

	"github.com/vechain/distributor/dist"
	"github.com/vechain/distributor/transferdb"
)

type Range struct {
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type TransferFilter struct {
	Token     *dist.Address    `json:"token,omitempty"`
	Recipient *dist.Address    `json:"recipient,omitempty"`
	Action    string           `json:"action,omitempty"`
	Range     *Range           `json:"range,omitempty"`
	Options   *Options         `json:"options,omitempty"`
	Order     transferdb.Order `json:"order,omitempty"`
}

type FilteredTransfer struct {
	Seq       uint64       `json:"seq"`
	Height    uint64       `json:"height"`
	Action    string       `json:"action"`
	Token     dist.Address `json:"token"`
	Recipient dist.Address `json:"recipient"`
	Amount    *uint256.Int `json:"amount"`
}

func convertRange(r *Range) *transferdb.Range {
	if r == nil {
		return nil
	}
	var rng transferdb.Range
	if r.From != nil {
		rng.From = *r.From
	}
	switch {
	case r.To != nil:
		rng.To = *r.To
	case rng.From == 0:
		return nil
	default:
		// a To below From leaves the range open ended
		rng.To = rng.From - 1
	}
	return &rng
}

func convertTransfer(t *transferdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Seq:       t.Seq,
		Height:    t.Height,
		Action:    t.Action,
		Token:     t.Token,
		Recipient: t.Recipient,
		Amount:    t.Amount,
	}
}
