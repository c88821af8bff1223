// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distributor

import (
	"github.com/vechain/distributor/contract"
)

// ExecuteRequest is the body of POST /execute.
type ExecuteRequest struct {
	Env  contract.Env         `json:"env"`
	Info contract.Info        `json:"info"`
	Msg  *contract.ExecuteMsg `json:"msg"`
}
