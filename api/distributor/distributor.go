// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distributor

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/distributor/api/utils"
	"github.com/vechain/distributor/contract"
	"github.com/vechain/distributor/dist"
)

type Distributor struct {
	exec *contract.Executor
}

func New(exec *contract.Executor) *Distributor {
	return &Distributor{exec}
}

func (d *Distributor) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	config, err := d.exec.QueryConfig()
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, config)
}

func (d *Distributor) handleGetState(w http.ResponseWriter, req *http.Request) error {
	height, err := utils.ParseHeight(req.URL.Query().Get("height"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "height"))
	}
	state, err := d.exec.QueryState(height)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, state)
}

func (d *Distributor) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	addr, err := dist.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	height, err := utils.ParseHeight(req.URL.Query().Get("height"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "height"))
	}
	info, err := d.exec.QueryStakerInfo(addr, height)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, info)
}

func (d *Distributor) handleExecute(w http.ResponseWriter, req *http.Request) error {
	var body ExecuteRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Msg == nil {
		return utils.BadRequest(errors.New("body: msg required"))
	}
	resp, err := d.exec.Execute(req.Context(), body.Env, body.Info, body.Msg)
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, resp)
}

func (d *Distributor) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /config").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetConfig))
	sub.Path("/state").
		Methods(http.MethodGet).
		Name("GET /state").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetState))
	sub.Path("/stakers/{address}").
		Methods(http.MethodGet).
		Name("GET /stakers/{address}").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetStaker))
	sub.Path("/execute").
		Methods(http.MethodPost).
		Name("POST /execute").
		HandlerFunc(utils.WrapHandlerFunc(d.handleExecute))
}
