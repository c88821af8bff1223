// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/distributor/api/utils"
	"github.com/vechain/distributor/transferdb"
)

type Transfers struct {
	db    *transferdb.TransferDB
	limit uint64
}

func New(db *transferdb.TransferDB, limit uint64) *Transfers {
	return &Transfers{
		db,
		limit,
	}
}

func (t *Transfers) filter(ctx context.Context, filter *TransferFilter) ([]*FilteredTransfer, error) {
	transfers, err := t.db.Filter(ctx, &transferdb.Filter{
		Token:     filter.Token,
		Recipient: filter.Recipient,
		Action:    filter.Action,
		Range:     convertRange(filter.Range),
		Options: &transferdb.Options{
			Offset: filter.Options.Offset,
			Limit:  filter.Options.Limit,
		},
		Order: filter.Order,
	})
	if err != nil {
		return nil, err
	}
	filtered := make([]*FilteredTransfer, len(transfers))
	for i, trans := range transfers {
		filtered[i] = convertTransfer(trans)
	}
	return filtered, nil
}

func (t *Transfers) handleFilterTransfers(w http.ResponseWriter, req *http.Request) error {
	var filter TransferFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > t.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", t.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", math.MaxInt64))
	}
	if filter.Range != nil && filter.Range.From != nil && filter.Range.To != nil && *filter.Range.From > *filter.Range.To {
		return utils.BadRequest(errors.New("filter.Range.To must be greater than or equal to filter.Range.From"))
	}
	if filter.Order != "" && filter.Order != transferdb.ASC && filter.Order != transferdb.DESC {
		return utils.BadRequest(fmt.Errorf("invalid order %q", filter.Order))
	}
	if filter.Options == nil {
		// one above the limit to detect an oversized result
		filter.Options = &Options{
			Offset: 0,
			Limit:  t.limit + 1,
		}
	}

	filtered, err := t.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	if len(filtered) > int(t.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered transfers exceeds the maximum allowed value of %d, please use pagination", t.limit))
	}
	return utils.WriteJSON(w, filtered)
}

func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transfers").
		HandlerFunc(utils.WrapHandlerFunc(t.handleFilterTransfers))
}
