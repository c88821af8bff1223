// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/distributor/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest, "bad\n"},
		{"forbidden", Forbidden(errors.New("no")), http.StatusForbidden, "no\n"},
		{"no cause", HTTPError(nil, http.StatusTeapot), http.StatusTeapot, ""},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "boom\n"},
		{"unauthorized revert", Revert(reverts.New(reverts.Unauthorized, "unauthorized")), http.StatusForbidden, "unauthorized\n"},
		{"schedule revert", Revert(reverts.New(reverts.InvalidSchedule, "end must be greater than begin")), http.StatusBadRequest, "end must be greater than begin\n"},
		{"plain error", Revert(errors.New("disk")), http.StatusInternalServerError, "disk\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}

func TestParseHeight(t *testing.T) {
	h, err := ParseHeight("")
	require.NoError(t, err)
	assert.Nil(t, h)

	h, err = ParseHeight("12345")
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), *h)

	_, err = ParseHeight("-1")
	assert.EqualError(t, err, "invalid height")
}
