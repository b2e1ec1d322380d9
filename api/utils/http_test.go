// Copyright (c) 2025 The Ronin DPoS developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{BadRequest(errors.New("revision: invalid")), http.StatusBadRequest},
		{errors.Wrap(Forbidden(errors.New("gas: exceeds limit")), "call"), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tt.status, rr.Code)
		if tt.err != nil {
			assert.Equal(t, tt.err.Error()+"\n", rr.Body.String())
		}
	}
}

func TestParseAndWriteJSON(t *testing.T) {
	var v struct {
		Number uint32 `json:"number"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"number":7}`), &v))
	assert.Equal(t, uint32(7), v.Number)
	assert.Error(t, ParseJSON(strings.NewReader(`{"number":7,"extra":1}`), &v))

	rr := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rr, v))
	assert.Equal(t, JSONContentType, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"number":7}`, rr.Body.String())
}
