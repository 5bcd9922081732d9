// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicsignature/engine/builtin/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("bad input")), http.StatusBadRequest, "bad input"},
		{"forbidden", Forbidden(errors.New("too many")), http.StatusForbidden, "too many"},
		{"not found", NotFound(errors.New("no such thing")), http.StatusNotFound, "no such thing"},
		{"status only", HTTPError(nil, http.StatusTeapot), http.StatusTeapot, ""},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "disk on fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestWrapHandlerFuncRevert(t *testing.T) {
	h := WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
		return reverts.New(reverts.InvalidDonatedNftIndex, "Invalid donated NFT index.", 7)
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(reverts.InvalidDonatedNftIndex), body["revert"])
	assert.Contains(t, body["message"], "Invalid donated NFT index.")
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}

func TestWriteJSONWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSONWithStatus(rec, http.StatusServiceUnavailable, M{"healthy": false}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"healthy":false}`, rec.Body.String())
}
