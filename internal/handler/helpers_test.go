package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakebot/internal/domain"
	"bakebot/internal/middleware"
	"bakebot/pkg/errors"
)

var testUser = &domain.AuthUser{ID: "user-1", Email: "baker@example.com"}

type testRequest struct {
	method string
	target string
	body   string
	user   *domain.AuthUser
	params map[string]string
	header map[string]string
}

func serve(h http.HandlerFunc, tr testRequest) *httptest.ResponseRecorder {
	req := httptest.NewRequest(tr.method, tr.target, strings.NewReader(tr.body))
	for k, v := range tr.header {
		req.Header.Set(k, v)
	}

	ctx := req.Context()
	if tr.user != nil {
		ctx = middleware.WithUser(ctx, tr.user)
	}
	if len(tr.params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range tr.params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	rec := httptest.NewRecorder()
	h(rec, req.WithContext(ctx))
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	if dst != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, dst))
	}
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) errors.ErrorBody {
	t.Helper()
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}
