package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/apperr"
)

type echoArgs struct {
	Name string `json:"name"`
}

func call(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/comoi-api/rpc/echo", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandle(t *testing.T) {
	logger := zap.NewNop().Sugar()
	h := Handle(logger, func(_ *http.Request, a echoArgs) (*echoArgs, error) {
		switch a.Name {
		case "":
			return nil, nil
		case "forbidden":
			return nil, fmt.Errorf("vendor v1: %w", apperr.ErrForbidden)
		case "boom":
			return nil, errors.New("pq: connection refused")
		}
		return &a, nil
	})

	rec, env := call(t, h, `{"name":"ba"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"ba"}`, string(env["value"]))

	rec, env = call(t, h, ``)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(env["value"]))

	rec, env = call(t, h, `{"name":"forbidden"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, string(env["error"]), `"code":"FORBIDDEN"`)

	rec, env = call(t, h, `{"name":"boom"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":"INTERNAL","message":"internal error"}`, string(env["error"]))

	rec, env = call(t, h, `{"nam":"typo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env["error"]), "INVALID_ARGUMENT")
}
