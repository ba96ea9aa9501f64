// Package rpc is the JSON envelope shared by every operation handler.
//
// A call is POST /comoi-api/rpc/<operation> with the arguments object as body.
// Success is {"value": ...}; failure is {"error": {"code": ..., "message": ...}}
// with the HTTP status taken from the error kind.
package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/apperr"
)

const maxBody = 1 << 20

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

type valueEnvelope struct {
	Value any `json:"value"`
}

// Decode reads the arguments object into dst. An empty body decodes as {}.
// Unknown fields are rejected.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode args: %v: %w", err, apperr.ErrInvalidArgument)
	}
	return nil
}

func WriteValue(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, valueEnvelope{Value: v})
}

// WriteError maps err to its wire code. Unlabeled errors are logged and
// returned as INTERNAL without detail.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	code := apperr.Code(err)
	msg := err.Error()
	if !apperr.IsLabeled(err) {
		logger.Errorw("rpc failed", "err", err)
		msg = "internal error"
	} else {
		logger.Debugw("rpc refused", "code", code, "err", err)
	}
	writeJSON(w, apperr.HTTPStatus(err), errorEnvelope{Error: ErrorBody{Code: code, Message: msg}})
}

// Handle adapts a typed operation to an http.HandlerFunc.
func Handle[A any, R any](logger *zap.SugaredLogger, op func(r *http.Request, args A) (R, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var args A
		if err := Decode(r, &args); err != nil {
			WriteError(w, logger, err)
			return
		}
		v, err := op(r, args)
		if err != nil {
			WriteError(w, logger, err)
			return
		}
		WriteValue(w, v)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Route binds an operation name such as "orders.get" to its handler.
type Route struct {
	Operation string
	Handler   http.HandlerFunc
}
