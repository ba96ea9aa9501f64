package oidc

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Handler serves discovery, JWKS and a token endpoint for the dev issuer.
type Handler struct {
	issuer   *Issuer
	base     string
	audience string
	logger   *zap.SugaredLogger
}

func NewHandler(issuer *Issuer, base, audience string, logger *zap.SugaredLogger) *Handler {
	return &Handler{issuer: issuer, base: base, audience: audience, logger: logger}
}

func (h *Handler) Discovery(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"issuer":         h.issuer.issuer,
		"jwks_uri":       h.base + "/jwks.json",
		"token_endpoint": h.base + "/token",
	})
}

func (h *Handler) JWKS(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.issuer.JWKS())
}

// Token signs a 15 minute token for the form field "subject". There is no
// credential check; the dev issuer must not be reachable in production.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid_request", http.StatusBadRequest)
		return
	}
	sub := r.Form.Get("subject")
	if sub == "" {
		http.Error(w, "invalid_request", http.StatusBadRequest)
		return
	}
	tok, err := h.issuer.Issue(sub, h.audience, 15*time.Minute)
	if err != nil {
		h.logger.Errorw("sign dev token", "err", err)
		http.Error(w, "server_error", http.StatusInternalServerError)
		return
	}
	h.logger.Debugw("dev token issued", "sub", sub)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"id_token":   tok,
		"token_type": "Bearer",
		"expires_in": 900,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
