package user

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/access"
	"github.com/sebkasanzew/comoi/internal/rpc"
	"github.com/sebkasanzew/comoi/internal/user/entity"
)

// Handler exposes the caller's own account.
type Handler struct {
	resolver *Resolver
	logger   *zap.SugaredLogger
}

func NewHandler(resolver *Resolver, logger *zap.SugaredLogger) *Handler {
	return &Handler{resolver: resolver, logger: logger}
}

type MeArgs struct{}

func (h *Handler) Routes() []rpc.Route {
	return []rpc.Route{
		{Operation: "users.me", Handler: rpc.Handle(h.logger, func(r *http.Request, _ MeArgs) (*entity.User, error) {
			return h.resolver.Current(r.Context(), access.SubjectFromContext(r.Context()))
		})},
	}
}
