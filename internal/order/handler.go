package order

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/order/entity"
	"github.com/sebkasanzew/comoi/internal/rpc"
)

// Handler exposes the order operations over the rpc envelope.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type ListByVendorArgs struct {
	VendorID string         `json:"vendorId"`
	Status   *entity.Status `json:"status,omitempty"`
}

type GetArgs struct {
	ID string `json:"id"`
}

type UpdateStatusArgs struct {
	OrderID string        `json:"orderId"`
	Status  entity.Status `json:"status"`
}

type CountsArgs struct {
	VendorID string `json:"vendorId"`
}

func (h *Handler) Routes() []rpc.Route {
	return []rpc.Route{
		{Operation: "orders.listByVendor", Handler: rpc.Handle(h.logger, func(r *http.Request, a ListByVendorArgs) ([]ListedOrder, error) {
			return h.svc.ListByVendor(r.Context(), a.VendorID, a.Status)
		})},
		{Operation: "orders.get", Handler: rpc.Handle(h.logger, func(r *http.Request, a GetArgs) (*OrderDetail, error) {
			return h.svc.Get(r.Context(), a.ID)
		})},
		{Operation: "orders.updateStatus", Handler: rpc.Handle(h.logger, func(r *http.Request, a UpdateStatusArgs) (UpdateResult, error) {
			return h.svc.UpdateStatus(r.Context(), a.OrderID, a.Status)
		})},
		{Operation: "orders.getCountsByStatus", Handler: rpc.Handle(h.logger, func(r *http.Request, a CountsArgs) (StatusCounts, error) {
			return h.svc.CountsByStatus(r.Context(), a.VendorID)
		})},
	}
}
