package catalog

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/catalog/entity"
	"github.com/sebkasanzew/comoi/internal/rpc"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type listArgs struct {
	Limit int `json:"limit,omitempty"`
}

type idArgs struct {
	ID string `json:"id"`
}

type searchArgs struct {
	SearchTerm string `json:"searchTerm"`
}

type listProductsArgs struct {
	CategoryID *string `json:"categoryId,omitempty"`
	Limit      int     `json:"limit,omitempty"`
}

type productIDArgs struct {
	ProductID string `json:"productId"`
}

type slugArgs struct {
	Slug string `json:"slug"`
}

type noArgs struct{}

func (h *Handler) Routes() []rpc.Route {
	return []rpc.Route{
		{Operation: "vendors.list", Handler: rpc.Handle(h.logger, func(r *http.Request, a listArgs) ([]entity.Vendor, error) {
			return h.svc.ListVendors(r.Context(), a.Limit)
		})},
		{Operation: "vendors.get", Handler: rpc.Handle(h.logger, func(r *http.Request, a idArgs) (*entity.Vendor, error) {
			return h.svc.GetVendor(r.Context(), a.ID)
		})},
		{Operation: "vendors.getWithProducts", Handler: rpc.Handle(h.logger, func(r *http.Request, a idArgs) (*VendorWithProducts, error) {
			return h.svc.GetVendorWithProducts(r.Context(), a.ID)
		})},
		{Operation: "vendors.search", Handler: rpc.Handle(h.logger, func(r *http.Request, a searchArgs) ([]entity.Vendor, error) {
			return h.svc.SearchVendors(r.Context(), a.SearchTerm)
		})},
		{Operation: "products.list", Handler: rpc.Handle(h.logger, func(r *http.Request, a listProductsArgs) ([]entity.Product, error) {
			return h.svc.ListProducts(r.Context(), a.CategoryID, a.Limit)
		})},
		{Operation: "products.get", Handler: rpc.Handle(h.logger, func(r *http.Request, a idArgs) (*entity.Product, error) {
			return h.svc.GetProduct(r.Context(), a.ID)
		})},
		{Operation: "products.search", Handler: rpc.Handle(h.logger, func(r *http.Request, a searchArgs) ([]entity.Product, error) {
			return h.svc.SearchProducts(r.Context(), a.SearchTerm)
		})},
		{Operation: "products.getWithPrices", Handler: rpc.Handle(h.logger, func(r *http.Request, a productIDArgs) (*ProductWithPrices, error) {
			return h.svc.GetProductWithPrices(r.Context(), a.ProductID)
		})},
		{Operation: "categories.list", Handler: rpc.Handle(h.logger, func(r *http.Request, _ noArgs) ([]entity.Category, error) {
			return h.svc.ListCategories(r.Context())
		})},
		{Operation: "categories.getBySlug", Handler: rpc.Handle(h.logger, func(r *http.Request, a slugArgs) (*entity.Category, error) {
			return h.svc.GetCategoryBySlug(r.Context(), a.Slug)
		})},
	}
}
