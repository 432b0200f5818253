// AngelaMos | 2026
// handler.go

package order

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{
		service:  service,
		validate: validate,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateOrder)
	r.Get("/mine", h.ListMyOrders)
	r.Get("/{orderID}", h.GetOrder)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.ListOrders)
	r.Patch("/{orderID}", h.UpdateStatus)
	r.Delete("/{orderID}", h.DeleteOrder)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToOrderResponse(order))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.service.Get(
		r.Context(),
		orderID,
		middleware.GetUserID(r.Context()),
		middleware.IsAdmin(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(order))
}

func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	orders, total, err := h.service.ListMine(
		r.Context(),
		middleware.GetUserID(r.Context()),
		params,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w,
		ToOrderResponseList(orders),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)
	params.UserID = r.URL.Query().Get("user_id")

	orders, total, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w,
		ToOrderResponseList(orders),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(order))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	if err := h.service.Delete(r.Context(), orderID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func listParamsFromQuery(r *http.Request) ListOrdersParams {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	params := ListOrdersParams{
		Page:     page,
		PageSize: pageSize,
		Status:   query.Get("status"),
	}
	params.Normalize()

	return params
}
