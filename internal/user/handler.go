// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/middleware"
)

const maxPhotoSize = 5 << 20

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

// RegisterRoutes mounts the self-service profile endpoints. The caller
// has already passed the authenticator.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.GetProfile)
	r.Patch("/me", h.UpdateProfile)
	r.Put("/me/photo", h.UpdatePhoto)
}

// RegisterAdminRoutes mounts full user management. Mounted behind the
// admin role gate.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.ListUsers)
	r.Get("/{userID}", h.GetUser)
	r.Patch("/{userID}", h.AdminUpdateUser)
	r.Delete("/{userID}", h.DeleteUser)
}

// RegisterManagerRoutes mounts the manager's read-only view: customer
// accounts only, no mutation.
func (h *Handler) RegisterManagerRoutes(r chi.Router) {
	r.Get("/", h.ListCustomers)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		core.BadRequest(w, "photo file is required")
		return
	}
	defer file.Close() //nolint:errcheck // multipart file close

	user, err := h.service.UpdatePhoto(
		r.Context(),
		userID,
		file,
		header.Filename,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	users, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

// ListCustomers is the manager view. The role filter is forced to the
// customer role regardless of query parameters.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)
	params.Role = RoleUser

	users, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.AdminUpdate(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if userID == middleware.GetUserID(r.Context()) {
		core.BadRequest(w, "you cannot delete your own account")
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func listParamsFromQuery(r *http.Request) ListUsersParams {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	params := ListUsersParams{
		Page:     page,
		PageSize: pageSize,
		Role:     query.Get("role"),
		Search:   query.Get("search"),
	}
	params.Normalize()

	return params
}
