// AngelaMos | 2026
// handler.go

package product

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/middleware"
)

const maxImageSize = 10 << 20

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

// RegisterPublicRoutes mounts the read-only catalog. Browsing and
// reading reviews require no session.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Get("/{productID}", h.GetProduct)
	r.Get("/{productID}/reviews", h.ListReviews)
	r.Get("/{productID}/images", h.ListImages)
}

// RegisterProtectedRoutes mounts the review write path for signed-in
// customers.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Put("/{productID}/reviews", h.WriteReview)
	r.Delete("/reviews/{reviewID}", h.DeleteReview)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.CreateProduct)
	r.Patch("/{productID}", h.UpdateProduct)
	r.Delete("/{productID}", h.DeleteProduct)
	r.Put("/{productID}/image", h.SetImage)
	r.Post("/{productID}/images", h.AddImage)
	r.Delete("/{productID}/images/{imageID}", h.DeleteImage)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	products, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w,
		ToProductResponseList(products),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.service.Get(r.Context(), productID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	product, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToProductResponse(product))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	product, err := h.service.Update(r.Context(), productID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	if err := h.service.Delete(r.Context(), productID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) SetImage(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	file, header, ok := h.imageFromRequest(w, r)
	if !ok {
		return
	}
	defer file.Close() //nolint:errcheck // multipart file close

	product, err := h.service.SetImage(
		r.Context(),
		productID,
		file,
		header.Filename,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) AddImage(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	file, header, ok := h.imageFromRequest(w, r)
	if !ok {
		return
	}
	defer file.Close() //nolint:errcheck // multipart file close

	image, err := h.service.AddImage(
		r.Context(),
		productID,
		file,
		header.Filename,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ProductImageResponse{
		ID:       image.ID,
		URL:      image.URL,
		Position: image.Position,
	})
}

func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	images, err := h.service.ListImages(r.Context(), productID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductImageResponseList(images))
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	imageID := chi.URLParam(r, "imageID")

	if err := h.service.DeleteImage(r.Context(), productID, imageID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

// WriteReview upserts the caller's review: PUT because reviewing a
// product twice replaces the first review.
func (h *Handler) WriteReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req WriteReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		core.JSONError(w, core.UnauthorizedError("authentication required"))
		return
	}

	review, err := h.service.WriteReview(
		r.Context(),
		productID,
		identity.ID,
		identity.Name,
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToReviewResponse(review))
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")

	err := h.service.DeleteReview(
		r.Context(),
		reviewID,
		middleware.GetUserID(r.Context()),
		middleware.IsAdmin(r.Context()),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	reviews, total, err := h.service.ListReviews(
		r.Context(),
		productID,
		page,
		pageSize,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToReviewResponseList(reviews), page, pageSize, total)
}

func (h *Handler) imageFromRequest(
	w http.ResponseWriter,
	r *http.Request,
) (multipart.File, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return nil, nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		core.BadRequest(w, "image file is required")
		return nil, nil, false
	}

	return file, header, true
}

func listParamsFromQuery(r *http.Request) ListProductsParams {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	params := ListProductsParams{
		Page:     page,
		PageSize: pageSize,
		Category: query.Get("category"),
		Brand:    query.Get("brand"),
		Search:   query.Get("search"),
		Sort:     query.Get("sort"),
	}

	if featured := query.Get("featured"); featured != "" {
		value := featured == "true"
		params.Featured = &value
	}

	params.Normalize()

	return params
}
