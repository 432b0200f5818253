// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/media"
)

// Service owns the catalog and its reviews. Rating aggregates are
// derived state: every review write goes through the repository's
// transactional recompute, nothing here ever adjusts them directly.
type Service struct {
	repo        Repository
	images      media.Store
	imageFolder string
	logger      *slog.Logger
}

func NewService(
	repo Repository,
	images media.Store,
	imageFolder string,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		images:      images,
		imageFolder: imageFolder,
		logger:      logger,
	}
}

func (s *Service) Create(
	ctx context.Context,
	createdBy string,
	req CreateProductRequest,
) (*Product, error) {
	product := &Product{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		Category:     req.Category,
		Brand:        req.Brand,
		Featured:     req.Featured,
		FreeShipping: req.FreeShipping,
		Inventory:    req.Inventory,
		CreatedBy:    &createdBy,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	if params.Category != "" && !ValidCategory(params.Category) {
		return nil, 0, core.ValidationError("unknown category filter")
	}
	return s.repo.List(ctx, params)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateProductRequest,
) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.FreeShipping != nil {
		product.FreeShipping = *req.FreeShipping
	}
	if req.Inventory != nil {
		product.Inventory = *req.Inventory
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes the product record first, then destroys its hosted
// assets. Reviews and gallery rows go with the record via cascade; a
// failed asset destroy leaves an orphan in the image store, not a
// half-deleted product.
func (s *Service) Delete(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	gallery, err := s.repo.ListImages(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.destroyAssetBestEffort(ctx, product.ImageID)
	for _, image := range gallery {
		assetID := image.AssetID
		s.destroyAssetBestEffort(ctx, &assetID)
	}

	return nil
}

// SetImage replaces the product's main image.
func (s *Service) SetImage(
	ctx context.Context,
	productID string,
	file io.Reader,
	filename string,
) (*Product, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.images.Upload(
		ctx,
		file,
		filename,
		s.imageFolder,
		media.ProductTransform,
	)
	if err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}

	oldImageID := product.ImageID
	product.ImageID = &uploaded.ID
	product.ImageURL = &uploaded.URL

	if err := s.repo.Update(ctx, product); err != nil {
		s.destroyAssetBestEffort(ctx, &uploaded.ID)
		return nil, err
	}

	s.destroyAssetBestEffort(ctx, oldImageID)

	return product, nil
}

func (s *Service) AddImage(
	ctx context.Context,
	productID string,
	file io.Reader,
	filename string,
) (*ProductImage, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	uploaded, err := s.images.Upload(
		ctx,
		file,
		filename,
		s.imageFolder,
		media.ProductTransform,
	)
	if err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}

	image := &ProductImage{
		ID:        uuid.New().String(),
		ProductID: productID,
		AssetID:   uploaded.ID,
		URL:       uploaded.URL,
	}

	if err := s.repo.AddImage(ctx, image); err != nil {
		s.destroyAssetBestEffort(ctx, &uploaded.ID)
		return nil, err
	}

	return image, nil
}

func (s *Service) ListImages(
	ctx context.Context,
	productID string,
) ([]ProductImage, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListImages(ctx, productID)
}

func (s *Service) DeleteImage(
	ctx context.Context,
	productID, imageID string,
) error {
	image, err := s.repo.DeleteImage(ctx, productID, imageID)
	if err != nil {
		return err
	}

	assetID := image.AssetID
	s.destroyAssetBestEffort(ctx, &assetID)

	return nil
}

// WriteReview records the caller's review of the product, replacing any
// earlier one from the same caller. The stored rating summary comes out
// of the same transaction. The display name is snapshotted on first
// write; replacing the review or renaming the account leaves it alone.
func (s *Service) WriteReview(
	ctx context.Context,
	productID, userID, userName string,
	req WriteReviewRequest,
) (*Review, error) {
	review := &Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	}

	if err := s.repo.UpsertReview(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// DeleteReview lets the author or an admin remove a review. Managers and
// other customers get forbidden, not found stays not found.
func (s *Service) DeleteReview(
	ctx context.Context,
	reviewID, requesterID string,
	requesterIsAdmin bool,
) error {
	review, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.UserID != requesterID && !requesterIsAdmin {
		return core.ForbiddenError("you can only delete your own reviews")
	}

	return s.repo.DeleteReview(ctx, reviewID)
}

func (s *Service) ListReviews(
	ctx context.Context,
	productID string,
	page, pageSize int,
) ([]Review, int, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListReviews(ctx, productID, page, pageSize)
}

func (s *Service) destroyAssetBestEffort(ctx context.Context, assetID *string) {
	if assetID == nil || *assetID == "" {
		return
	}
	if err := s.images.Destroy(ctx, *assetID); err != nil {
		s.logger.Warn("destroy product asset",
			"error", err,
			"asset_id", *assetID,
		)
	}
}
