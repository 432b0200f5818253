// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListProductsParams) ([]Product, int, error)

	UpsertReview(ctx context.Context, review *Review) error
	GetReview(ctx context.Context, reviewID string) (*Review, error)
	DeleteReview(ctx context.Context, reviewID string) error
	ListReviews(
		ctx context.Context,
		productID string,
		page, pageSize int,
	) ([]Review, int, error)

	AddImage(ctx context.Context, image *ProductImage) error
	ListImages(ctx context.Context, productID string) ([]ProductImage, error)
	DeleteImage(
		ctx context.Context,
		productID, imageID string,
	) (*ProductImage, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *core.Database) Repository {
	return &repository{db: db.DB}
}

const productColumns = `
	id, name, price, description, category, brand, featured,
	free_shipping, inventory, ratings, number_of_reviews,
	image_id, image_url, created_by, created_at, updated_at`

func (r *repository) Create(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO products (
			id, name, price, description, category, brand,
			featured, free_shipping, inventory, image_id, image_url, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, product, query,
		product.ID,
		product.Name,
		product.Price,
		product.Description,
		product.Category,
		product.Brand,
		product.Featured,
		product.FreeShipping,
		product.Inventory,
		product.ImageID,
		product.ImageURL,
		product.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM products WHERE id = $1`,
		productColumns,
	)

	var product Product
	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

func (r *repository) Update(ctx context.Context, product *Product) error {
	query := `
		UPDATE products
		SET name = $2, price = $3, description = $4, category = $5,
		    brand = $6, featured = $7, free_shipping = $8, inventory = $9,
		    image_id = $10, image_url = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &product.UpdatedAt, query,
		product.ID,
		product.Name,
		product.Price,
		product.Description,
		product.Category,
		product.Brand,
		product.Featured,
		product.FreeShipping,
		product.Inventory,
		product.ImageID,
		product.ImageURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM products WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	if params.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("brand = $%d", argIdx))
		args = append(args, params.Brand)
		argIdx++
	}

	if params.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("featured = $%d", argIdx))
		args = append(args, *params.Featured)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM products WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, orderClause(params.Sort), argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// orderClause maps the public sort keys onto fixed SQL fragments. Sort
// input never reaches the query directly.
func orderClause(sort string) string {
	switch sort {
	case "price":
		return "price ASC"
	case "-price":
		return "price DESC"
	case "name":
		return "name ASC"
	case "-name":
		return "name DESC"
	case "rating":
		return "ratings ASC"
	case "-rating":
		return "ratings DESC"
	default:
		return "created_at DESC"
	}
}

// UpsertReview writes the caller's review and recomputes the product's
// rating summary in one transaction. The product row is locked first so
// concurrent reviews serialize and the stored aggregate always matches
// the review set.
func (r *repository) UpsertReview(ctx context.Context, review *Review) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockProduct(ctx, tx, review.ProductID); err != nil {
			return err
		}

		// user_name stays whatever it was at first write; a rewrite
		// replaces the verdict, not the signature.
		query := `
			INSERT INTO reviews (
				id, product_id, user_id, user_name, rating, title, comment
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (product_id, user_id) DO UPDATE
			SET rating = EXCLUDED.rating, title = EXCLUDED.title,
			    comment = EXCLUDED.comment, updated_at = NOW()
			RETURNING id, user_name, created_at, updated_at`

		err := tx.QueryRowxContext(ctx, query,
			review.ID,
			review.ProductID,
			review.UserID,
			review.UserName,
			review.Rating,
			review.Title,
			review.Comment,
		).Scan(
			&review.ID,
			&review.UserName,
			&review.CreatedAt,
			&review.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert review: %w", err)
		}

		return recalcAggregates(ctx, tx, review.ProductID)
	})
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("upsert review: %w", core.ErrNotFound)
		}
		return err
	}

	return nil
}

func (r *repository) GetReview(
	ctx context.Context,
	reviewID string,
) (*Review, error) {
	query := `
		SELECT id, product_id, user_id, user_name, rating, title, comment,
		       created_at, updated_at
		FROM reviews
		WHERE id = $1`

	var review Review
	err := r.db.GetContext(ctx, &review, query, reviewID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &review, nil
}

// DeleteReview removes the review and recomputes the aggregate under the
// same product lock that UpsertReview takes.
func (r *repository) DeleteReview(ctx context.Context, reviewID string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var productID string
		err := tx.GetContext(ctx, &productID,
			`SELECT product_id FROM reviews WHERE id = $1`, reviewID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("delete review: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}

		if err := lockProduct(ctx, tx, productID); err != nil {
			return err
		}

		result, err := tx.ExecContext(
			ctx,
			`DELETE FROM reviews WHERE id = $1`,
			reviewID,
		)
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}

		if rows == 0 {
			return fmt.Errorf("delete review: %w", core.ErrNotFound)
		}

		return recalcAggregates(ctx, tx, productID)
	})
}

func (r *repository) ListReviews(
	ctx context.Context,
	productID string,
	page, pageSize int,
) ([]Review, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM reviews WHERE product_id = $1`, productID)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := `
		SELECT id, product_id, user_id, user_name, rating, title, comment,
		       created_at, updated_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var reviews []Review
	err = r.db.SelectContext(
		ctx,
		&reviews,
		query,
		productID,
		pageSize,
		(page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *repository) AddImage(
	ctx context.Context,
	image *ProductImage,
) error {
	query := `
		INSERT INTO product_images (id, product_id, asset_id, url, position)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position), 0) + 1
			 FROM product_images WHERE product_id = $2))
		RETURNING position, created_at`

	err := r.db.GetContext(ctx, image, query,
		image.ID,
		image.ProductID,
		image.AssetID,
		image.URL,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("add product image: %w", core.ErrNotFound)
		}
		return fmt.Errorf("add product image: %w", err)
	}

	return nil
}

func (r *repository) ListImages(
	ctx context.Context,
	productID string,
) ([]ProductImage, error) {
	query := `
		SELECT id, product_id, asset_id, url, position, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY position ASC`

	var images []ProductImage
	if err := r.db.SelectContext(ctx, &images, query, productID); err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}

	return images, nil
}

func (r *repository) DeleteImage(
	ctx context.Context,
	productID, imageID string,
) (*ProductImage, error) {
	query := `
		DELETE FROM product_images
		WHERE id = $1 AND product_id = $2
		RETURNING id, product_id, asset_id, url, position, created_at`

	var image ProductImage
	err := r.db.GetContext(ctx, &image, query, imageID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("delete product image: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete product image: %w", err)
	}

	return &image, nil
}

func lockProduct(ctx context.Context, tx *sqlx.Tx, productID string) error {
	var id string
	err := tx.GetContext(ctx, &id,
		`SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock product: %w", err)
	}

	return nil
}

// recalcAggregates rereads every rating for the product and stores the
// derived summary. Caller must hold the product row lock.
func recalcAggregates(ctx context.Context, tx *sqlx.Tx, productID string) error {
	var ratings []int
	err := tx.SelectContext(ctx, &ratings,
		`SELECT rating FROM reviews WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	average, count := AggregateRatings(ratings)

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET ratings = $2, number_of_reviews = $3, updated_at = NOW()
		WHERE id = $1`,
		productID, average, count)
	if err != nil {
		return fmt.Errorf("store aggregates: %w", err)
	}

	return nil
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
