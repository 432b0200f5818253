// AngelaMos | 2026
// entity.go

package product

import (
	"time"
)

type Product struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Price           float64   `db:"price"`
	Description     string    `db:"description"`
	Category        string    `db:"category"`
	Brand           string    `db:"brand"`
	Featured        bool      `db:"featured"`
	FreeShipping    bool      `db:"free_shipping"`
	Inventory       int       `db:"inventory"`
	Ratings         float64   `db:"ratings"`
	NumberOfReviews int       `db:"number_of_reviews"`
	ImageID         *string   `db:"image_id"`
	ImageURL        *string   `db:"image_url"`
	CreatedBy       *string   `db:"created_by"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Review is one customer's verdict on one product. The (product, user)
// pair is unique: writing again replaces the earlier review instead of
// stacking a second one.
type Review struct {
	ID        string    `db:"id"`
	ProductID string    `db:"product_id"`
	UserID    string    `db:"user_id"`
	Rating    int       `db:"rating"`
	Title     string    `db:"title"`
	Comment   string    `db:"comment"`
	UserName  string    `db:"user_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type ProductImage struct {
	ID        string    `db:"id"`
	ProductID string    `db:"product_id"`
	AssetID   string    `db:"asset_id"`
	URL       string    `db:"url"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

const (
	CategoryShortSleeves = "shortsleeves"
	CategoryLongSleeves  = "longsleeves"
	CategorySweatshirt   = "sweatshirt"
	CategoryHoodies      = "hoodies"
)

func ValidCategory(category string) bool {
	switch category {
	case CategoryShortSleeves, CategoryLongSleeves,
		CategorySweatshirt, CategoryHoodies:
		return true
	default:
		return false
	}
}
