// AngelaMos | 2026
// dto.go

package product

import (
	"time"
)

type CreateProductRequest struct {
	Name         string  `json:"name"          validate:"required,min=1,max=100"`
	Price        float64 `json:"price"         validate:"required,gt=0,lte=99999"`
	Description  string  `json:"description"   validate:"required,min=20,max=300"`
	Category     string  `json:"category"      validate:"required,oneof=shortsleeves longsleeves sweatshirt hoodies"`
	Brand        string  `json:"brand"         validate:"required,min=1,max=80"`
	Featured     bool    `json:"featured"`
	FreeShipping bool    `json:"free_shipping"`
	Inventory    int     `json:"inventory"     validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty"          validate:"omitempty,min=1,max=100"`
	Price        *float64 `json:"price,omitempty"         validate:"omitempty,gt=0,lte=99999"`
	Description  *string  `json:"description,omitempty"   validate:"omitempty,min=20,max=300"`
	Category     *string  `json:"category,omitempty"      validate:"omitempty,oneof=shortsleeves longsleeves sweatshirt hoodies"`
	Brand        *string  `json:"brand,omitempty"         validate:"omitempty,min=1,max=80"`
	Featured     *bool    `json:"featured,omitempty"`
	FreeShipping *bool    `json:"free_shipping,omitempty"`
	Inventory    *int     `json:"inventory,omitempty"     validate:"omitempty,gte=0"`
}

type WriteReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Title   string `json:"title"   validate:"required,min=1,max=100"`
	Comment string `json:"comment" validate:"required,min=1,max=500"`
}

type ProductResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Brand           string    `json:"brand"`
	Featured        bool      `json:"featured"`
	FreeShipping    bool      `json:"free_shipping"`
	Inventory       int       `json:"inventory"`
	Ratings         float64   `json:"ratings"`
	NumberOfReviews int       `json:"number_of_reviews"`
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductImageResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type ListProductsParams struct {
	Page     int
	PageSize int
	Category string
	Brand    string
	Featured *bool
	Search   string
	Sort     string
}

func (p *ListProductsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}

	switch p.Sort {
	case "price", "-price", "name", "-name", "rating", "-rating", "newest":
	default:
		p.Sort = "newest"
	}
}

func (p *ListProductsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToProductResponse(p *Product) ProductResponse {
	resp := ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		Description:     p.Description,
		Category:        p.Category,
		Brand:           p.Brand,
		Featured:        p.Featured,
		FreeShipping:    p.FreeShipping,
		Inventory:       p.Inventory,
		Ratings:         p.Ratings,
		NumberOfReviews: p.NumberOfReviews,
		CreatedAt:       p.CreatedAt,
	}

	if p.ImageURL != nil {
		resp.ImageURL = *p.ImageURL
	}

	return resp
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, ToProductResponse(&p))
	}
	return responses
}

func ToReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Rating:    r.Rating,
		Title:     r.Title,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToReviewResponseList(reviews []Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, ToReviewResponse(&r))
	}
	return responses
}

func ToProductImageResponseList(images []ProductImage) []ProductImageResponse {
	responses := make([]ProductImageResponse, 0, len(images))
	for _, img := range images {
		responses = append(responses, ProductImageResponse{
			ID:       img.ID,
			URL:      img.URL,
			Position: img.Position,
		})
	}
	return responses
}
