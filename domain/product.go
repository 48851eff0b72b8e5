package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog item put up by a user. Its LikeCount field is a
// denormalized copy of the number of Like records referencing it, kept in
// sync by the LikeService toggle protocol.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	Name        string  `json:"name" gorm:"size:100;notNull"`
	Description string  `json:"description" gorm:"type:text;notNull"`
	Brand       string  `json:"brand" gorm:"size:50;notNull;index"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);notNull"`
	LikeCount   int     `json:"like_count" gorm:"notNull;default:0"`
	UserID      string  `json:"user_id" gorm:"size:36;index"`

	Options []ProductOption `json:"options" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews []Review        `json:"reviews" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Likes   []Like          `json:"likes" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductOption is a purchasable variant of a Product. Options are never
// updated individually: the whole set is replaced when a product update
// submits a new one.
type ProductOption struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	ProductID string `json:"product_id" gorm:"size:36;notNull;index"`
	Size      string `json:"size" gorm:"notNull"`
	Color     string `json:"color" gorm:"notNull"`
	Stock     int    `json:"stock" gorm:"notNull;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *ProductOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ProductOptionInput is one entry of the option set submitted on product
// create or update.
type ProductOptionInput struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int    `json:"stock"`
}

// ProductUpdate holds a partial update of a product. Nil fields are left
// untouched.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Brand       *string  `json:"brand"`
	Price       *float64 `json:"price"`

	// Options replaces the full option set when non-nil. An empty non-nil
	// slice deletes every option of the product.
	Options []ProductOptionInput `json:"options"`
}

// Recognized sort values for product listing. Anything else falls back to
// newest-created-first.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
	SortLikesDesc = "likes_desc"
)

// ProductFilter narrows down a product listing. All set filters are
// AND-combined.
type ProductFilter struct {
	Search   string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Size     string
	Color    string

	Sort  string
	Page  int
	Limit int
}

// ProductPage is one page of a product listing, along with the total match
// count before pagination was applied.
type ProductPage struct {
	Items      []Product `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// ProductService is a set of methods to manipulate and work with the Product model.
type ProductService interface {
	FindProductByID(ctx context.Context, id string) (*Product, error)
	FindProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error)
	CreateProduct(ctx context.Context, product *Product, options []ProductOptionInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateLikeCount(ctx context.Context, id string, delta int) error
	UpdateStock(ctx context.Context, productID, optionID string, quantity int) error
}
