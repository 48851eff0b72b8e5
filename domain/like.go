package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like represents a many-to-many relationship between a User and a Product.
// A Like is created when a user decides to like a product. It's destroyed when
// a user decides to unlike a previously liked product, or when the product
// gets deleted. The unique index on (user_id, product_id) is what ultimately
// guarantees that a user likes a product at most once.
type Like struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	UserID    string `json:"user_id" gorm:"size:36;notNull;uniqueIndex:idx_likes_user_product"`
	ProductID string `json:"product_id" gorm:"size:36;notNull;uniqueIndex:idx_likes_user_product"`

	User    *User    `json:"user,omitempty"`
	Product *Product `json:"product,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// LikeService is a set of methods to manipulate and work with the Like model.
// ToggleLike flips the liked state of a (user, product) pair and keeps the
// product's denormalized like count in step with the likes table.
type LikeService interface {
	ToggleLike(ctx context.Context, userID, productID string) (bool, error)
	UserLiked(ctx context.Context, userID, productID string) (bool, error)
	FindLikesByUserID(ctx context.Context, userID string) ([]Like, error)
	FindLikesByProductID(ctx context.Context, productID string) ([]Like, error)
}
