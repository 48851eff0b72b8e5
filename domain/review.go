package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rated comment a user leaves on a product.
type Review struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	Content   string `json:"content" gorm:"type:text;notNull"`
	Rating    int    `json:"rating" gorm:"notNull"`
	UserID    string `json:"user_id" gorm:"size:36;notNull;index"`
	ProductID string `json:"product_id" gorm:"size:36;notNull;index"`

	User    *User    `json:"user,omitempty"`
	Product *Product `json:"product,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReviewUpdate holds a partial update of a review. Nil fields are left untouched.
type ReviewUpdate struct {
	Content *string `json:"content"`
	Rating  *int    `json:"rating"`
}

// ReviewFilter narrows down a review listing. A zero Rating means no rating filter.
type ReviewFilter struct {
	ProductID string
	UserID    string
	Rating    int

	Page  int
	Limit int
}

// ReviewPage is one page of a review listing.
type ReviewPage struct {
	Items      []Review `json:"items"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}

// ReviewService is a set of methods to manipulate and work with the Review model.
// Update and delete are restricted to the review's owner, identified by actorID.
type ReviewService interface {
	FindReviewByID(ctx context.Context, id string) (*Review, error)
	FindReviews(ctx context.Context, filter ReviewFilter) (*ReviewPage, error)
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	UpdateReview(ctx context.Context, id, actorID string, upd ReviewUpdate) (*Review, error)
	DeleteReview(ctx context.Context, id, actorID string) error
}
