package crud

import (
	"context"
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

// ReviewService manages Reviews.
// It implements the domain.ReviewService interface.
type ReviewService struct {
	reviewValidator
}

// reviewValidator runs validations on incoming Review data.
// On success, it passes the data on to reviewGorm.
// Otherwise, it returns the error of the validation that has failed.
type reviewValidator struct {
	reviewGorm
}

// reviewGorm runs CRUD operations on the database using incoming Review data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type reviewGorm struct {
	db *gorm.DB
}

// NewReviewService returns an instance of ReviewService.
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		reviewValidator{
			reviewGorm{
				db: db,
			},
		},
	}
}

// Ensure the ReviewService struct properly implements the domain.ReviewService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ReviewService = &ReviewService{}

// CreateReview runs validations needed for creating new Review database records.
func (rv *reviewValidator) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	err := runReviewValFns(review,
		rv.contentRequired,
		rv.ratingInRange,
		rv.userIDRequired)
	if err != nil {
		return nil, err
	}
	if err := rv.reviewedProductExists(ctx, review.ProductID); err != nil {
		return nil, err
	}
	return rv.reviewGorm.CreateReview(ctx, review)
}

// UpdateReview runs validations on the set fields of a partial review update.
// Only the review's owner may update it.
func (rv *reviewValidator) UpdateReview(ctx context.Context, id, actorID string, upd domain.ReviewUpdate) (*domain.Review, error) {
	if upd.Content != nil && strings.TrimSpace(*upd.Content) == "" {
		return nil, errs.Errorf(errs.EINVALID, "Review content must not be empty.")
	}
	if upd.Rating != nil && (*upd.Rating < 1 || *upd.Rating > 5) {
		return nil, errs.Errorf(errs.EINVALID, "Review rating must be between 1 and 5.")
	}
	return rv.reviewGorm.UpdateReview(ctx, id, actorID, upd)
}

// runReviewValFns runs any number of functions of type reviewValFn on the passed in Review object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runReviewValFns(review *domain.Review, fns ...reviewValFn) error {
	for _, fn := range fns {
		if err := fn(review); err != nil {
			return err
		}
	}
	return nil
}

// A reviewValFn is any function that takes in a pointer to a domain.Review object and returns an error.
type reviewValFn = func(review *domain.Review) error

// contentRequired makes sure that the Review's content is not empty.
func (rv *reviewValidator) contentRequired(review *domain.Review) error {
	if strings.TrimSpace(review.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Review content must not be empty.")
	}
	return nil
}

// ratingInRange makes sure that the Review's rating is between 1 and 5.
func (rv *reviewValidator) ratingInRange(review *domain.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return errs.Errorf(errs.EINVALID, "Review rating must be between 1 and 5.")
	}
	return nil
}

// userIDRequired ensures that the authoring user's id is not empty.
func (rv *reviewValidator) userIDRequired(review *domain.Review) error {
	if review.UserID == "" {
		return errs.Errorf(errs.EINVALID, "Review user id must not be empty.")
	}
	return nil
}

// reviewedProductExists makes sure that the product to be reviewed actually exists.
func (rv *reviewValidator) reviewedProductExists(ctx context.Context, productID string) error {
	err := rv.db.WithContext(ctx).First(&domain.Product{}, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The reviewed product does not exist.")
		}
		return err
	}
	return nil
}

// ownedBy is the single ownership check applied by every mutating review
// operation: it fails with errs.EUNAUTHORIZED unless actorID authored the review.
func ownedBy(review *domain.Review, actorID string) error {
	if review.UserID != actorID {
		return errs.Errorf(errs.EUNAUTHORIZED, "Only the author may modify this review.")
	}
	return nil
}

// FindReviewByID retrieves a single Review by ID, along with its user and product.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (rg *reviewGorm) FindReviewByID(ctx context.Context, id string) (*domain.Review, error) {
	var review domain.Review
	err := rg.db.WithContext(ctx).
		Preload("User").
		Preload("Product").
		First(&review, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The review does not exist.")
		}
		return nil, err
	}
	return &review, nil
}

// FindReviews retrieves one page of reviews matching the filter, newest
// first, plus the total match count before pagination.
func (rg *reviewGorm) FindReviews(ctx context.Context, filter domain.ReviewFilter) (*domain.ReviewPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	query := rg.db.WithContext(ctx).Model(&domain.Review{})
	if filter.ProductID != "" {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Rating != 0 {
		query = query.Where("rating = ?", filter.Rating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []domain.Review
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("User").
		Preload("Product").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}

	return &domain.ReviewPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// CreateReview stores the data from the Review object in a new database record
// and returns it re-read with its user and product attached.
func (rg *reviewGorm) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := rg.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return rg.FindReviewByID(ctx, review.ID)
}

// UpdateReview merges the set fields into the existing record after the
// ownership check has passed.
func (rg *reviewGorm) UpdateReview(ctx context.Context, id, actorID string, upd domain.ReviewUpdate) (*domain.Review, error) {
	var review domain.Review
	err := rg.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The review does not exist.")
		}
		return nil, err
	}
	if err := ownedBy(&review, actorID); err != nil {
		return nil, err
	}

	attrs := map[string]interface{}{}
	if upd.Content != nil {
		attrs["content"] = *upd.Content
	}
	if upd.Rating != nil {
		attrs["rating"] = *upd.Rating
	}
	if len(attrs) > 0 {
		if err := rg.db.WithContext(ctx).Model(&review).Updates(attrs).Error; err != nil {
			return nil, err
		}
	}
	return rg.FindReviewByID(ctx, id)
}

// DeleteReview permanently deletes the review record after the ownership
// check has passed.
func (rg *reviewGorm) DeleteReview(ctx context.Context, id, actorID string) error {
	var review domain.Review
	err := rg.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The review does not exist.")
		}
		return err
	}
	if err := ownedBy(&review, actorID); err != nil {
		return err
	}
	return rg.db.WithContext(ctx).Delete(&review).Error
}
