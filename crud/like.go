package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

// LikeService manages Likes and the denormalized like counter on products.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs the toggle protocol and the like queries on the database.
// It keeps the product's like counter in step with the likes table through
// the product service's counter primitive.
type likeGorm struct {
	db       *gorm.DB
	products domain.ProductService
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB, products domain.ProductService) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db:       db,
				products: products,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// ToggleLike runs validations needed before the liked state of the
// (user, product) pair can be flipped.
func (lv *likeValidator) ToggleLike(ctx context.Context, userID, productID string) (bool, error) {
	if userID == "" {
		return false, errs.Errorf(errs.EINVALID, "User id must not be empty.")
	}
	if err := lv.likedProductExists(ctx, productID); err != nil {
		return false, err
	}
	return lv.likeGorm.ToggleLike(ctx, userID, productID)
}

// likedProductExists makes sure that the product to be liked actually exists.
func (lv *likeValidator) likedProductExists(ctx context.Context, productID string) error {
	err := lv.db.WithContext(ctx).First(&domain.Product{}, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The liked product does not exist.")
		}
		return err
	}
	return nil
}

// ToggleLike flips the liked state of the (user, product) pair. Liking
// inserts a Like row and increments the product's like counter, unliking
// deletes the row and decrements the counter. It returns the state the pair
// ended up in. The unique index on (user_id, product_id) is the authority
// against duplicate likes: when a concurrent toggle already inserted the
// row, the duplicate key error surfaces as errs.ECONFLICT.
func (lg *likeGorm) ToggleLike(ctx context.Context, userID, productID string) (bool, error) {
	var existing domain.Like
	err := lg.db.WithContext(ctx).First(&existing, "user_id = ? AND product_id = ?", userID, productID).Error
	if err == nil {
		result := lg.db.WithContext(ctx).Delete(&domain.Like{}, "user_id = ? AND product_id = ?", userID, productID)
		if result.Error != nil {
			return false, result.Error
		}
		// A concurrent toggle may have deleted the row first. Only the
		// toggle that actually removed it adjusts the counter.
		if result.RowsAffected > 0 {
			if err := lg.products.UpdateLikeCount(ctx, productID, -1); err != nil {
				return false, err
			}
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	like := domain.Like{UserID: userID, ProductID: productID}
	if err := lg.db.WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, errs.Errorf(errs.ECONFLICT, "You already like this product.")
		}
		return false, err
	}
	if err := lg.products.UpdateLikeCount(ctx, productID, 1); err != nil {
		return false, err
	}
	return true, nil
}

// UserLiked takes a user ID and a product ID and returns a boolean expressing
// whether the given user likes the given product or not.
func (lg *likeGorm) UserLiked(ctx context.Context, userID, productID string) (bool, error) {
	err := lg.db.WithContext(ctx).First(&domain.Like{}, "user_id = ? AND product_id = ?", userID, productID).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// FindLikesByUserID retrieves all likes of a user, newest first, along with
// the Product belonging to each Like.
func (lg *likeGorm) FindLikesByUserID(ctx context.Context, userID string) ([]domain.Like, error) {
	var likes []domain.Like
	err := lg.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}

// FindLikesByProductID retrieves all likes of a product, newest first, along
// with the User belonging to each Like.
func (lg *likeGorm) FindLikesByProductID(ctx context.Context, productID string) ([]domain.Like, error) {
	var likes []domain.Like
	err := lg.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}
