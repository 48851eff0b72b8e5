package crud

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

func likeCount(t *testing.T, s *Services, productID string) int {
	t.Helper()
	product, err := s.Product.FindProductByID(context.Background(), productID)
	require.NoError(t, err)
	return product.LikeCount
}

// TestToggleLikeInvolution verifies that toggling twice returns the pair to
// its original state, with the counter and the check following along.
func TestToggleLikeInvolution(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "fan")
	product := createTestProduct(t, s, user.ID, "Jacket", "Acme", 120)

	liked, err := s.Like.ToggleLike(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	check, err := s.Like.UserLiked(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, check)
	assert.Equal(t, 1, likeCount(t, s, product.ID))

	liked, err = s.Like.ToggleLike(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	check, err = s.Like.UserLiked(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, check)
	assert.Equal(t, 0, likeCount(t, s, product.ID))

	var rows int64
	require.NoError(t, s.db.Model(&domain.Like{}).Where("product_id = ?", product.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

// TestToggleLikeCounter verifies that after N users liked a product, the
// denormalized counter equals the number of like rows.
func TestToggleLikeCounter(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	owner := createTestUser(t, s, "seller")
	product := createTestProduct(t, s, owner.ID, "Jacket", "Acme", 120)

	const n = 5
	for i := 0; i < n; i++ {
		user := createTestUser(t, s, fmt.Sprintf("fan%d", i))
		liked, err := s.Like.ToggleLike(ctx, user.ID, product.ID)
		require.NoError(t, err)
		require.True(t, liked)
	}

	var rows int64
	require.NoError(t, s.db.Model(&domain.Like{}).Where("product_id = ?", product.ID).Count(&rows).Error)
	assert.EqualValues(t, n, rows)
	assert.Equal(t, n, likeCount(t, s, product.ID))
}

func TestToggleLikeMissingProduct(t *testing.T) {
	s := testServices(t)
	user := createTestUser(t, s, "fan")

	_, err := s.Like.ToggleLike(context.Background(), user.ID, "no-such-product")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

// TestDuplicateLikeTranslation covers the mechanism the toggle relies on for
// its conflict signal: inserting the same (user, product) pair twice must
// come back as a duplicate key error from the store.
func TestDuplicateLikeTranslation(t *testing.T) {
	s := testServices(t)
	user := createTestUser(t, s, "fan")
	product := createTestProduct(t, s, user.ID, "Jacket", "Acme", 120)

	require.NoError(t, s.db.Create(&domain.Like{UserID: user.ID, ProductID: product.ID}).Error)
	err := s.db.Create(&domain.Like{UserID: user.ID, ProductID: product.ID}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFindLikes(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	seller := createTestUser(t, s, "seller")
	fan := createTestUser(t, s, "fan")
	first := createTestProduct(t, s, seller.ID, "First", "Acme", 10)
	second := createTestProduct(t, s, seller.ID, "Second", "Acme", 20)

	_, err := s.Like.ToggleLike(ctx, fan.ID, first.ID)
	require.NoError(t, err)
	_, err = s.Like.ToggleLike(ctx, fan.ID, second.ID)
	require.NoError(t, err)

	byUser, err := s.Like.FindLikesByUserID(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	require.NotNil(t, byUser[0].Product)

	byProduct, err := s.Like.FindLikesByProductID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	require.NotNil(t, byProduct[0].User)
	assert.Equal(t, fan.ID, byProduct[0].User.ID)

	// Projections have no side effects.
	assert.Equal(t, 1, likeCount(t, s, first.ID))
}
