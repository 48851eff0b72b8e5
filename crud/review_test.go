package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

func TestCreateReview(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "buyer")
	product := createTestProduct(t, s, user.ID, "Jacket", "Acme", 120)

	review, err := s.Review.CreateReview(ctx, &domain.Review{
		Content:   "Warm and well made.",
		Rating:    5,
		UserID:    user.ID,
		ProductID: product.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	require.NotNil(t, review.User)
	assert.Equal(t, user.ID, review.User.ID)
}

func TestCreateReviewValidation(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "buyer")
	product := createTestProduct(t, s, user.ID, "Jacket", "Acme", 120)

	tests := []struct {
		name   string
		review domain.Review
		code   string
	}{
		{
			name:   "empty content",
			review: domain.Review{Rating: 3, UserID: user.ID, ProductID: product.ID},
			code:   errs.EINVALID,
		},
		{
			name:   "rating too low",
			review: domain.Review{Content: "Meh.", Rating: 0, UserID: user.ID, ProductID: product.ID},
			code:   errs.EINVALID,
		},
		{
			name:   "rating too high",
			review: domain.Review{Content: "Wow.", Rating: 6, UserID: user.ID, ProductID: product.ID},
			code:   errs.EINVALID,
		},
		{
			name:   "missing product",
			review: domain.Review{Content: "Ok.", Rating: 3, UserID: user.ID, ProductID: "no-such-product"},
			code:   errs.ENOTFOUND,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := tt.review
			_, err := s.Review.CreateReview(ctx, &review)
			assert.Equal(t, tt.code, errs.ErrorCode(err))
		})
	}
}

// TestReviewOwnership verifies that only the author can change or remove a
// review, and that a stranger gets turned away before anything is touched.
func TestReviewOwnership(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	author := createTestUser(t, s, "author")
	stranger := createTestUser(t, s, "stranger")
	product := createTestProduct(t, s, author.ID, "Jacket", "Acme", 120)

	review, err := s.Review.CreateReview(ctx, &domain.Review{
		Content:   "Decent.",
		Rating:    3,
		UserID:    author.ID,
		ProductID: product.ID,
	})
	require.NoError(t, err)

	newContent := "Actually great."
	_, err = s.Review.UpdateReview(ctx, review.ID, stranger.ID, domain.ReviewUpdate{Content: &newContent})
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))

	err = s.Review.DeleteReview(ctx, review.ID, stranger.ID)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))

	// Still untouched.
	kept, err := s.Review.FindReviewByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "Decent.", kept.Content)

	// The author can.
	newRating := 5
	updated, err := s.Review.UpdateReview(ctx, review.ID, author.ID, domain.ReviewUpdate{
		Content: &newContent,
		Rating:  &newRating,
	})
	require.NoError(t, err)
	assert.Equal(t, newContent, updated.Content)
	assert.Equal(t, 5, updated.Rating)

	require.NoError(t, s.Review.DeleteReview(ctx, review.ID, author.ID))
	_, err = s.Review.FindReviewByID(ctx, review.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestReviewNotFound(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "buyer")

	_, err := s.Review.FindReviewByID(ctx, "no-such-review")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	content := "Hello."
	_, err = s.Review.UpdateReview(ctx, "no-such-review", user.ID, domain.ReviewUpdate{Content: &content})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	err = s.Review.DeleteReview(ctx, "no-such-review", user.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestFindReviewsFilter(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")
	jacket := createTestProduct(t, s, alice.ID, "Jacket", "Acme", 120)
	boots := createTestProduct(t, s, alice.ID, "Boots", "Acme", 90)

	seed := []domain.Review{
		{Content: "Great jacket.", Rating: 5, UserID: alice.ID, ProductID: jacket.ID},
		{Content: "Too thin.", Rating: 2, UserID: bob.ID, ProductID: jacket.ID},
		{Content: "Sturdy boots.", Rating: 5, UserID: bob.ID, ProductID: boots.ID},
	}
	for i := range seed {
		_, err := s.Review.CreateReview(ctx, &seed[i])
		require.NoError(t, err)
	}

	page, err := s.Review.FindReviews(ctx, domain.ReviewFilter{ProductID: jacket.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = s.Review.FindReviews(ctx, domain.ReviewFilter{UserID: bob.ID, Rating: 5})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Sturdy boots.", page.Items[0].Content)
}
