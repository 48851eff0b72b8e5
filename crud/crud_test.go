package crud

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wtfCatalog/domain"
)

// testDB opens a fresh in-memory database with all tables migrated.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.ProductOption{},
		&domain.Review{},
		&domain.Like{},
	))
	return db
}

// testServices wires up all crud services against a fresh test database.
func testServices(t *testing.T) *Services {
	t.Helper()
	services, err := NewServices(
		testDB(t),
		WithUser("test-pepper"),
		WithProduct(),
		WithReview(),
		WithLike(),
	)
	require.NoError(t, err)
	return services
}

func createTestUser(t *testing.T, s *Services, nickname string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:    fmt.Sprintf("%s@example.com", nickname),
		Nickname: nickname,
		Password: "Str0ng&Pass",
	}
	require.NoError(t, s.User.CreateUser(context.Background(), user))
	return user
}

func createTestProduct(t *testing.T, s *Services, ownerID, name, brand string, price float64) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Name:        name,
		Description: "A test product.",
		Brand:       brand,
		Price:       price,
		UserID:      ownerID,
	}
	created, err := s.Product.CreateProduct(context.Background(), product, []domain.ProductOptionInput{
		{Size: "M", Color: "black", Stock: 10},
	})
	require.NoError(t, err)
	return created
}
