package crud

import (
	"errors"

	"gorm.io/gorm"
)

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection provided by Services.
type Services struct {
	db      *gorm.DB
	User    *UserService
	Product *ProductService
	Review  *ReviewService
	Like    *LikeService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db: db,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser(pepper string) ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.db, pepper)
		return nil
	}
}

// WithProduct wraps the constructor of ProductService, NewProductService.
func WithProduct() ServicesConfig {
	return func(s *Services) error {
		s.Product = NewProductService(s.db)
		return nil
	}
}

// WithReview wraps the constructor of ReviewService, NewReviewService.
func WithReview() ServicesConfig {
	return func(s *Services) error {
		s.Review = NewReviewService(s.db)
		return nil
	}
}

// WithLike wraps the constructor of LikeService, NewLikeService.
// The like service keeps the product like counter in sync through the
// product service, so WithProduct must run before it.
func WithLike() ServicesConfig {
	return func(s *Services) error {
		if s.Product == nil {
			return errors.New("crud: WithLike requires WithProduct to run first")
		}
		s.Like = NewLikeService(s.db, s.Product)
		return nil
	}
}
