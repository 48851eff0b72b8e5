package crud

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

// ProductService manages Products and their options.
// It implements the domain.ProductService interface.
type ProductService struct {
	productValidator
}

// productValidator runs validations on incoming Product data.
// On success, it passes the data on to productGorm.
// Otherwise, it returns the error of the validation that has failed.
type productValidator struct {
	productGorm
}

// productGorm runs CRUD operations on the database using incoming Product data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type productGorm struct {
	db *gorm.DB
}

// NewProductService returns an instance of ProductService.
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{
		productValidator{
			productGorm{
				db: db,
			},
		},
	}
}

// Ensure the ProductService struct properly implements the domain.ProductService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ProductService = &ProductService{}

// CreateProduct runs validations needed for creating new Product database records,
// including the option set that must be stored along with the product.
func (pv *productValidator) CreateProduct(ctx context.Context, product *domain.Product, options []domain.ProductOptionInput) (*domain.Product, error) {
	err := runProductValFns(product,
		pv.nameRequired,
		pv.nameMaxLength,
		pv.descriptionRequired,
		pv.brandRequired,
		pv.brandMaxLength,
		pv.priceNotNegative,
		pv.userIDRequired)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, errs.Errorf(errs.EINVALID, "At least one product option is required.")
	}
	if err := optionsValid(options); err != nil {
		return nil, err
	}
	return pv.productGorm.CreateProduct(ctx, product, options)
}

// UpdateProduct runs validations on the set fields of a partial product update.
func (pv *productValidator) UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, errs.Errorf(errs.EINVALID, "Product name must not be empty.")
		}
		if utf8.RuneCountInString(*upd.Name) > 100 {
			return nil, errs.Errorf(errs.EINVALID, "Product name max length is 100 characters.")
		}
	}
	if upd.Description != nil && strings.TrimSpace(*upd.Description) == "" {
		return nil, errs.Errorf(errs.EINVALID, "Product description must not be empty.")
	}
	if upd.Brand != nil {
		if strings.TrimSpace(*upd.Brand) == "" {
			return nil, errs.Errorf(errs.EINVALID, "Product brand must not be empty.")
		}
		if utf8.RuneCountInString(*upd.Brand) > 50 {
			return nil, errs.Errorf(errs.EINVALID, "Product brand max length is 50 characters.")
		}
	}
	if upd.Price != nil && *upd.Price < 0 {
		return nil, errs.Errorf(errs.EINVALID, "Product price must not be negative.")
	}
	if upd.Options != nil {
		if err := optionsValid(upd.Options); err != nil {
			return nil, err
		}
	}
	return pv.productGorm.UpdateProduct(ctx, id, upd)
}

// UpdateLikeCount only accepts single increments and decrements, the two
// transitions the like toggle can produce.
func (pv *productValidator) UpdateLikeCount(ctx context.Context, id string, delta int) error {
	if delta != 1 && delta != -1 {
		return errs.Errorf(errs.EINVALID, "Like count delta must be +1 or -1.")
	}
	return pv.productGorm.UpdateLikeCount(ctx, id, delta)
}

// UpdateStock makes sure the requested quantity is positive before the stock
// of a product option gets lowered.
func (pv *productValidator) UpdateStock(ctx context.Context, productID, optionID string, quantity int) error {
	if quantity <= 0 {
		return errs.Errorf(errs.EINVALID, "Quantity must be positive.")
	}
	return pv.productGorm.UpdateStock(ctx, productID, optionID, quantity)
}

// runProductValFns runs any number of functions of type productValFn on the passed in Product object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runProductValFns(product *domain.Product, fns ...productValFn) error {
	for _, fn := range fns {
		if err := fn(product); err != nil {
			return err
		}
	}
	return nil
}

// A productValFn is any function that takes in a pointer to a domain.Product object and returns an error.
type productValFn = func(product *domain.Product) error

// nameRequired makes sure that the Product's name is not empty.
func (pv *productValidator) nameRequired(product *domain.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return errs.Errorf(errs.EINVALID, "Product name must not be empty.")
	}
	return nil
}

// nameMaxLength makes sure that the Product's name does not exceed the maximum length.
func (pv *productValidator) nameMaxLength(product *domain.Product) error {
	if utf8.RuneCountInString(product.Name) > 100 {
		return errs.Errorf(errs.EINVALID, "Product name max length is 100 characters.")
	}
	return nil
}

// descriptionRequired makes sure that the Product's description is not empty.
func (pv *productValidator) descriptionRequired(product *domain.Product) error {
	if strings.TrimSpace(product.Description) == "" {
		return errs.Errorf(errs.EINVALID, "Product description must not be empty.")
	}
	return nil
}

// brandRequired makes sure that the Product's brand is not empty.
func (pv *productValidator) brandRequired(product *domain.Product) error {
	if strings.TrimSpace(product.Brand) == "" {
		return errs.Errorf(errs.EINVALID, "Product brand must not be empty.")
	}
	return nil
}

// brandMaxLength makes sure that the Product's brand does not exceed the maximum length.
func (pv *productValidator) brandMaxLength(product *domain.Product) error {
	if utf8.RuneCountInString(product.Brand) > 50 {
		return errs.Errorf(errs.EINVALID, "Product brand max length is 50 characters.")
	}
	return nil
}

// priceNotNegative makes sure that the Product's price is not negative.
func (pv *productValidator) priceNotNegative(product *domain.Product) error {
	if product.Price < 0 {
		return errs.Errorf(errs.EINVALID, "Product price must not be negative.")
	}
	return nil
}

// userIDRequired ensures that the owning user's id is not empty.
func (pv *productValidator) userIDRequired(product *domain.Product) error {
	if product.UserID == "" {
		return errs.Errorf(errs.EINVALID, "Product user id must not be empty.")
	}
	return nil
}

// optionsValid checks every entry of a submitted option set.
func optionsValid(options []domain.ProductOptionInput) error {
	for _, o := range options {
		if strings.TrimSpace(o.Size) == "" {
			return errs.Errorf(errs.EINVALID, "Option size must not be empty.")
		}
		if strings.TrimSpace(o.Color) == "" {
			return errs.Errorf(errs.EINVALID, "Option color must not be empty.")
		}
		if o.Stock < 0 {
			return errs.Errorf(errs.EINVALID, "Option stock must not be negative.")
		}
	}
	return nil
}

// FindProductByID retrieves a single Product by ID, along with its options,
// reviews and likes. If the record doesn't exist, it returns errs.ENOTFOUND.
func (pg *productGorm) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := pg.db.WithContext(ctx).
		Preload("Options").
		Preload("Reviews").
		Preload("Likes").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The product does not exist.")
		}
		return nil, err
	}
	return &product, nil
}

// FindProducts retrieves one page of products matching the filter, plus the
// total match count before pagination. All set filters are AND-combined.
// Size and color restrict the same option row: a product qualifies when at
// least one of its options matches every option-level bound given.
func (pg *productGorm) FindProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	query := pg.db.WithContext(ctx).Model(&domain.Product{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Size != "" || filter.Color != "" {
		options := pg.db.Model(&domain.ProductOption{}).Select("product_id")
		if filter.Size != "" {
			options = options.Where("size = ?", filter.Size)
		}
		if filter.Color != "" {
			options = options.Where("color = ?", filter.Color)
		}
		query = query.Where("id IN (?)", options)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	// No secondary tie-break: the relative order of rows with equal sort
	// keys is up to the store.
	order := "created_at DESC"
	switch filter.Sort {
	case domain.SortPriceAsc:
		order = "price ASC"
	case domain.SortPriceDesc:
		order = "price DESC"
	case domain.SortNameAsc:
		order = "name ASC"
	case domain.SortNameDesc:
		order = "name DESC"
	case domain.SortLikesDesc:
		order = "like_count DESC"
	}

	var items []domain.Product
	err := query.
		Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Options").
		Preload("Reviews").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}

	return &domain.ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// CreateProduct stores the product and its full option set in one transaction.
// If any insert fails, the whole write is rolled back, so a product never
// becomes visible with a partial option set. On success, it returns a fresh
// post-commit read of the product with its relations attached.
func (pg *productGorm) CreateProduct(ctx context.Context, product *domain.Product, options []domain.ProductOptionInput) (*domain.Product, error) {
	err := pg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		opts := make([]domain.ProductOption, 0, len(options))
		for _, o := range options {
			opts = append(opts, domain.ProductOption{
				ProductID: product.ID,
				Size:      o.Size,
				Color:     o.Color,
				Stock:     o.Stock,
			})
		}
		return tx.Create(&opts).Error
	})
	if err != nil {
		return nil, err
	}
	return pg.FindProductByID(ctx, product.ID)
}

// UpdateProduct merges the set attribute fields into the existing record and,
// if an option set was submitted, replaces all existing options with the new
// set, both inside one transaction. A nil option set leaves the options
// untouched, an empty non-nil set deletes them all.
func (pg *productGorm) UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	var product domain.Product
	err := pg.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The product does not exist.")
		}
		return nil, err
	}

	attrs := map[string]interface{}{}
	if upd.Name != nil {
		attrs["name"] = *upd.Name
	}
	if upd.Description != nil {
		attrs["description"] = *upd.Description
	}
	if upd.Brand != nil {
		attrs["brand"] = *upd.Brand
	}
	if upd.Price != nil {
		attrs["price"] = *upd.Price
	}

	err = pg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(attrs) > 0 {
			if err := tx.Model(&product).Updates(attrs).Error; err != nil {
				return err
			}
		}
		if upd.Options != nil {
			if err := tx.Where("product_id = ?", id).Delete(&domain.ProductOption{}).Error; err != nil {
				return err
			}
			if len(upd.Options) > 0 {
				opts := make([]domain.ProductOption, 0, len(upd.Options))
				for _, o := range upd.Options {
					opts = append(opts, domain.ProductOption{
						ProductID: id,
						Size:      o.Size,
						Color:     o.Color,
						Stock:     o.Stock,
					})
				}
				if err := tx.Create(&opts).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pg.FindProductByID(ctx, id)
}

// DeleteProduct permanently deletes the product record. Options, reviews and
// likes go with it through the schema's cascade constraints.
func (pg *productGorm) DeleteProduct(ctx context.Context, id string) error {
	result := pg.db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "The product does not exist.")
	}
	return nil
}

// UpdateLikeCount adjusts the product's denormalized like counter by delta.
// The adjustment happens in a single UPDATE on the database, so concurrent
// toggles on the same product cannot lose increments to each other.
func (pg *productGorm) UpdateLikeCount(ctx context.Context, id string, delta int) error {
	result := pg.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "The product does not exist.")
	}
	return nil
}

// UpdateStock lowers the stock of one product option by quantity. The guard
// on the current stock runs inside the UPDATE itself, so a concurrent
// decrement cannot push the stock below zero.
func (pg *productGorm) UpdateStock(ctx context.Context, productID, optionID string, quantity int) error {
	result := pg.db.WithContext(ctx).
		Model(&domain.ProductOption{}).
		Where("id = ? AND product_id = ? AND stock >= ?", optionID, productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		err := pg.db.WithContext(ctx).
			First(&domain.ProductOption{}, "id = ? AND product_id = ?", optionID, productID).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The product option does not exist.")
		} else if err != nil {
			return err
		}
		return errs.Errorf(errs.EINVALID, "Not enough stock.")
	}
	return nil
}
