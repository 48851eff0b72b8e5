package crud

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

func TestCreateProduct(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")

	options := []domain.ProductOptionInput{
		{Size: "S", Color: "red", Stock: 3},
		{Size: "M", Color: "red", Stock: 5},
	}
	created, err := s.Product.CreateProduct(ctx, &domain.Product{
		Name:        "Runner Sneaker",
		Description: "Lightweight everyday sneaker.",
		Brand:       "Acme",
		Price:       79.90,
		UserID:      user.ID,
	}, options)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Options, 2)

	persisted := map[string]int{}
	for _, o := range created.Options {
		persisted[o.Size+"/"+o.Color] = o.Stock
	}
	assert.Equal(t, map[string]int{"S/red": 3, "M/red": 5}, persisted)
}

func TestCreateProductValidation(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")

	options := []domain.ProductOptionInput{{Size: "M", Color: "red", Stock: 1}}

	// No options at all.
	_, err := s.Product.CreateProduct(ctx, &domain.Product{
		Name: "No Options", Description: "x", Brand: "Acme", Price: 1, UserID: user.ID,
	}, nil)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	// Negative price.
	_, err = s.Product.CreateProduct(ctx, &domain.Product{
		Name: "Bad Price", Description: "x", Brand: "Acme", Price: -1, UserID: user.ID,
	}, options)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	// Negative stock.
	_, err = s.Product.CreateProduct(ctx, &domain.Product{
		Name: "Bad Stock", Description: "x", Brand: "Acme", Price: 1, UserID: user.ID,
	}, []domain.ProductOptionInput{{Size: "M", Color: "red", Stock: -1}})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	// Nothing was written by any of the rejected creates.
	var count int64
	require.NoError(t, s.db.Model(&domain.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

// TestCreateProductRollsBackOnFailure induces a failure on the option insert
// and verifies that the product row does not survive it.
func TestCreateProductRollsBackOnFailure(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")

	// Dropping the options table makes the second insert of the
	// transaction fail after the product insert succeeded.
	require.NoError(t, s.db.Migrator().DropTable(&domain.ProductOption{}))

	_, err := s.Product.CreateProduct(ctx, &domain.Product{
		Name: "Doomed", Description: "x", Brand: "Acme", Price: 10, UserID: user.ID,
	}, []domain.ProductOptionInput{{Size: "M", Color: "red", Stock: 1}})
	require.Error(t, err)

	var count int64
	require.NoError(t, s.db.Model(&domain.Product{}).Count(&count).Error)
	assert.Zero(t, count, "the product row must not exist after a failed option insert")
}

func TestUpdateProductFullOptionReplace(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")
	product := createTestProduct(t, s, user.ID, "Jacket", "Acme", 120)

	// First replace.
	updated, err := s.Product.UpdateProduct(ctx, product.ID, domain.ProductUpdate{
		Options: []domain.ProductOptionInput{
			{Size: "S", Color: "green", Stock: 1},
			{Size: "M", Color: "green", Stock: 2},
			{Size: "L", Color: "green", Stock: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Options, 3)

	// Second replace leaves exactly the latest set, nothing from the first.
	updated, err = s.Product.UpdateProduct(ctx, product.ID, domain.ProductUpdate{
		Options: []domain.ProductOptionInput{{Size: "XL", Color: "blue", Stock: 7}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Options, 1)
	assert.Equal(t, "XL", updated.Options[0].Size)
	assert.Equal(t, "blue", updated.Options[0].Color)

	var count int64
	require.NoError(t, s.db.Model(&domain.ProductOption{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Nil options leave the set untouched.
	name := "Winter Jacket"
	updated, err = s.Product.UpdateProduct(ctx, product.ID, domain.ProductUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Winter Jacket", updated.Name)
	assert.Len(t, updated.Options, 1)

	// An explicitly empty set clears all options.
	updated, err = s.Product.UpdateProduct(ctx, product.ID, domain.ProductUpdate{
		Options: []domain.ProductOptionInput{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Options)
}

func TestUpdateProductAttributes(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")
	product := createTestProduct(t, s, user.ID, "Jacket", "Acme", 120)

	price := 99.5
	brand := "Apex"
	updated, err := s.Product.UpdateProduct(ctx, product.ID, domain.ProductUpdate{Price: &price, Brand: &brand})
	require.NoError(t, err)
	assert.Equal(t, 99.5, updated.Price)
	assert.Equal(t, "Apex", updated.Brand)
	// Untouched fields stay.
	assert.Equal(t, "Jacket", updated.Name)
}

func TestProductNotFound(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")
	product := createTestProduct(t, s, user.ID, "Jacket", "Acme", 120)

	_, err := s.Product.FindProductByID(ctx, "no-such-id")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	name := "x"
	_, err = s.Product.UpdateProduct(ctx, "no-such-id", domain.ProductUpdate{Name: &name})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	err = s.Product.DeleteProduct(ctx, "no-such-id")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	// Deleted products are gone for every operation.
	require.NoError(t, s.Product.DeleteProduct(ctx, product.ID))
	_, err = s.Product.FindProductByID(ctx, product.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	err = s.Product.DeleteProduct(ctx, product.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestFindProductsPagination(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")

	// Distinct creation timestamps keep the default newest-first order
	// unambiguous across pages.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		product := &domain.Product{
			Name:        fmt.Sprintf("Product %02d", i),
			Description: "x",
			Brand:       "Acme",
			Price:       float64(10 + i),
			UserID:      user.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		_, err := s.Product.CreateProduct(ctx, product, []domain.ProductOptionInput{{Size: "M", Color: "red", Stock: 1}})
		require.NoError(t, err)
	}

	page1, err := s.Product.FindProducts(ctx, domain.ProductFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	page2, err := s.Product.FindProducts(ctx, domain.ProductFilter{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page2.Items, 10)
	assert.EqualValues(t, 25, page2.Total)
	assert.Equal(t, 3, page2.TotalPages)
	assert.Equal(t, 2, page2.Page)
	assert.Equal(t, 10, page2.Limit)

	seen := map[string]bool{}
	for _, p := range page1.Items {
		seen[p.ID] = true
	}
	for _, p := range page2.Items {
		assert.False(t, seen[p.ID], "page 2 must be disjoint from page 1")
	}

	// The last page holds the remainder.
	page3, err := s.Product.FindProducts(ctx, domain.ProductFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 5)
}

func TestFindProductsFilterConjunction(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")
	target := createTestProduct(t, s, user.ID, "Target", "X", 50)
	createTestProduct(t, s, user.ID, "Other Brand", "Y", 50)
	createTestProduct(t, s, user.ID, "Too Expensive", "X", 80)

	min, max := 40.0, 60.0
	page, err := s.Product.FindProducts(ctx, domain.ProductFilter{Brand: "X", MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, target.ID, page.Items[0].ID)

	// Tightening any single bound excludes the product.
	lowMax := 45.0
	page, err = s.Product.FindProducts(ctx, domain.ProductFilter{Brand: "X", MinPrice: &min, MaxPrice: &lowMax})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = s.Product.FindProducts(ctx, domain.ProductFilter{Brand: "Z", MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestFindProductsSearch(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")
	createTestProduct(t, s, user.ID, "Trail Runner", "Acme", 50)

	_, err := s.Product.CreateProduct(ctx, &domain.Product{
		Name: "City Boot", Description: "Great for trail walks too.", Brand: "Acme", Price: 60, UserID: user.ID,
	}, []domain.ProductOptionInput{{Size: "M", Color: "red", Stock: 1}})
	require.NoError(t, err)

	// Substring match on name or description, case-insensitive.
	page, err := s.Product.FindProducts(ctx, domain.ProductFilter{Search: "TRAIL"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = s.Product.FindProducts(ctx, domain.ProductFilter{Search: "boot"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

// TestFindProductsSizeColorSameOption documents the chosen join semantics:
// when both size and color are given, a single option row must match both.
func TestFindProductsSizeColorSameOption(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")

	matching, err := s.Product.CreateProduct(ctx, &domain.Product{
		Name: "Matching", Description: "x", Brand: "Acme", Price: 10, UserID: user.ID,
	}, []domain.ProductOptionInput{{Size: "M", Color: "red", Stock: 1}})
	require.NoError(t, err)

	// Has size M and color red, but never on the same option row.
	_, err = s.Product.CreateProduct(ctx, &domain.Product{
		Name: "Split", Description: "x", Brand: "Acme", Price: 10, UserID: user.ID,
	}, []domain.ProductOptionInput{
		{Size: "M", Color: "blue", Stock: 1},
		{Size: "L", Color: "red", Stock: 1},
	})
	require.NoError(t, err)

	page, err := s.Product.FindProducts(ctx, domain.ProductFilter{Size: "M", Color: "red"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, matching.ID, page.Items[0].ID)

	// A single option-level bound matches either product.
	page, err = s.Product.FindProducts(ctx, domain.ProductFilter{Size: "M"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestFindProductsSort(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")
	createTestProduct(t, s, user.ID, "Bravo", "Acme", 30)
	createTestProduct(t, s, user.ID, "Alpha", "Acme", 20)
	createTestProduct(t, s, user.ID, "Charlie", "Acme", 10)

	page, err := s.Product.FindProducts(ctx, domain.ProductFilter{Sort: domain.SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, []float64{10, 20, 30}, []float64{page.Items[0].Price, page.Items[1].Price, page.Items[2].Price})

	page, err = s.Product.FindProducts(ctx, domain.ProductFilter{Sort: domain.SortNameDesc})
	require.NoError(t, err)
	assert.Equal(t, "Charlie", page.Items[0].Name)

	// Unrecognized sort values fall back to the default without erroring.
	_, err = s.Product.FindProducts(ctx, domain.ProductFilter{Sort: "price; DROP TABLE products"})
	require.NoError(t, err)
}

func TestUpdateStock(t *testing.T) {
	s := testServices(t)
	ctx := context.Background()
	user := createTestUser(t, s, "seller")
	product := createTestProduct(t, s, user.ID, "Jacket", "Acme", 120)
	option := product.Options[0]

	require.NoError(t, s.Product.UpdateStock(ctx, product.ID, option.ID, 4))

	reloaded, err := s.Product.FindProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, option.Stock-4, reloaded.Options[0].Stock)

	// Not enough stock left.
	err = s.Product.UpdateStock(ctx, product.ID, option.ID, 100)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	// Unknown option.
	err = s.Product.UpdateStock(ctx, product.ID, "no-such-option", 1)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}
