package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haim/bookstore-api/internal/catalog"
	"github.com/haim/bookstore-api/internal/model"
)

type stubCatalog struct {
	doc *model.Catalog
	err error
}

func (s *stubCatalog) Load(_ context.Context) (*model.Catalog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

func testCatalog() *stubCatalog {
	return &stubCatalog{doc: &model.Catalog{
		Products: []model.Product{
			{ID: 1, Name: "Atlas of Clouds", Price: decimal.NewFromFloat(9.99), InStock: true},
			{ID: 2, Name: "The Sea Atlas", Price: decimal.NewFromFloat(14.50), InStock: true},
			{ID: 3, Name: "Night Train", Price: decimal.NewFromFloat(7.25), InStock: false},
		},
		FeaturedProducts: []model.Product{
			{ID: 1, Name: "Atlas of Clouds", Price: decimal.NewFromFloat(9.99), InStock: true},
		},
	}}
}

func TestProductService_List_All(t *testing.T) {
	svc := NewProductService(testCatalog())
	products, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestProductService_List_NoProductsKey(t *testing.T) {
	svc := NewProductService(&stubCatalog{doc: &model.Catalog{}})

	products, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductService_List_NameFilter(t *testing.T) {
	svc := NewProductService(testCatalog())

	products, err := svc.List(context.Background(), "atlas")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, int64(2), products[1].ID)

	// Filter is case-insensitive in both directions.
	products, err = svc.List(context.Background(), "NIGHT")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Night Train", products[0].Name)

	products, err = svc.List(context.Background(), "no-such-book")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductService_GetByID(t *testing.T) {
	svc := NewProductService(testCatalog())

	product, err := svc.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "The Sea Atlas", product.Name)

	_, err = svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Featured(t *testing.T) {
	svc := NewProductService(testCatalog())
	products, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
}

func TestProductService_Featured_Empty(t *testing.T) {
	src := testCatalog()
	src.doc.FeaturedProducts = nil
	svc := NewProductService(src)

	_, err := svc.Featured(context.Background())
	assert.ErrorIs(t, err, ErrNoFeaturedProducts)
}

func TestProductService_CatalogUnavailable(t *testing.T) {
	svc := NewProductService(&stubCatalog{err: catalog.ErrUnavailable})

	_, err := svc.List(context.Background(), "")
	assert.ErrorIs(t, err, catalog.ErrUnavailable)

	_, err = svc.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, catalog.ErrUnavailable)

	_, err = svc.Featured(context.Background())
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}
