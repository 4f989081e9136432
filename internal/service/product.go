package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haim/bookstore-api/internal/catalog"
	"github.com/haim/bookstore-api/internal/model"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrNoFeaturedProducts = errors.New("no featured products found")
)

// ProductService is a read-only view over the static catalog.
type ProductService struct {
	src catalog.Source
}

func NewProductService(src catalog.Source) *ProductService {
	return &ProductService{src: src}
}

// List returns every catalog product, or the subset whose name contains
// nameLike case-insensitively.
func (s *ProductService) List(ctx context.Context, nameLike string) ([]model.Product, error) {
	doc, err := s.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if nameLike == "" {
		// A document without a products key unmarshals to nil; the endpoint
		// contract is an empty array, not null.
		if doc.Products == nil {
			return []model.Product{}, nil
		}
		return doc.Products, nil
	}

	needle := strings.ToLower(nameLike)
	matched := make([]model.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	doc, err := s.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for i := range doc.Products {
		if doc.Products[i].ID == id {
			return &doc.Products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// Featured returns the featured subset. An empty featured collection is an
// error, not an empty result; existing clients depend on the 404.
func (s *ProductService) Featured(ctx context.Context) ([]model.Product, error) {
	doc, err := s.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(doc.FeaturedProducts) == 0 {
		return nil, ErrNoFeaturedProducts
	}
	return doc.FeaturedProducts, nil
}
