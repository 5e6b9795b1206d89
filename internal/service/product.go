package service

import (
	"context"
	"errors"

	"outlethub-api/internal/event"
	"outlethub-api/internal/model"
	"outlethub-api/internal/repository"
)

// ErrOutletRequired is returned when a product mutation lacks its outlet.
var ErrOutletRequired = errors.New("Outlet is required")

// ProductService is the product mutation path. Every persisted change emits a
// lifecycle event keyed by the product's outlet reference at event time.
type ProductService struct {
	products repository.ProductRepository
	outlets  repository.OutletRepository
	events   *event.Dispatcher
}

// NewProductService creates a product service.
func NewProductService(products repository.ProductRepository, outlets repository.OutletRepository, events *event.Dispatcher) *ProductService {
	return &ProductService{products: products, outlets: outlets, events: events}
}

// CreateProductInput is the product creation payload.
type CreateProductInput struct {
	OutletID      int64   `json:"outlet"`
	Name          string  `json:"name"`
	StockQuantity int64   `json:"stockQuantity"`
	TotalProduct  int64   `json:"totalProduct"`
	Price         float64 `json:"price"`
}

// Create persists a new product and emits a created event.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*model.Product, error) {
	if input.OutletID == 0 {
		return nil, ErrOutletRequired
	}
	if _, err := s.outlets.FindByID(ctx, input.OutletID); err != nil {
		return nil, err
	}

	product := &model.Product{
		OutletID:      input.OutletID,
		Name:          input.Name,
		StockQuantity: input.StockQuantity,
		TotalProduct:  input.TotalProduct,
		Price:         input.Price,
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, event.ProductEvent{
		Kind:      event.ProductCreated,
		ProductID: created.ID,
		OutletID:  created.OutletID,
	})
	return created, nil
}

// Get fetches a product by id.
func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Update applies a partial product update and emits an updated event.
func (s *ProductService) Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.StockQuantity != nil {
		product.StockQuantity = *patch.StockQuantity
	}
	if patch.TotalProduct != nil {
		product.TotalProduct = *patch.TotalProduct
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, event.ProductEvent{
		Kind:      event.ProductUpdated,
		ProductID: product.ID,
		OutletID:  product.OutletID,
	})
	return product, nil
}

// Delete removes a product. The outlet id is captured from the record before
// deletion, since the row no longer exists when the event fires.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Emit(ctx, event.ProductEvent{
		Kind:      event.ProductDeleted,
		ProductID: id,
		OutletID:  product.OutletID,
	})
	return nil
}
