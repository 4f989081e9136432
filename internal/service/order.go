package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/haim/bookstore-api/internal/catalog"
	"github.com/haim/bookstore-api/internal/dto"
	"github.com/haim/bookstore-api/internal/model"
	"github.com/haim/bookstore-api/internal/repository"
)

var (
	ErrEmptyOrder     = errors.New("order has no items")
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// OrderService persists orders for authenticated users and expands them with
// catalog product details.
type OrderService struct {
	orderRepo repository.OrderRepository
	src       catalog.Source
	amqpCh    *amqp.Channel
}

func NewOrderService(orderRepo repository.OrderRepository, src catalog.Source, amqpCh *amqp.Channel) *OrderService {
	return &OrderService{orderRepo: orderRepo, src: src, amqpCh: amqpCh}
}

// Create validates every line item against the catalog, then writes the order
// and its items atomically. Quantity on the order is the line-item count.
func (s *OrderService) Create(ctx context.Context, identity model.Identity, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if req.AmountPaid.IsNegative() {
		return nil, ErrNegativeAmount
	}

	doc, err := s.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	byID := productIndex(doc)

	cartList := make([]model.Product, 0, len(req.Items))
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if item.Price.IsNegative() {
			return nil, ErrNegativeAmount
		}
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		cartList = append(cartList, product)
		items = append(items, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  quantity,
			Price:     item.Price,
		})
	}

	order := &model.Order{
		UserID:     identity.UserID,
		AmountPaid: req.AmountPaid,
		Quantity:   len(items),
		Items:      items,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publishCreated(ctx, order)

	return &dto.OrderResponse{
		ID:         order.ID,
		CartList:   cartList,
		AmountPaid: order.AmountPaid,
		Quantity:   order.Quantity,
		User:       &dto.UserResponse{ID: identity.UserID, Email: identity.Email},
	}, nil
}

// ListByUser returns every order owned by the identity, each expanded with the
// catalog products of its line items.
func (s *OrderService) ListByUser(ctx context.Context, identity model.Identity) ([]dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return []dto.OrderResponse{}, nil
	}

	doc, err := s.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	byID := productIndex(doc)

	result := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		cartList := make([]model.Product, 0, len(o.Items))
		for _, item := range o.Items {
			// Items whose product has since left the catalog are skipped
			// rather than failing the whole listing.
			if product, ok := byID[item.ProductID]; ok {
				cartList = append(cartList, product)
			}
		}
		result = append(result, dto.OrderResponse{
			ID:         o.ID,
			CartList:   cartList,
			AmountPaid: o.AmountPaid,
			Quantity:   o.Quantity,
		})
	}
	return result, nil
}

// publishCreated emits an order-created event for downstream consumers. The
// order is already committed, so a broker failure is not surfaced to the user.
func (s *OrderService) publishCreated(ctx context.Context, order *model.Order) {
	if s.amqpCh == nil {
		return
	}
	msg, _ := json.Marshal(model.OrderMessage{OrderID: order.ID, UserID: order.UserID})
	_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
}

func productIndex(doc *model.Catalog) map[int64]model.Product {
	byID := make(map[int64]model.Product, len(doc.Products))
	for _, p := range doc.Products {
		byID[p.ID] = p
	}
	return byID
}
