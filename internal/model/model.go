package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the {email, user id} pair extracted from a verified token.
type Identity struct {
	Email  string
	UserID uuid.UUID
}

type Order struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	AmountPaid decimal.Decimal
	Quantity   int // line-item count, not the sum of item quantities
	Items      []OrderItem
	CreatedAt  time.Time
}

type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID int64
	Quantity  int
	Price     decimal.Decimal // unit price at the time of the order
}

// Product is a catalog record. The JSON tags match the static catalog file,
// which is also the wire shape for product responses.
type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Overview        string          `json:"overview"`
	LongDescription string          `json:"long_description"`
	Price           decimal.Decimal `json:"price"`
	Poster          string          `json:"poster"`
	ImageLocal      string          `json:"image_local"`
	Rating          int             `json:"rating"`
	InStock         bool            `json:"in_stock"`
	Size            int             `json:"size"`
	BestSeller      bool            `json:"best_seller"`
}

// Catalog mirrors the top-level structure of the static catalog document.
type Catalog struct {
	Products         []Product `json:"products"`
	FeaturedProducts []Product `json:"featured_products"`
}

type OrderMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}

// Receipt is the durable record written when an order-created event has been
// processed; at most one exists per order.
type Receipt struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	UserID     uuid.UUID
	RecordedAt time.Time
}
