package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haim/bookstore-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is submitted as form credentials; the username field carries
// the email address.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// --- Orders ---

// Decimal fields carry no binding tags: "required" would reject a legitimate
// zero amount and the numeric validators do not apply to decimal.Decimal.
// Non-negativity is enforced by the order service.
type OrderItemRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"omitempty,min=1"`
	Price     decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	AmountPaid decimal.Decimal    `json:"amount_paid"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderResponse expands an order with the resolved catalog products of its
// line items, in submission order. The user field is present only on creation.
type OrderResponse struct {
	ID         uuid.UUID       `json:"id"`
	CartList   []model.Product `json:"cartList"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Quantity   int             `json:"quantity"`
	User       *UserResponse   `json:"user,omitempty"`
}

// --- Products ---

type ListProductsRequest struct {
	NameLike string `form:"name_like"`
}
