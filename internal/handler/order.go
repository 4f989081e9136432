package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haim/bookstore-api/internal/catalog"
	"github.com/haim/bookstore-api/internal/dto"
	"github.com/haim/bookstore-api/internal/middleware"
	"github.com/haim/bookstore-api/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), middleware.GetIdentity(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": "order has no items"})
		case errors.Is(err, service.ErrNegativeAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, catalog.ErrUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "products file missing or invalid"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.ListByUser(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "products file missing or invalid"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, orders)
}
