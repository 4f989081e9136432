package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/haim/bookstore-api/internal/catalog"
	"github.com/haim/bookstore-api/internal/dto"
	"github.com/haim/bookstore-api/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.productService.List(c.Request.Context(), req.NameLike)
	if err != nil {
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Featured(c *gin.Context) {
	products, err := h.productService.Featured(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoFeaturedProducts) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no featured products found"})
			return
		}
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) catalogError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrUnavailable) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "products file missing or invalid"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
