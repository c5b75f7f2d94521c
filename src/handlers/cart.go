package handlers

import (
	"net/http"

	"cityfood/src/models"
	"cityfood/src/utils"

	"github.com/gin-gonic/gin"
)

// GetCart responds with null when the user has no cart yet.
func (h *Handler) GetCart(c *gin.Context) {
	var query models.CartQuery
	if err := utils.ValidateQuery(c, &query); err != nil {
		c.Error(err)
		return
	}

	cart, err := h.carts.GetCart(c.Request.Context(), mustId(query.UserId))
	if err != nil {
		c.Error(err)
		return
	}

	if cart == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, cart.ToDTO())
}

func (h *Handler) AddToCart(c *gin.Context) {
	var body models.AddToCartDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	item, err := h.carts.AddToCart(c.Request.Context(), mustId(body.UserId), mustId(body.MenuItemId), quantity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, item.ToDTO())
}

func (h *Handler) SetCartItemQuantity(c *gin.Context) {
	var body models.SetCartQuantityDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	item, err := h.carts.SetCartItemQuantity(c.Request.Context(), mustId(body.CartItemId), *body.Quantity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, item.ToDTO())
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	var body models.RemoveCartItemDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	if err := h.carts.RemoveCartItem(c.Request.Context(), mustId(body.CartItemId)); err != nil {
		c.Error(err)
		return
	}

	deleted(c, "Cart item")
}
