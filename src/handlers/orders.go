package handlers

import (
	"net/http"

	"cityfood/src/errs"
	"cityfood/src/models"
	"cityfood/src/services"
	"cityfood/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	list(c, models.OrdersToDTOs(orders))
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(errs.InvalidID)
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order.ToDTO())
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var body models.CreateOrderDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	req := services.OrderRequest{
		UserId:     mustId(body.UserId),
		Phone:      body.Phone,
		AddressId:  mustId(body.AddressId),
		BusinessId: mustId(body.BusinessId),
		Lines:      make([]services.OrderLine, len(body.Items)),
	}
	if body.Status != nil {
		req.Status = models.OrderStatus(*body.Status)
	}
	for i, line := range body.Items {
		req.Lines[i] = services.OrderLine{MenuItemId: mustId(line.MenuItemId), Quantity: line.Quantity}
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, order.ToDTO())
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var body models.UpdateOrderStatusDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), mustId(body.Id), models.OrderStatus(body.Status))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, order.ToDTO())
}

func (h *Handler) DashboardStats(c *gin.Context) {
	var query models.StatsQuery
	if err := utils.ValidateQuery(c, &query); err != nil {
		c.Error(err)
		return
	}

	stats, err := h.stats.GetDashboardStats(c.Request.Context(), query.Period)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
