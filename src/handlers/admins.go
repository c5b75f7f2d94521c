package handlers

import (
	"net/http"

	"cityfood/src/errs"
	"cityfood/src/models"
	"cityfood/src/security"
	"cityfood/src/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.admins.ListAdmins(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	list(c, models.UsersToDTOs(admins))
}

func (h *Handler) CreateAdmin(c *gin.Context) {
	var body models.CreateAdminDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	admin, err := h.admins.CreateAdmin(c.Request.Context(), body.Email, body.Password, body.Name, body.Phone)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, admin.ToDTO())
}

func (h *Handler) UpdateAdmin(c *gin.Context) {
	var body models.UpdateAdminDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	admin, err := h.admins.UpdateAdmin(c.Request.Context(), mustId(body.Id), body.Name, body.Phone)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, admin.ToDTO())
}

func (h *Handler) DeleteAdmin(c *gin.Context) {
	var body models.DeleteDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	id := mustId(body.Id)
	if token := security.Token(c); token != nil && token.Subject == id.String() {
		c.Error(errs.Conflict("You can't delete your own account"))
		return
	}

	if err := h.admins.DeleteAdmin(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	deleted(c, "Admin")
}
