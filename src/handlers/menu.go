package handlers

import (
	"net/http"

	"cityfood/src/models"
	"cityfood/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SECTIONS

func (h *Handler) ListMenuSections(c *gin.Context) {
	sections, err := h.catalog.ListMenuSections(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	list(c, models.MenuSectionsToDTOs(sections))
}

func (h *Handler) CreateMenuSection(c *gin.Context) {
	var body models.CreateMenuSectionDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	section, err := h.catalog.CreateMenuSection(c.Request.Context(), body.Name, mustId(body.BusinessId))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, section.ToDTO())
}

func (h *Handler) UpdateMenuSection(c *gin.Context) {
	var body models.UpdateMenuSectionDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	section, err := h.catalog.UpdateMenuSection(c.Request.Context(), mustId(body.Id), body.Name, mustId(body.BusinessId))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, section.ToDTO())
}

// DeleteMenuSection also removes every item of the section.
func (h *Handler) DeleteMenuSection(c *gin.Context) {
	var body models.DeleteDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	if err := h.catalog.DeleteMenuSection(c.Request.Context(), mustId(body.Id)); err != nil {
		c.Error(err)
		return
	}

	deleted(c, "Menu section")
}

// ITEMS

func (h *Handler) ListMenuItems(c *gin.Context) {
	var query models.MenuItemsQuery
	if err := utils.ValidateQuery(c, &query); err != nil {
		c.Error(err)
		return
	}

	var sectionId *uuid.UUID
	if query.MenuSectionId != "" {
		id := mustId(query.MenuSectionId)
		sectionId = &id
	}

	items, err := h.catalog.ListMenuItems(c.Request.Context(), sectionId)
	if err != nil {
		c.Error(err)
		return
	}

	list(c, models.MenuItemsWithSectionToDTOs(items))
}

func menuItemInput(body models.CreateMenuItemDTO, imageUrl *string) models.MenuItemInput {
	return models.MenuItemInput{
		Name:          body.Name,
		Description:   body.Description,
		Price:         body.Price,
		Type:          body.Type,
		ImageUrl:      imageUrl,
		IsAvailable:   body.IsAvailable,
		MenuSectionId: mustId(body.MenuSectionId),
	}
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var body models.CreateMenuItemDTO
	if err := utils.ValidateForm(c, &body); err != nil {
		c.Error(err)
		return
	}

	imageUrl, err := h.imageUrl(c, body.ImageUrl)
	if err != nil {
		c.Error(err)
		return
	}

	item, err := h.catalog.CreateMenuItem(c.Request.Context(), menuItemInput(body, imageUrl))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, item.ToDTO())
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var body models.UpdateMenuItemDTO
	if err := utils.ValidateForm(c, &body); err != nil {
		c.Error(err)
		return
	}

	imageUrl, err := h.imageUrl(c, body.ImageUrl)
	if err != nil {
		c.Error(err)
		return
	}

	item, err := h.catalog.UpdateMenuItem(c.Request.Context(), mustId(body.Id), menuItemInput(body.CreateMenuItemDTO, imageUrl))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, item.ToDTO())
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	var body models.DeleteDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	if err := h.catalog.DeleteMenuItem(c.Request.Context(), mustId(body.Id)); err != nil {
		c.Error(err)
		return
	}

	deleted(c, "Menu item")
}
