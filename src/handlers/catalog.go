package handlers

import (
	"net/http"

	"cityfood/src/models"
	"cityfood/src/utils"

	"github.com/gin-gonic/gin"
)

// CATEGORIES

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	list(c, models.CategoriesToDTOs(categories))
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var body models.CreateCategoryDTO
	if err := utils.ValidateForm(c, &body); err != nil {
		c.Error(err)
		return
	}

	imageUrl, err := h.imageUrl(c, body.ImageUrl)
	if err != nil {
		c.Error(err)
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), body.Name, imageUrl)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, category.ToDTO())
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	var body models.UpdateCategoryDTO
	if err := utils.ValidateForm(c, &body); err != nil {
		c.Error(err)
		return
	}

	imageUrl, err := h.imageUrl(c, body.ImageUrl)
	if err != nil {
		c.Error(err)
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), mustId(body.Id), body.Name, imageUrl)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, category.ToDTO())
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	var body models.DeleteDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	if err := h.catalog.DeleteCategory(c.Request.Context(), mustId(body.Id)); err != nil {
		c.Error(err)
		return
	}

	deleted(c, "Category")
}

// BUSINESSES

func (h *Handler) ListBusinesses(c *gin.Context) {
	businesses, err := h.catalog.ListBusinesses(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	list(c, models.BusinessesToDTOs(businesses))
}

func (h *Handler) GetBusiness(c *gin.Context) {
	includeSections := c.Query("includeSections") == "true"

	business, err := h.catalog.GetBusiness(c.Request.Context(), c.Param("idOrSlug"), includeSections)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, business.ToDTO())
}

func (h *Handler) CreateBusiness(c *gin.Context) {
	var body models.CreateBusinessDTO
	if err := utils.ValidateForm(c, &body); err != nil {
		c.Error(err)
		return
	}

	imageUrl, err := h.imageUrl(c, body.ImageUrl)
	if err != nil {
		c.Error(err)
		return
	}

	business, err := h.catalog.CreateBusiness(c.Request.Context(), models.BusinessInput{
		Name:        body.Name,
		Description: body.Description,
		ImageUrl:    imageUrl,
		CategoryId:  mustId(body.CategoryId),
		AdminIds:    mustIds(body.AdminIds),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, business.ToDTO())
}

// UpdateBusiness replaces the admin set only when adminIds is sent.
func (h *Handler) UpdateBusiness(c *gin.Context) {
	var body models.UpdateBusinessDTO
	if err := utils.ValidateForm(c, &body); err != nil {
		c.Error(err)
		return
	}

	imageUrl, err := h.imageUrl(c, body.ImageUrl)
	if err != nil {
		c.Error(err)
		return
	}

	business, err := h.catalog.UpdateBusiness(c.Request.Context(), mustId(body.Id), models.BusinessInput{
		Name:        body.Name,
		Description: body.Description,
		ImageUrl:    imageUrl,
		CategoryId:  mustId(body.CategoryId),
		IsOpen:      body.IsOpen,
		AdminIds:    mustIds(body.AdminIds),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, business.ToDTO())
}

func (h *Handler) DeleteBusiness(c *gin.Context) {
	var body models.DeleteDTO
	if err := utils.ValidateJSON(c, &body); err != nil {
		c.Error(err)
		return
	}

	if err := h.catalog.DeleteBusiness(c.Request.Context(), mustId(body.Id)); err != nil {
		c.Error(err)
		return
	}

	deleted(c, "Business")
}
