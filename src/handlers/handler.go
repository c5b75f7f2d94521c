package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cityfood/src/errs"
	"cityfood/src/security"
	"cityfood/src/services"
	"cityfood/src/storage"
	"cityfood/src/utils"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const refreshCookie = "refresh_token"

type Handler struct {
	catalog *services.CatalogService
	carts   *services.CartService
	orders  *services.OrderService
	stats   *services.StatsService
	admins  *services.AdminService
	images  *storage.Images
	keys    *security.Keys
	cfg     *utils.Config
}

// New wires every service on top of one store. params may be nil.
func New(store services.Store, images *storage.Images, keys *security.Keys, cfg *utils.Config, params *argon2id.Params) *Handler {
	return &Handler{
		catalog: services.NewCatalogService(store, store, store),
		carts:   services.NewCartService(store, store),
		orders:  services.NewOrderService(store, store),
		stats:   services.NewStatsService(store),
		admins:  services.NewAdminService(store, params),
		images:  images,
		keys:    keys,
		cfg:     cfg,
	}
}

// ids are validated by the `uuid` binding before they get here
func mustId(id string) uuid.UUID {
	return uuid.MustParse(id)
}

func mustIds(raw []string) []uuid.UUID {
	if raw == nil {
		return nil
	}
	ids := make([]uuid.UUID, len(raw))
	for i, id := range raw {
		ids[i] = mustId(id)
	}
	return ids
}

func deleted(c *gin.Context, what string) {
	c.JSON(http.StatusOK, gin.H{"message": what + " deleted successfully"})
}

// list binds the dashboard listing query, applies it and exposes the totals
// in X-Total-Count and X-Page-Count.
func list[T utils.Listable](c *gin.Context, items []T) {
	var query utils.ListQuery
	if err := utils.ValidateQuery(c, &query); err != nil {
		c.Error(err)
		return
	}

	page := utils.ApplyListing(items, query)

	c.Header("X-Total-Count", strconv.Itoa(page.Total))
	c.Header("X-Page-Count", strconv.Itoa(page.PageCount))
	c.JSON(http.StatusOK, page.Items)
}

// imageUrl stores the multipart `file` when one is sent and returns its URL,
// otherwise the URL from the body is kept as is.
func (h *Handler) imageUrl(c *gin.Context, fromBody *string) (*string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return fromBody, nil
	}

	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return fromBody, nil
	}
	if err != nil {
		return nil, errs.Validation("Failed to read the uploaded file")
	}

	url, err := h.images.Save(c.Request.Context(), fh)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

func (h *Handler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.Error(errs.MissingFile)
		return
	}

	url, err := h.images.Save(c.Request.Context(), fh)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
