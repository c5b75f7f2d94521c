package handlers

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"image"
	"image/png"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"cityfood/src/errs"
	"cityfood/src/models"
	"cityfood/src/repository/memstore"
	"cityfood/src/security"
	"cityfood/src/services"
	"cityfood/src/storage"
	"cityfood/src/utils"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitValidator()
	os.Exit(m.Run())
}

type env struct {
	t       *testing.T
	router  *gin.Engine
	store   *memstore.Store
	keys    *security.Keys
	catalog *services.CatalogService
	token   string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	access, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	refresh, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	keys := security.NewKeys(access, refresh, time.Minute, time.Hour)

	cfg := utils.DefaultConfig()
	cfg.Store = "memory"
	cfg.Storage.LocalDir = t.TempDir()

	store := memstore.New()
	images := storage.NewImages(storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseUrl), cfg.Limits.ImageMaxSide)

	r := gin.New()
	r.Use(errs.ErrorHandler(zap.NewNop()))
	SetupRoutes(r, New(store, images, keys, cfg, testParams))

	admin, err := store.InsertUser(context.Background(), models.NewUser{Email: "root@cityfood.ml", Password: "x", IsAdmin: true})
	require.NoError(t, err)
	token, err := keys.NewAccessToken(admin.Id, true)
	require.NoError(t, err)

	return &env{
		t:       t,
		router:  r,
		store:   store,
		keys:    keys,
		catalog: services.NewCatalogService(store, store, store),
		token:   token,
	}
}

func (e *env) do(method string, path string, body any, authed bool) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) multipart(method string, path string, fields map[string]string, file []byte) *httptest.ResponseRecorder {
	e.t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile("file", "photo.png")
		require.NoError(e.t, err)
		_, err = part.Write(file)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var res T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

// menu creates a restaurant with one section holding one 1500 FCFA dish
func (e *env) menu() (models.BusinessWithRelations, models.MenuSection, models.MenuItem) {
	e.t.Helper()
	ctx := context.Background()

	category, err := e.catalog.CreateCategory(ctx, "Restaurant", nil)
	require.NoError(e.t, err)
	business, err := e.catalog.CreateBusiness(ctx, models.BusinessInput{Name: "Chez Fanta", CategoryId: category.Id})
	require.NoError(e.t, err)
	section, err := e.catalog.CreateMenuSection(ctx, "Plat Principal", business.Business.Id)
	require.NoError(e.t, err)
	item, err := e.catalog.CreateMenuItem(ctx, models.MenuItemInput{Name: "Riz au Gras", Price: 1500, MenuSectionId: section.Id})
	require.NoError(e.t, err)

	return business, section, item
}

func (e *env) client() models.User {
	e.t.Helper()
	user, err := e.store.InsertUser(context.Background(), models.NewUser{Email: "client@cityfood.ml", Password: "x"})
	require.NoError(e.t, err)
	return user
}

func pngFile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

// CART

func TestGetCartWithoutCartIsNull(t *testing.T) {
	e := newEnv(t)
	user := e.client()

	w := e.do(http.MethodGet, "/cart?userId="+user.Id.String(), nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestAddToCartCreatesCart(t *testing.T) {
	e := newEnv(t)
	user := e.client()
	_, _, item := e.menu()

	w := e.do(http.MethodPost, "/cart", gin.H{"userId": user.Id, "menuItemId": item.Id, "quantity": 2}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	added := decode[models.CartItemDTO](t, w)
	assert.Equal(t, 2, added.Quantity)
	assert.Equal(t, item.Id, added.MenuItemId)

	w = e.do(http.MethodGet, "/cart?userId="+user.Id.String(), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[models.CartDTO](t, w)
	assert.Equal(t, user.Id, cart.UserId)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, "Riz au Gras", cart.CartItems[0].MenuItem.Name)

	// default quantity is 1 and lines merge
	w = e.do(http.MethodPost, "/cart", gin.H{"userId": user.Id, "menuItemId": item.Id}, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[models.CartItemDTO](t, w).Quantity)
}

func TestCartQuantityUpperBound(t *testing.T) {
	e := newEnv(t)
	user := e.client()
	_, _, item := e.menu()

	for range 2 {
		w := e.do(http.MethodPost, "/cart", gin.H{"userId": user.Id, "menuItemId": item.Id, "quantity": math.MaxInt64}, false)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	}

	w := e.do(http.MethodPost, "/cart", gin.H{"userId": user.Id, "menuItemId": item.Id, "quantity": models.MaxQuantity}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	added := decode[models.CartItemDTO](t, w)

	// merging past the limit is a validation error and leaves the line alone
	w = e.do(http.MethodPost, "/cart", gin.H{"userId": user.Id, "menuItemId": item.Id, "quantity": 1}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = e.do(http.MethodPut, "/cart", gin.H{"cartItemId": added.Id, "quantity": models.MaxQuantity + 1}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = e.do(http.MethodGet, "/cart?userId="+user.Id.String(), nil, false)
	cart := decode[models.CartDTO](t, w)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, models.MaxQuantity, cart.CartItems[0].Quantity)
}

func TestSetCartQuantityZeroRejected(t *testing.T) {
	e := newEnv(t)
	user := e.client()
	_, _, item := e.menu()

	w := e.do(http.MethodPost, "/cart", gin.H{"userId": user.Id, "menuItemId": item.Id, "quantity": 3}, false)
	require.Equal(t, http.StatusOK, w.Code)
	added := decode[models.CartItemDTO](t, w)

	w = e.do(http.MethodPut, "/cart", gin.H{"cartItemId": added.Id, "quantity": 0}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/cart?userId="+user.Id.String(), nil, false)
	cart := decode[models.CartDTO](t, w)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, 3, cart.CartItems[0].Quantity)

	w = e.do(http.MethodDelete, "/cart", gin.H{"cartItemId": added.Id}, false)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(http.MethodDelete, "/cart", gin.H{"cartItemId": added.Id}, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartRequiresUserId(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/cart", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/cart?userId=not-a-uuid", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// CATALOG

func TestCategoryLifecycle(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/categories", gin.H{"name": "Pharmacie Koné"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodPost, "/categories", gin.H{"name": "Pharmacie Koné"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.CategoryDTO](t, w)
	assert.Equal(t, "pharmacie-koné", created.Slug)

	w = e.do(http.MethodPost, "/categories", gin.H{"name": "pharmacie koné"}, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decode[gin.H](t, w)["error"], "already exists")

	w = e.do(http.MethodPut, "/categories", gin.H{"id": created.Id, "name": "Pharmacie"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pharmacie", decode[models.CategoryDTO](t, w).Slug)

	w = e.do(http.MethodDelete, "/categories", gin.H{"id": created.Id}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[gin.H](t, w)["message"], "deleted")

	w = e.do(http.MethodGet, "/categories", nil, false)
	assert.Equal(t, "[]", w.Body.String())
}

func TestCategoryValidationErrors(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/categories", gin.H{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode[gin.H](t, w)["error"])

	w = e.do(http.MethodDelete, "/categories", gin.H{"id": "42"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListingHeadersAndPagination(t *testing.T) {
	e := newEnv(t)
	for _, name := range []string{"Restaurant", "Pharmacie", "Taxi"} {
		_, err := e.catalog.CreateCategory(context.Background(), name, nil)
		require.NoError(t, err)
	}

	w := e.do(http.MethodGet, "/categories?page=2&perPage=2", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-Total-Count"))
	assert.Equal(t, "2", w.Header().Get("X-Page-Count"))
	page := decode[[]models.CategoryDTO](t, w)
	require.Len(t, page, 1)
	assert.Equal(t, "Restaurant", page[0].Name)

	w = e.do(http.MethodGet, "/categories?q=TAX", nil, false)
	assert.Len(t, decode[[]models.CategoryDTO](t, w), 1)

	w = e.do(http.MethodGet, "/categories?page=9&perPage=2", nil, false)
	assert.Equal(t, "[]", w.Body.String())

	w = e.do(http.MethodGet, "/categories?startDate=yesterday", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBusinessBySlugWithSections(t *testing.T) {
	e := newEnv(t)
	business, _, _ := e.menu()

	w := e.do(http.MethodGet, "/businesses/chez-fanta?includeSections=true", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	dto := decode[models.BusinessDTO](t, w)
	assert.Equal(t, business.Business.Id, dto.Id)
	require.NotNil(t, dto.MenuSections)
	require.Len(t, *dto.MenuSections, 1)
	assert.Len(t, (*dto.MenuSections)[0].MenuItems, 1)

	w = e.do(http.MethodGet, "/businesses/"+business.Business.Id.String(), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "menuSections")

	w = e.do(http.MethodGet, "/businesses/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBusinessWithUploadedImage(t *testing.T) {
	e := newEnv(t)
	category, err := e.catalog.CreateCategory(context.Background(), "Boutique", nil)
	require.NoError(t, err)

	w := e.multipart(http.MethodPost, "/businesses", map[string]string{
		"name":       "Boutique Sow",
		"categoryId": category.Id.String(),
	}, pngFile(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	dto := decode[models.BusinessDTO](t, w)
	require.NotNil(t, dto.ImageUrl)
	assert.True(t, strings.HasPrefix(*dto.ImageUrl, "/public/images/photo-"), *dto.ImageUrl)
	assert.Equal(t, "Boutique", dto.Category.Name)
	assert.True(t, dto.IsOpen)

	w = e.multipart(http.MethodPost, "/businesses", map[string]string{
		"name":       "Boutique Diallo",
		"categoryId": category.Id.String(),
	}, []byte("plain text, not an image"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestDeleteSectionRemovesItemsFromListing(t *testing.T) {
	e := newEnv(t)
	_, section, _ := e.menu()

	w := e.do(http.MethodGet, "/menu-items?menuSectionId="+section.Id.String(), nil, false)
	require.Len(t, decode[[]models.MenuItemDTO](t, w), 1)

	w = e.do(http.MethodDelete, "/menu-sections", gin.H{"id": section.Id}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/menu-items", nil, false)
	assert.Equal(t, "[]", w.Body.String())
}

func TestMenuItemCreateDefaultsAvailable(t *testing.T) {
	e := newEnv(t)
	_, section, _ := e.menu()

	w := e.do(http.MethodPost, "/menu-items", gin.H{"name": "Dégué", "price": 500, "menuSectionId": section.Id}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, decode[models.MenuItemDTO](t, w).IsAvailable)

	w = e.do(http.MethodPost, "/menu-items", gin.H{"name": "Dégué", "price": 0, "menuSectionId": section.Id}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ORDERS & STATS

func TestDashboardStatsEmptyStore(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/dashboard/stats", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[models.DashboardStatsDTO](t, w)
	assert.Zero(t, stats.OrderCount)
	assert.Zero(t, stats.RevenueStats.TotalRevenue)
	assert.Zero(t, stats.RevenueStats.AverageOrderValue)
	assert.Contains(t, w.Body.String(), `"recentOrders":[]`)
	assert.Contains(t, w.Body.String(), `"ordersByDay":[]`)

	w = e.do(http.MethodGet, "/dashboard/stats?period=14", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderLifecycle(t *testing.T) {
	e := newEnv(t)
	user := e.client()
	business, _, item := e.menu()
	address, err := e.store.InsertAddress(context.Background(), models.NewAddress{
		Street: "Rue 10", City: "Bamako", ZipCode: "1000", Country: "Mali", UserId: user.Id,
	})
	require.NoError(t, err)

	w := e.do(http.MethodPost, "/orders", gin.H{
		"userId":     user.Id,
		"phone":      "+223 70 00 00 00",
		"addressId":  address.Id,
		"businessId": business.Business.Id,
		"items":      []gin.H{{"menuItemId": item.Id, "quantity": 3}},
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	order := decode[models.OrderDTO](t, w)
	assert.Equal(t, 4500.0, order.Total)
	assert.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Riz au Gras", order.OrderItems[0].Name)

	w = e.do(http.MethodPut, "/orders", gin.H{"id": order.Id, "status": "DELIVERED"}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPut, "/orders", gin.H{"id": order.Id, "status": "SHIPPED"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/orders", gin.H{
		"userId":     user.Id,
		"phone":      "+223 70 00 00 00",
		"addressId":  address.Id,
		"businessId": business.Business.Id,
		"items":      []gin.H{{"menuItemId": item.Id, "quantity": models.MaxQuantity + 1}},
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = e.do(http.MethodGet, "/orders/"+order.Id.String(), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderDelivered, decode[models.OrderDTO](t, w).Status)

	w = e.do(http.MethodGet, "/orders?status=DELIVERED", nil, true)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))

	w = e.do(http.MethodGet, "/dashboard/stats", nil, true)
	stats := decode[models.DashboardStatsDTO](t, w)
	assert.Equal(t, 4500.0, stats.RevenueStats.TotalRevenue)
	assert.Equal(t, 4500.0, stats.RevenueStats.AverageOrderValue)
	require.Len(t, stats.RecentOrders, 1)
	assert.Equal(t, "Chez Fanta", stats.RecentOrders[0].Business.Name)

	w = e.do(http.MethodGet, "/orders/"+uuid.NewString(), nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ADMINS & AUTH

func TestLoginRefreshAndGate(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/admins", gin.H{"email": "Awa@cityfood.ml", "password": "motdepasse", "name": "Awa"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	w = e.do(http.MethodPost, "/auth/login", gin.H{"email": "awa@cityfood.ml", "password": "wrong"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodPost, "/auth/login", gin.H{"email": "awa@cityfood.ml", "password": "motdepasse"}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[struct {
		AccessToken string         `json:"accessToken"`
		User        models.UserDTO `json:"user"`
	}](t, w)
	assert.True(t, login.User.IsAdmin)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, refreshCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/admins", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))

	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[gin.H](t, w)["accessToken"])

	w = e.do(http.MethodPost, "/auth/refresh", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNonAdminTokenForbidden(t *testing.T) {
	e := newEnv(t)
	user := e.client()

	token, err := e.keys.NewAccessToken(user.Id, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminCannotDeleteItself(t *testing.T) {
	e := newEnv(t)

	claims, err := e.keys.DecodeAccessToken(e.token)
	require.NoError(t, err)

	w := e.do(http.MethodDelete, "/admins", gin.H{"id": claims.Subject}, true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUploadImage(t *testing.T) {
	e := newEnv(t)

	w := e.multipart(http.MethodPost, "/uploads", nil, pngFile(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(decode[gin.H](t, w)["url"].(string), "/public/images/"))

	w = e.multipart(http.MethodPost, "/uploads", map[string]string{"name": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
