package repository_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"cityfood/src/errs"
	"cityfood/src/models"
	"cityfood/src/repository"
	"cityfood/src/services"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// CITYFOOD_TEST_DATABASE_URL points the tests at an existing database,
// otherwise a postgres container is started. Without docker they are skipped.
const databaseUrlEnv = "CITYFOOD_TEST_DATABASE_URL"

var (
	shared      *repository.Store
	unavailable string
)

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	if testing.Short() {
		unavailable = "postgres tests are skipped in short mode"
		return m.Run()
	}

	connUrl := os.Getenv(databaseUrlEnv)
	if connUrl == "" {
		ctr, err := startPostgres(ctx)
		if err != nil {
			unavailable = fmt.Sprintf("no postgres available: %v", err)
			return m.Run()
		}
		defer testcontainers.TerminateContainer(ctr)

		connUrl, err = ctr.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			unavailable = fmt.Sprintf("container connection string: %v", err)
			return m.Run()
		}
	}

	store, err := repository.New(ctx, connUrl)
	if err != nil {
		unavailable = err.Error()
		return m.Run()
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		return 1
	}

	shared = store
	return m.Run()
}

// startPostgres turns a missing docker daemon into an error, some
// testcontainers versions panic instead.
func startPostgres(ctx context.Context) (ctr *postgres.PostgresContainer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("docker: %v", r)
		}
	}()

	return postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("cityfood"),
		postgres.WithUsername("cityfood"),
		postgres.WithPassword("cityfood"),
		postgres.BasicWaitStrategies(),
	)
}

// cheap enough for tests
var testParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type fixture struct {
	ctx     context.Context
	store   *repository.Store
	catalog *services.CatalogService
	carts   *services.CartService
	orders  *services.OrderService
	stats   *services.StatsService
	admins  *services.AdminService

	client   models.User
	address  models.Address
	category models.Category
	business models.BusinessWithRelations
	section  models.MenuSection
	item     models.MenuItem
}

// newFixture empties the shared database and creates a client with an
// address, category "Restaurant", business "Chez Fanta", section
// "Plat Principal" and dish "Poulet Yassa" at 2000.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	if shared == nil {
		t.Skip(unavailable)
	}

	ctx := context.Background()
	require.NoError(t, shared.Truncate(ctx))

	f := &fixture{
		ctx:     ctx,
		store:   shared,
		catalog: services.NewCatalogService(shared, shared, shared),
		carts:   services.NewCartService(shared, shared),
		orders:  services.NewOrderService(shared, shared),
		stats:   services.NewStatsService(shared),
		admins:  services.NewAdminService(shared, testParams),
	}

	var err error
	f.client, err = shared.InsertUser(ctx, models.NewUser{Email: "client1@cityfood.ml", Password: "unused"})
	require.NoError(t, err)

	f.address, err = shared.InsertAddress(ctx, models.NewAddress{
		Street: "Rue 12", City: "Bamako", ZipCode: "1000", Country: "Mali", UserId: f.client.Id,
	})
	require.NoError(t, err)

	f.category, err = f.catalog.CreateCategory(ctx, "Restaurant", nil)
	require.NoError(t, err)

	f.business, err = f.catalog.CreateBusiness(ctx, models.BusinessInput{Name: "Chez Fanta", CategoryId: f.category.Id})
	require.NoError(t, err)

	f.section, err = f.catalog.CreateMenuSection(ctx, "Plat Principal", f.business.Business.Id)
	require.NoError(t, err)

	f.item, err = f.catalog.CreateMenuItem(ctx, models.MenuItemInput{
		Name: "Poulet Yassa", Price: 2000, MenuSectionId: f.section.Id,
	})
	require.NoError(t, err)

	return f
}

func (f *fixture) order(t *testing.T, quantity int, at time.Time) models.OrderWithItems {
	t.Helper()
	order, err := f.orders.CreateOrder(f.ctx, services.OrderRequest{
		UserId: f.client.Id, Phone: "+22370000000", AddressId: f.address.Id, BusinessId: f.business.Business.Id,
		Lines: []services.OrderLine{{MenuItemId: f.item.Id, Quantity: quantity}}, CreatedAt: at,
	})
	require.NoError(t, err)
	return order
}

func assertKind(t *testing.T, err error, kind errs.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, errs.KindOf(err), err.Error())
}

func strPtr(s string) *string { return &s }

// CATALOG

func TestCategoryUniqueSlugAndPartialUpdate(t *testing.T) {
	f := newFixture(t)

	pharmacie, err := f.catalog.CreateCategory(f.ctx, "Pharmacie", strPtr("/public/images/pharmacie.png"))
	require.NoError(t, err)
	assert.Equal(t, "pharmacie", pharmacie.Slug)

	_, err = f.catalog.CreateCategory(f.ctx, "pharmacie", nil)
	assertKind(t, err, errs.KindConflict)

	// a nil image keeps the stored one
	renamed, err := f.catalog.UpdateCategory(f.ctx, pharmacie.Id, "Pharmacie de Garde", nil)
	require.NoError(t, err)
	assert.Equal(t, "pharmacie-de-garde", renamed.Slug)
	require.NotNil(t, renamed.ImageUrl)
	assert.Equal(t, "/public/images/pharmacie.png", *renamed.ImageUrl)

	_, err = f.catalog.UpdateCategory(f.ctx, uuid.New(), "Boutique", nil)
	assertKind(t, err, errs.KindNotFound)

	categories, err := f.catalog.ListCategories(f.ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Pharmacie de Garde", categories[0].Name)
}

func TestDeleteCategoryRestrictedByBusinesses(t *testing.T) {
	f := newFixture(t)

	err := f.catalog.DeleteCategory(f.ctx, f.category.Id)
	assertKind(t, err, errs.KindConflict)

	empty, err := f.catalog.CreateCategory(f.ctx, "Taxi", nil)
	require.NoError(t, err)
	require.NoError(t, f.catalog.DeleteCategory(f.ctx, empty.Id))
	assertKind(t, f.catalog.DeleteCategory(f.ctx, empty.Id), errs.KindNotFound)
}

func TestBusinessRelationsFromJSON(t *testing.T) {
	f := newFixture(t)

	admin, err := f.admins.CreateAdmin(f.ctx, "awa@cityfood.ml", "motdepasse", strPtr("Awa Keita"), nil)
	require.NoError(t, err)

	business, err := f.catalog.CreateBusiness(f.ctx, models.BusinessInput{
		Name: "Pharmacie Koné", CategoryId: f.category.Id, AdminIds: []uuid.UUID{admin.Id},
	})
	require.NoError(t, err)
	assert.Equal(t, "pharmacie-koné", business.Business.Slug)
	assert.True(t, business.Business.IsOpen)
	assert.Equal(t, "Restaurant", business.Category.Name)
	require.Len(t, business.Admins, 1)
	assert.Equal(t, admin.Id, business.Admins[0].Id)
	assert.Empty(t, business.Admins[0].Password)

	_, err = f.catalog.CreateBusiness(f.ctx, models.BusinessInput{Name: "Pharmacie  Koné", CategoryId: f.category.Id})
	assertKind(t, err, errs.KindConflict)

	_, err = f.catalog.CreateBusiness(f.ctx, models.BusinessInput{Name: "Boutique Sidibé", CategoryId: uuid.New()})
	assertKind(t, err, errs.KindNotFound)

	// nil admin set keeps it, an empty one clears it
	closed := false
	kept, err := f.catalog.UpdateBusiness(f.ctx, business.Business.Id, models.BusinessInput{
		Name: "Pharmacie Koné", CategoryId: f.category.Id, IsOpen: &closed,
	})
	require.NoError(t, err)
	assert.False(t, kept.Business.IsOpen)
	assert.Len(t, kept.Admins, 1)

	cleared, err := f.catalog.UpdateBusiness(f.ctx, business.Business.Id, models.BusinessInput{
		Name: "Pharmacie Koné", CategoryId: f.category.Id, AdminIds: []uuid.UUID{},
	})
	require.NoError(t, err)
	assert.Empty(t, cleared.Admins)

	withMenu, err := f.catalog.GetBusiness(f.ctx, "chez-fanta", true)
	require.NoError(t, err)
	assert.Equal(t, f.business.Business.Id, withMenu.Business.Id)
	require.Len(t, withMenu.Sections, 1)
	assert.Equal(t, "Plat Principal", withMenu.Sections[0].Name)
	require.Len(t, withMenu.Sections[0].Items, 1)
	assert.Equal(t, int64(2000), withMenu.Sections[0].Items[0].Price)

	byId, err := f.catalog.GetBusiness(f.ctx, f.business.Business.Id.String(), false)
	require.NoError(t, err)
	assert.Empty(t, byId.Sections)

	_, err = f.catalog.GetBusiness(f.ctx, "inconnu", false)
	assertKind(t, err, errs.KindNotFound)
}

func TestDeleteBusinessCascadesUnlessOrdered(t *testing.T) {
	f := newFixture(t)

	other, err := f.catalog.CreateBusiness(f.ctx, models.BusinessInput{Name: "Maquis Diarra", CategoryId: f.category.Id})
	require.NoError(t, err)
	section, err := f.catalog.CreateMenuSection(f.ctx, "Dessert", other.Business.Id)
	require.NoError(t, err)
	_, err = f.catalog.CreateMenuItem(f.ctx, models.MenuItemInput{Name: "Dégué", Price: 500, MenuSectionId: section.Id})
	require.NoError(t, err)

	require.NoError(t, f.catalog.DeleteBusiness(f.ctx, other.Business.Id))

	sections, err := f.catalog.ListMenuSections(f.ctx)
	require.NoError(t, err)
	assert.Len(t, sections, 1)
	items, err := f.catalog.ListMenuItems(f.ctx, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	f.order(t, 1, time.Time{})
	assertKind(t, f.catalog.DeleteBusiness(f.ctx, f.business.Business.Id), errs.KindConflict)
}

func TestDeleteSectionRemovesItems(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.catalog.DeleteMenuSection(f.ctx, f.section.Id))

	items, err := f.catalog.ListMenuItems(f.ctx, &f.section.Id)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.catalog.CreateMenuItem(f.ctx, models.MenuItemInput{Name: "Fakoye", Price: 1000, MenuSectionId: f.section.Id})
	assertKind(t, err, errs.KindNotFound)
}

func TestMenuItemPriceBounds(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.InsertMenuItem(f.ctx, models.MenuItemInput{
		Name: "Fakoye", Price: models.MaxPrice + 1, MenuSectionId: f.section.Id,
	})
	assert.ErrorIs(t, err, repository.ErrInvalidValue)

	_, err = f.catalog.UpdateMenuItem(f.ctx, f.item.Id, models.MenuItemInput{
		Name: "Poulet Yassa", Price: models.MaxPrice + 1, MenuSectionId: f.section.Id,
	})
	assertKind(t, err, errs.KindValidation)
}

// CART

func TestCartMergeAndQuantityChecks(t *testing.T) {
	f := newFixture(t)

	cart, err := f.carts.GetCart(f.ctx, f.client.Id)
	require.NoError(t, err)
	assert.Nil(t, cart)

	first, err := f.carts.AddToCart(f.ctx, f.client.Id, f.item.Id, 2)
	require.NoError(t, err)
	second, err := f.carts.AddToCart(f.ctx, f.client.Id, f.item.Id, 3)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, 5, second.Quantity)

	cart, err = f.carts.GetCart(f.ctx, f.client.Id)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Poulet Yassa", cart.Items[0].MenuItem.Name)

	// the schema check rejects what the service lets through
	_, err = f.store.IncrementCartItem(f.ctx, first.Id, models.MaxQuantity)
	assert.ErrorIs(t, err, repository.ErrInvalidValue)
	_, err = f.store.SetCartItemQuantity(f.ctx, first.Id, 0)
	assert.ErrorIs(t, err, repository.ErrInvalidValue)

	_, err = f.carts.AddToCart(f.ctx, f.client.Id, f.item.Id, models.MaxQuantity)
	assertKind(t, err, errs.KindValidation)

	cart, err = f.carts.GetCart(f.ctx, f.client.Id)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	require.NoError(t, f.carts.RemoveCartItem(f.ctx, first.Id))
	assertKind(t, f.carts.RemoveCartItem(f.ctx, first.Id), errs.KindNotFound)
}

func TestAddToCartUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.carts.AddToCart(f.ctx, uuid.New(), f.item.Id, 1)
	assertKind(t, err, errs.KindNotFound)
}

// ORDERS

func TestOrderSnapshotSurvivesMenuChanges(t *testing.T) {
	f := newFixture(t)

	order := f.order(t, 2, time.Time{})
	assert.True(t, decimal.NewFromInt(4000).Equal(order.Order.Total), order.Order.Total.String())
	assert.Equal(t, "Chez Fanta", order.BusinessName)
	require.Len(t, order.Items, 1)

	_, err := f.catalog.UpdateMenuItem(f.ctx, f.item.Id, models.MenuItemInput{
		Name: "Poulet Yassa Royal", Price: 9999, MenuSectionId: f.section.Id,
	})
	require.NoError(t, err)

	stored, err := f.orders.GetOrder(f.ctx, order.Order.Id)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Poulet Yassa", stored.Items[0].Name)
	assert.Equal(t, int64(2000), stored.Items[0].Price)

	// deleting the dish keeps the line, without its reference
	require.NoError(t, f.catalog.DeleteMenuItem(f.ctx, f.item.Id))
	stored, err = f.orders.GetOrder(f.ctx, order.Order.Id)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Nil(t, stored.Items[0].MenuItemId)

	updated, err := f.orders.UpdateOrderStatus(f.ctx, order.Order.Id, models.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, updated.Status)
}

func TestCreateOrderReferencesAndLimits(t *testing.T) {
	f := newFixture(t)
	req := services.OrderRequest{
		UserId: f.client.Id, Phone: "+22370000000", AddressId: uuid.New(), BusinessId: f.business.Business.Id,
		Lines: []services.OrderLine{{MenuItemId: f.item.Id, Quantity: 1}},
	}

	_, err := f.orders.CreateOrder(f.ctx, req)
	assertKind(t, err, errs.KindNotFound)

	// numeric(12, 2) overflow is a validation error, not a 500
	_, err = f.store.InsertOrder(f.ctx, models.NewOrder{
		UserId: f.client.Id, Phone: "+22370000000", AddressId: f.address.Id, BusinessId: f.business.Business.Id,
		Status: models.OrderPending, Total: models.MaxOrderTotal.Add(decimal.NewFromInt(1)),
	})
	assert.ErrorIs(t, err, repository.ErrInvalidValue)

	orders, err := f.orders.ListOrders(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

// STATS

func TestDashboardStatsEmptyDatabase(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Truncate(f.ctx))

	stats, err := f.stats.GetDashboardStats(f.ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, stats.UserCount)
	assert.Zero(t, stats.OrderCount)
	assert.Empty(t, stats.OrdersByDay)
	assert.Empty(t, stats.OrdersByCategory)
	assert.Empty(t, stats.RecentOrders)
	assert.Zero(t, stats.RevenueStats.TotalRevenue)
	assert.Zero(t, stats.RevenueStats.AverageOrderValue)
}

func TestDashboardStatsGroupsByUtcDay(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.CreateCategory(f.ctx, "Taxi", nil)
	require.NoError(t, err)

	// 23:30 stays on 2025-03-12, 00:30 the next night does not
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	f.order(t, 1, day.Add(30*time.Minute))
	f.order(t, 2, day.Add(23*time.Hour+30*time.Minute))
	f.order(t, 1, day.Add(24*time.Hour+30*time.Minute))
	f.order(t, 1, day.AddDate(0, 0, -20))

	stats, err := f.stats.GetDashboardStats(f.ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.UserCount)
	assert.Equal(t, 1, stats.BusinessCount)
	assert.Equal(t, 2, stats.CategoryCount)
	assert.Equal(t, 4, stats.OrderCount)

	assert.Equal(t, []models.DayCountDTO{
		{Date: "2025-02-20", Label: "Jeu", Count: 1},
		{Date: "2025-03-12", Label: "Mer", Count: 2},
		{Date: "2025-03-13", Label: "Jeu", Count: 1},
	}, stats.OrdersByDay)

	assert.Equal(t, []models.CategoryCountDTO{{Name: "Restaurant", Total: 4}, {Name: "Taxi", Total: 0}}, stats.OrdersByCategory)

	// 2000 + 4000 + 2000 + 2000
	assert.Equal(t, 10000.0, stats.RevenueStats.TotalRevenue)
	assert.Equal(t, 2500.0, stats.RevenueStats.AverageOrderValue)

	require.Len(t, stats.RecentOrders, 4)
	assert.Equal(t, "Chez Fanta", stats.RecentOrders[0].Business.Name)
}

// ADMINS

func TestAdminLifecycle(t *testing.T) {
	f := newFixture(t)

	admin, err := f.admins.CreateAdmin(f.ctx, " Awa@CityFood.ml ", "motdepasse", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "awa@cityfood.ml", admin.Email)

	_, err = f.admins.CreateAdmin(f.ctx, "awa@cityfood.ml", "autre", nil, nil)
	assertKind(t, err, errs.KindConflict)

	logged, err := f.admins.Authenticate(f.ctx, "AWA@cityfood.ml", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, admin.Id, logged.Id)

	_, err = f.admins.Authenticate(f.ctx, "client1@cityfood.ml", "unused")
	assertKind(t, err, errs.KindUnauthorized)

	updated, err := f.admins.UpdateAdmin(f.ctx, admin.Id, nil, strPtr("+22376000000"))
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+22376000000", *updated.Phone)

	_, err = f.admins.UpdateAdmin(f.ctx, f.client.Id, strPtr("Client"), nil)
	assertKind(t, err, errs.KindNotFound)

	require.NoError(t, f.admins.DeleteAdmin(f.ctx, admin.Id))
	assertKind(t, f.admins.DeleteAdmin(f.ctx, admin.Id), errs.KindNotFound)
}

func TestDeleteAdminRestrictedByOrdersOnItsAddresses(t *testing.T) {
	f := newFixture(t)

	admin, err := f.admins.CreateAdmin(f.ctx, "moussa@cityfood.ml", "motdepasse", nil, nil)
	require.NoError(t, err)
	address, err := f.store.InsertAddress(f.ctx, models.NewAddress{
		Street: "Avenue de l'Indépendance", City: "Bamako", ZipCode: "1000", Country: "Mali", UserId: admin.Id,
	})
	require.NoError(t, err)

	// the client orders to the admin's address
	_, err = f.orders.CreateOrder(f.ctx, services.OrderRequest{
		UserId: f.client.Id, Phone: "+22370000000", AddressId: address.Id, BusinessId: f.business.Business.Id,
		Lines: []services.OrderLine{{MenuItemId: f.item.Id, Quantity: 1}},
	})
	require.NoError(t, err)

	assertKind(t, f.admins.DeleteAdmin(f.ctx, admin.Id), errs.KindConflict)

	admins, err := f.admins.ListAdmins(f.ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestSeedAgainstPostgres(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Truncate(f.ctx))

	seeder := services.NewSeeder(f.store, testParams)
	require.NoError(t, seeder.Seed(f.ctx))
	require.NoError(t, seeder.Seed(f.ctx))

	stats, err := f.stats.GetDashboardStats(f.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, stats.UserCount)
	assert.Equal(t, 18, stats.BusinessCount)
	assert.Equal(t, 6, stats.CategoryCount)
	assert.Equal(t, 40, stats.OrderCount)
}
