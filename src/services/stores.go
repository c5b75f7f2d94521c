package services

import (
	"context"

	"cityfood/src/models"

	"github.com/google/uuid"
)

// Store interfaces are implemented by repository.Store (postgres) and
// memstore.Store. Both report failures with the repository.Err* sentinels.

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategorySlugExists(ctx context.Context, slug string, exceptId *uuid.UUID) (bool, error)
	InsertCategory(ctx context.Context, name string, slug string, imageUrl *string) (models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string, slug string, imageUrl *string) (models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type BusinessStore interface {
	ListBusinesses(ctx context.Context) ([]models.BusinessWithRelations, error)
	FindBusiness(ctx context.Context, idOrSlug string, includeSections bool) (models.BusinessWithRelations, error)
	BusinessSlugExists(ctx context.Context, slug string, exceptId *uuid.UUID) (bool, error)
	InsertBusiness(ctx context.Context, in models.BusinessInput) (models.BusinessWithRelations, error)
	UpdateBusiness(ctx context.Context, id uuid.UUID, in models.BusinessInput) (models.BusinessWithRelations, error)
	DeleteBusiness(ctx context.Context, id uuid.UUID) error
}

type MenuStore interface {
	ListMenuSections(ctx context.Context) ([]models.MenuSectionWithRelations, error)
	InsertMenuSection(ctx context.Context, name string, businessId uuid.UUID) (models.MenuSection, error)
	UpdateMenuSection(ctx context.Context, id uuid.UUID, name string, businessId uuid.UUID) (models.MenuSection, error)
	DeleteMenuSection(ctx context.Context, id uuid.UUID) error

	ListMenuItems(ctx context.Context, sectionId *uuid.UUID) ([]models.MenuItemWithSection, error)
	FindMenuItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error)
	FindMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
	InsertMenuItem(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, in models.MenuItemInput) (models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}

type CartStore interface {
	FindCart(ctx context.Context, userId uuid.UUID) (models.CartWithItems, error)
	FindCartId(ctx context.Context, userId uuid.UUID) (uuid.UUID, error)
	InsertCart(ctx context.Context, userId uuid.UUID) (models.Cart, error)
	FindCartItemByMenuItem(ctx context.Context, cartId uuid.UUID, menuItemId uuid.UUID) (models.CartItem, error)
	InsertCartItem(ctx context.Context, cartId uuid.UUID, menuItemId uuid.UUID, quantity int) (models.CartItem, error)
	IncrementCartItem(ctx context.Context, id uuid.UUID, by int) (models.CartItem, error)
	SetCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (models.CartItem, error)
	DeleteCartItem(ctx context.Context, id uuid.UUID) error
}

type OrderStore interface {
	ListOrders(ctx context.Context) ([]models.OrderWithBusiness, error)
	RecentOrders(ctx context.Context, limit int) ([]models.OrderWithBusiness, error)
	FindOrder(ctx context.Context, id uuid.UUID) (models.OrderWithItems, error)
	InsertOrder(ctx context.Context, in models.NewOrder) (models.OrderWithItems, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, error)
}

type StatsStore interface {
	CountEntities(ctx context.Context) (models.EntityCounts, error)
	OrdersByDay(ctx context.Context) ([]models.DayCount, error)
	OrdersByCategory(ctx context.Context) ([]models.CategoryCount, error)
	RecentOrders(ctx context.Context, limit int) ([]models.OrderWithBusiness, error)
	RevenueTotals(ctx context.Context) (models.Revenue, error)
}

type UserStore interface {
	ListAdmins(ctx context.Context) ([]models.User, error)
	FindUserById(ctx context.Context, id uuid.UUID) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	InsertUser(ctx context.Context, in models.NewUser) (models.User, error)
	UpdateAdminContact(ctx context.Context, id uuid.UUID, name *string, phone *string) (models.User, error)
	DeleteAdmin(ctx context.Context, id uuid.UUID) error
	InsertAddress(ctx context.Context, in models.NewAddress) (models.Address, error)
}

// Store is everything main hands to the services.
type Store interface {
	CategoryStore
	BusinessStore
	MenuStore
	CartStore
	OrderStore
	StatsStore
	UserStore
	Close()
}
