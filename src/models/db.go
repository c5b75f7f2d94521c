package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Limits enforced by request binding, the services and the schema checks.
// Keep them in sync with schema.sql.
const (
	MaxQuantity = 10_000
	MaxPrice    = 100_000_000
)

// MaxOrderTotal is the largest value orders.total numeric(12, 2) holds.
var MaxOrderTotal = decimal.RequireFromString("9999999999.99")

// some fields contain json struct tag
// because we're querying them as JSONB (to_jsonb / jsonb_agg)

type Category struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ImageUrl  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Name      *string   `json:"name"`
	Phone     *string   `json:"phone"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type Address struct {
	Id      uuid.UUID `json:"id"`
	Street  string    `json:"street"`
	City    string    `json:"city"`
	ZipCode string    `json:"zip_code"`
	Country string    `json:"country"`
	UserId  uuid.UUID `json:"user_id"`
}

type Business struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	ImageUrl    *string   `json:"image_url"`
	CategoryId  uuid.UUID `json:"category_id"`
	IsOpen      bool      `json:"is_open"`
	CreatedAt   time.Time `json:"created_at"`
}

type BusinessWithRelations struct {
	Business Business
	Category Category
	Admins   []User
	Sections []MenuSectionWithItems
}

type MenuSection struct {
	Id         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	BusinessId uuid.UUID `json:"business_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type MenuSectionWithItems struct {
	MenuSection
	Items []MenuItem `json:"items"`
}

type MenuSectionWithRelations struct {
	Section  MenuSection
	Business Business
	Items    []MenuItem
}

type MenuItem struct {
	Id            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Price         int64     `json:"price"`
	Type          *string   `json:"type"`
	ImageUrl      *string   `json:"image_url"`
	IsAvailable   bool      `json:"is_available"`
	MenuSectionId uuid.UUID `json:"menu_section_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type MenuItemWithSection struct {
	Item        MenuItem
	SectionName string
}

type Cart struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	Id         uuid.UUID `json:"id"`
	CartId     uuid.UUID `json:"cart_id"`
	MenuItemId uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
}

type CartItemWithMenuItem struct {
	CartItem
	MenuItem MenuItem `json:"menu_item"`
}

type CartWithItems struct {
	Cart  Cart
	Items []CartItemWithMenuItem
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderDelivered, OrderCancelled}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Order struct {
	Id         uuid.UUID       `json:"id"`
	UserId     uuid.UUID       `json:"user_id"`
	Phone      string          `json:"phone"`
	AddressId  uuid.UUID       `json:"address_id"`
	BusinessId uuid.UUID       `json:"business_id"`
	Total      decimal.Decimal `json:"total"`
	Status     OrderStatus     `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

type OrderItem struct {
	Id         uuid.UUID  `json:"id"`
	OrderId    uuid.UUID  `json:"order_id"`
	MenuItemId *uuid.UUID `json:"menu_item_id"`
	Name       string     `json:"name"`
	Price      int64      `json:"price"`
	Quantity   int        `json:"quantity"`
}

type OrderWithBusiness struct {
	Order        Order
	BusinessName string
}

type OrderWithItems struct {
	Order        Order
	BusinessName string
	Items        []OrderItem
}

// Store inputs

type BusinessInput struct {
	Name        string
	Slug        string
	Description *string
	ImageUrl    *string
	CategoryId  uuid.UUID
	IsOpen      *bool
	// nil keeps the current admin set, non-nil replaces it entirely
	AdminIds []uuid.UUID
}

type MenuItemInput struct {
	Name          string
	Description   *string
	Price         int64
	Type          *string
	ImageUrl      *string
	IsAvailable   *bool
	MenuSectionId uuid.UUID
}

type NewAddress struct {
	Street  string
	City    string
	ZipCode string
	Country string
	UserId  uuid.UUID
}

type NewUser struct {
	Email    string
	Password string
	Name     *string
	Phone    *string
	IsAdmin  bool
}

type NewOrderItem struct {
	MenuItemId *uuid.UUID
	Name       string
	Price      int64
	Quantity   int
}

type NewOrder struct {
	UserId     uuid.UUID
	Phone      string
	AddressId  uuid.UUID
	BusinessId uuid.UUID
	Status     OrderStatus
	Total      decimal.Decimal
	Items      []NewOrderItem
	// nil means now, set by the seed to spread orders over past days
	CreatedAt  *time.Time
}

// Aggregates

type EntityCounts struct {
	UserCount     int
	BusinessCount int
	CategoryCount int
	OrderCount    int
}

type DayCount struct {
	Day   time.Time
	Count int
}

type CategoryCount struct {
	Name  string
	Total int
}

type Revenue struct {
	Total decimal.Decimal
	Count int
}
