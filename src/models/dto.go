package models

import (
	"time"

	"github.com/google/uuid"
)

// Requests
// Every catalog write accepts JSON or a multipart form (the dashboard sends
// FormData with an optional `file`), hence both json and form tags.

// CATEGORIES
type CreateCategoryDTO struct {
	Name     string  `json:"name" form:"name" binding:"required,min=2,max=64"`
	ImageUrl *string `json:"imageUrl" form:"imageUrl" binding:"omitempty,max=1024"`
}

type UpdateCategoryDTO struct {
	Id       string  `json:"id" form:"id" binding:"required,uuid"`
	Name     string  `json:"name" form:"name" binding:"required,min=2,max=64"`
	ImageUrl *string `json:"imageUrl" form:"imageUrl" binding:"omitempty,max=1024"`
}

// shared by every DELETE {id} endpoint
type DeleteDTO struct {
	Id string `json:"id" binding:"required,uuid"`
}

// BUSINESSES
type CreateBusinessDTO struct {
	Name        string   `json:"name" form:"name" binding:"required,min=2,max=128"`
	CategoryId  string   `json:"categoryId" form:"categoryId" binding:"required,uuid"`
	Description *string  `json:"description" form:"description" binding:"omitempty,max=2048"`
	ImageUrl    *string  `json:"imageUrl" form:"imageUrl" binding:"omitempty,max=1024"`
	AdminIds    []string `json:"adminIds" form:"adminIds" binding:"omitempty,dive,uuid"`
}

type UpdateBusinessDTO struct {
	Id          string   `json:"id" form:"id" binding:"required,uuid"`
	Name        string   `json:"name" form:"name" binding:"required,min=2,max=128"`
	CategoryId  string   `json:"categoryId" form:"categoryId" binding:"required,uuid"`
	Description *string  `json:"description" form:"description" binding:"omitempty,max=2048"`
	ImageUrl    *string  `json:"imageUrl" form:"imageUrl" binding:"omitempty,max=1024"`
	IsOpen      *bool    `json:"isOpen" form:"isOpen"`
	AdminIds    []string `json:"adminIds" form:"adminIds" binding:"omitempty,dive,uuid"`
}

// MENU
type CreateMenuSectionDTO struct {
	Name       string `json:"name" binding:"required,min=1,max=64"`
	BusinessId string `json:"businessId" binding:"required,uuid"`
}

type UpdateMenuSectionDTO struct {
	Id         string `json:"id" binding:"required,uuid"`
	Name       string `json:"name" binding:"required,min=1,max=64"`
	BusinessId string `json:"businessId" binding:"required,uuid"`
}

type CreateMenuItemDTO struct {
	Name          string  `json:"name" form:"name" binding:"required,min=1,max=128"`
	Price         int64   `json:"price" form:"price" binding:"required,gt=0,max=100000000"`
	MenuSectionId string  `json:"menuSectionId" form:"menuSectionId" binding:"required,uuid"`
	Description   *string `json:"description" form:"description" binding:"omitempty,max=2048"`
	Type          *string `json:"type" form:"type" binding:"omitempty,max=32"`
	ImageUrl      *string `json:"imageUrl" form:"imageUrl" binding:"omitempty,max=1024"`
	IsAvailable   *bool   `json:"isAvailable" form:"isAvailable"`
}

type UpdateMenuItemDTO struct {
	Id string `json:"id" form:"id" binding:"required,uuid"`
	CreateMenuItemDTO
}

type MenuItemsQuery struct {
	MenuSectionId string `form:"menuSectionId" binding:"omitempty,uuid"`
}

// CART
type CartQuery struct {
	UserId string `form:"userId" binding:"required,uuid"`
}

type AddToCartDTO struct {
	UserId     string `json:"userId" binding:"required,uuid"`
	MenuItemId string `json:"menuItemId" binding:"required,uuid"`
	Quantity   *int   `json:"quantity" binding:"omitempty,max=10000"`
}

type SetCartQuantityDTO struct {
	CartItemId string `json:"cartItemId" binding:"required,uuid"`
	// pointer so that 0 reaches the service and is rejected there
	Quantity *int `json:"quantity" binding:"required,max=10000"`
}

type RemoveCartItemDTO struct {
	CartItemId string `json:"cartItemId" binding:"required,uuid"`
}

// ADMINS & AUTH
type CreateAdminDTO struct {
	Email    string  `json:"email" binding:"required,email,max=254"`
	Password string  `json:"password" binding:"required,min=6,max=512"`
	Name     *string `json:"name" binding:"omitempty,max=64"`
	Phone    *string `json:"phone" binding:"omitempty,phone"`
}

type UpdateAdminDTO struct {
	Id    string  `json:"id" binding:"required,uuid"`
	Name  *string `json:"name" binding:"omitempty,max=64"`
	Phone *string `json:"phone" binding:"omitempty,phone"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ORDERS
type OrderLineDTO struct {
	MenuItemId string `json:"menuItemId" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"required,min=1,max=10000"`
}

type CreateOrderDTO struct {
	UserId     string         `json:"userId" binding:"required,uuid"`
	Phone      string         `json:"phone" binding:"required,phone"`
	AddressId  string         `json:"addressId" binding:"required,uuid"`
	BusinessId string         `json:"businessId" binding:"required,uuid"`
	Status     *string        `json:"status"`
	Items      []OrderLineDTO `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusDTO struct {
	Id     string `json:"id" binding:"required,uuid"`
	Status string `json:"status" binding:"required"`
}

type StatsQuery struct {
	Period int `form:"period" binding:"omitempty,oneof=7 30"`
}

// Responses
type CategoryDTO struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ImageUrl  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Category) ToDTO() CategoryDTO {
	return CategoryDTO{
		Id:        c.Id,
		Name:      c.Name,
		Slug:      c.Slug,
		ImageUrl:  c.ImageUrl,
		CreatedAt: c.CreatedAt,
	}
}

func CategoriesToDTOs(categories []Category) []CategoryDTO {
	dtos := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = c.ToDTO()
	}
	return dtos
}

// password never leaves the repository layer
type UserDTO struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Phone     *string   `json:"phone"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) ToDTO() UserDTO {
	return UserDTO{
		Id:        u.Id,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func UsersToDTOs(users []User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = u.ToDTO()
	}
	return dtos
}

type BusinessDTO struct {
	Id           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	Description  *string           `json:"description"`
	ImageUrl     *string           `json:"imageUrl"`
	CategoryId   uuid.UUID         `json:"categoryId"`
	IsOpen       bool              `json:"isOpen"`
	CreatedAt    time.Time         `json:"createdAt"`
	Category     *CategoryDTO      `json:"category,omitempty"`
	Admins       []UserDTO         `json:"admins"`
	MenuSections *[]MenuSectionDTO `json:"menuSections,omitempty"`
}

func (b Business) ToDTO() BusinessDTO {
	return BusinessDTO{
		Id:          b.Id,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		ImageUrl:    b.ImageUrl,
		CategoryId:  b.CategoryId,
		IsOpen:      b.IsOpen,
		CreatedAt:   b.CreatedAt,
	}
}

func (b BusinessWithRelations) ToDTO() BusinessDTO {
	dto := b.Business.ToDTO()
	category := b.Category.ToDTO()
	dto.Category = &category
	dto.Admins = UsersToDTOs(b.Admins)

	if b.Sections != nil {
		sections := make([]MenuSectionDTO, len(b.Sections))
		for i, s := range b.Sections {
			section := s.MenuSection.ToDTO()
			section.MenuItems = MenuItemsToDTOs(s.Items)
			sections[i] = section
		}
		dto.MenuSections = &sections
	}

	return dto
}

func BusinessesToDTOs(businesses []BusinessWithRelations) []BusinessDTO {
	dtos := make([]BusinessDTO, len(businesses))
	for i, b := range businesses {
		dtos[i] = b.ToDTO()
	}
	return dtos
}

type MenuSectionDTO struct {
	Id         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	BusinessId uuid.UUID     `json:"businessId"`
	CreatedAt  time.Time     `json:"createdAt"`
	Business   *BusinessDTO  `json:"business,omitempty"`
	MenuItems  []MenuItemDTO `json:"menuItems"`
}

func (s MenuSection) ToDTO() MenuSectionDTO {
	return MenuSectionDTO{
		Id:         s.Id,
		Name:       s.Name,
		BusinessId: s.BusinessId,
		CreatedAt:  s.CreatedAt,
	}
}

func (s MenuSectionWithRelations) ToDTO() MenuSectionDTO {
	dto := s.Section.ToDTO()
	business := s.Business.ToDTO()
	dto.Business = &business
	dto.MenuItems = MenuItemsToDTOs(s.Items)
	return dto
}

func MenuSectionsToDTOs(sections []MenuSectionWithRelations) []MenuSectionDTO {
	dtos := make([]MenuSectionDTO, len(sections))
	for i, s := range sections {
		dtos[i] = s.ToDTO()
	}
	return dtos
}

type SectionNameDTO struct {
	Name string `json:"name"`
}

type MenuItemDTO struct {
	Id            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Price         int64           `json:"price"`
	Type          *string         `json:"type"`
	ImageUrl      *string         `json:"imageUrl"`
	IsAvailable   bool            `json:"isAvailable"`
	MenuSectionId uuid.UUID       `json:"menuSectionId"`
	CreatedAt     time.Time       `json:"createdAt"`
	Section       *SectionNameDTO `json:"section,omitempty"`
}

func (m MenuItem) ToDTO() MenuItemDTO {
	return MenuItemDTO{
		Id:            m.Id,
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		Type:          m.Type,
		ImageUrl:      m.ImageUrl,
		IsAvailable:   m.IsAvailable,
		MenuSectionId: m.MenuSectionId,
		CreatedAt:     m.CreatedAt,
	}
}

func (m MenuItemWithSection) ToDTO() MenuItemDTO {
	dto := m.Item.ToDTO()
	dto.Section = &SectionNameDTO{Name: m.SectionName}
	return dto
}

func MenuItemsToDTOs(items []MenuItem) []MenuItemDTO {
	dtos := make([]MenuItemDTO, len(items))
	for i, m := range items {
		dtos[i] = m.ToDTO()
	}
	return dtos
}

func MenuItemsWithSectionToDTOs(items []MenuItemWithSection) []MenuItemDTO {
	dtos := make([]MenuItemDTO, len(items))
	for i, m := range items {
		dtos[i] = m.ToDTO()
	}
	return dtos
}

type CartItemDTO struct {
	Id         uuid.UUID    `json:"id"`
	CartId     uuid.UUID    `json:"cartId"`
	MenuItemId uuid.UUID    `json:"menuItemId"`
	Quantity   int          `json:"quantity"`
	MenuItem   *MenuItemDTO `json:"menuItem,omitempty"`
}

func (ci CartItem) ToDTO() CartItemDTO {
	return CartItemDTO{
		Id:         ci.Id,
		CartId:     ci.CartId,
		MenuItemId: ci.MenuItemId,
		Quantity:   ci.Quantity,
	}
}

type CartDTO struct {
	Id        uuid.UUID     `json:"id"`
	UserId    uuid.UUID     `json:"userId"`
	CreatedAt time.Time     `json:"createdAt"`
	CartItems []CartItemDTO `json:"cartItems"`
}

func (c CartWithItems) ToDTO() CartDTO {
	items := make([]CartItemDTO, len(c.Items))
	for i, item := range c.Items {
		dto := item.CartItem.ToDTO()
		menuItem := item.MenuItem.ToDTO()
		dto.MenuItem = &menuItem
		items[i] = dto
	}

	return CartDTO{
		Id:        c.Cart.Id,
		UserId:    c.Cart.UserId,
		CreatedAt: c.Cart.CreatedAt,
		CartItems: items,
	}
}

type OrderItemDTO struct {
	Id         uuid.UUID  `json:"id"`
	OrderId    uuid.UUID  `json:"orderId"`
	MenuItemId *uuid.UUID `json:"menuItemId"`
	Name       string     `json:"name"`
	Price      int64      `json:"price"`
	Quantity   int        `json:"quantity"`
}

func (oi OrderItem) ToDTO() OrderItemDTO {
	return OrderItemDTO(oi)
}

type BusinessNameDTO struct {
	Name string `json:"name"`
}

type OrderDTO struct {
	Id         uuid.UUID        `json:"id"`
	UserId     uuid.UUID        `json:"userId"`
	Phone      string           `json:"phone"`
	AddressId  uuid.UUID        `json:"addressId"`
	BusinessId uuid.UUID        `json:"businessId"`
	Total      float64          `json:"total"`
	Status     OrderStatus      `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	Business   *BusinessNameDTO `json:"business,omitempty"`
	OrderItems []OrderItemDTO   `json:"orderItems,omitempty"`
}

func (o Order) ToDTO() OrderDTO {
	return OrderDTO{
		Id:         o.Id,
		UserId:     o.UserId,
		Phone:      o.Phone,
		AddressId:  o.AddressId,
		BusinessId: o.BusinessId,
		Total:      o.Total.InexactFloat64(),
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
}

func (o OrderWithBusiness) ToDTO() OrderDTO {
	dto := o.Order.ToDTO()
	dto.Business = &BusinessNameDTO{Name: o.BusinessName}
	return dto
}

func (o OrderWithItems) ToDTO() OrderDTO {
	dto := o.Order.ToDTO()
	dto.Business = &BusinessNameDTO{Name: o.BusinessName}
	dto.OrderItems = make([]OrderItemDTO, len(o.Items))
	for i, item := range o.Items {
		dto.OrderItems[i] = item.ToDTO()
	}
	return dto
}

func OrdersToDTOs(orders []OrderWithBusiness) []OrderDTO {
	dtos := make([]OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = o.ToDTO()
	}
	return dtos
}

// Dashboard
type DayCountDTO struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type CategoryCountDTO struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

type RevenueStatsDTO struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

type DashboardStatsDTO struct {
	UserCount        int                `json:"userCount"`
	BusinessCount    int                `json:"businessCount"`
	CategoryCount    int                `json:"categoryCount"`
	OrderCount       int                `json:"orderCount"`
	OrdersByDay      []DayCountDTO      `json:"ordersByDay"`
	OrdersByCategory []CategoryCountDTO `json:"ordersByCategory"`
	RecentOrders     []OrderDTO         `json:"recentOrders"`
	RevenueStats     RevenueStatsDTO    `json:"revenueStats"`
}
