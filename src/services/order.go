package services

import (
	"context"
	"fmt"
	"time"

	"cityfood/src/errs"
	"cityfood/src/models"
	"cityfood/src/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderLine struct {
	MenuItemId uuid.UUID
	Quantity   int
}

type OrderRequest struct {
	UserId     uuid.UUID
	Phone      string
	AddressId  uuid.UUID
	BusinessId uuid.UUID
	// empty means PENDING
	Status models.OrderStatus
	Lines  []OrderLine
	// zero means now
	CreatedAt time.Time
}

type OrderService struct {
	orders OrderStore
	menu   MenuStore
}

func NewOrderService(orders OrderStore, menu MenuStore) *OrderService {
	return &OrderService{orders: orders, menu: menu}
}

func unknownStatus(status models.OrderStatus) error {
	return errs.Validation(fmt.Sprintf("Unknown order status %q, expected one of %v", status, models.OrderStatuses))
}

// CreateOrder snapshots name and price of every menu item at call time and
// totals them. Availability is not checked.
func (s *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (models.OrderWithItems, error) {
	if len(req.Lines) == 0 {
		return models.OrderWithItems{}, emptyOrder
	}

	status := req.Status
	if status == "" {
		status = models.OrderPending
	}
	if !status.Valid() {
		return models.OrderWithItems{}, unknownStatus(status)
	}

	ids := make([]uuid.UUID, len(req.Lines))
	for i, line := range req.Lines {
		if !validQuantity(line.Quantity) {
			return models.OrderWithItems{}, invalidQuantity
		}
		ids[i] = line.MenuItemId
	}

	found, err := s.menu.FindMenuItems(ctx, ids)
	if err != nil {
		return models.OrderWithItems{}, fromStore(err, nil)
	}
	menuItems := make(map[uuid.UUID]models.MenuItem, len(found))
	for _, item := range found {
		menuItems[item.Id] = item
	}

	total := decimal.Zero
	items := make([]models.NewOrderItem, len(req.Lines))
	for i, line := range req.Lines {
		menuItem, ok := menuItems[line.MenuItemId]
		if !ok {
			return models.OrderWithItems{}, errs.NotFound(fmt.Sprintf("Menu item %s not found", line.MenuItemId))
		}

		items[i] = models.NewOrderItem{
			MenuItemId: &menuItem.Id,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   line.Quantity,
		}
		total = total.Add(decimal.NewFromInt(menuItem.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if total.GreaterThan(models.MaxOrderTotal) {
		return models.OrderWithItems{}, orderTooLarge
	}

	in := models.NewOrder{
		UserId:     req.UserId,
		Phone:      req.Phone,
		AddressId:  req.AddressId,
		BusinessId: req.BusinessId,
		Status:     status,
		Total:      total,
		Items:      items,
	}
	if !req.CreatedAt.IsZero() {
		in.CreatedAt = &req.CreatedAt
	}

	order, err := s.orders.InsertOrder(ctx, in)
	if err != nil {
		return models.OrderWithItems{}, fromStore(err, outcome{
			repository.ErrMissingReference: orderRefsMissing,
			repository.ErrInvalidValue:     orderTooLarge,
		})
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.OrderWithBusiness, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (models.OrderWithItems, error) {
	order, err := s.orders.FindOrder(ctx, id)
	if err != nil {
		return models.OrderWithItems{}, fromStore(err, outcome{repository.ErrNotFound: orderNotFound})
	}
	return order, nil
}

// UpdateOrderStatus accepts any known status from any current status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, unknownStatus(status)
	}

	order, err := s.orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return models.Order{}, fromStore(err, outcome{repository.ErrNotFound: orderNotFound})
	}
	return order, nil
}
