package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"cityfood/src/models"
	"cityfood/src/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ORDERS

func (s *Store) sortedOrders() []models.Order {
	rows := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		rows = append(rows, o)
	}
	return newestFirst(rows, func(o models.Order) time.Time { return o.CreatedAt }, func(o models.Order) uuid.UUID { return o.Id })
}

func (s *Store) withBusiness(rows []models.Order) []models.OrderWithBusiness {
	res := make([]models.OrderWithBusiness, len(rows))
	for i, o := range rows {
		res[i] = models.OrderWithBusiness{Order: o, BusinessName: s.businesses[o.BusinessId].Name}
	}
	return res
}

func (s *Store) ListOrders(ctx context.Context) ([]models.OrderWithBusiness, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.withBusiness(s.sortedOrders()), nil
}

func (s *Store) RecentOrders(ctx context.Context, limit int) ([]models.OrderWithBusiness, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.sortedOrders()
	return s.withBusiness(rows[:min(limit, len(rows))]), nil
}

func (s *Store) FindOrder(ctx context.Context, id uuid.UUID) (models.OrderWithItems, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findOrder(id)
}

func (s *Store) findOrder(id uuid.UUID) (models.OrderWithItems, error) {
	o, ok := s.orders[id]
	if !ok {
		return models.OrderWithItems{}, repository.ErrNotFound
	}

	res := models.OrderWithItems{
		Order:        o,
		BusinessName: s.businesses[o.BusinessId].Name,
		Items:        []models.OrderItem{},
	}
	for _, oi := range s.orderItems {
		if oi.OrderId == id {
			res.Items = append(res.Items, oi)
		}
	}
	slices.SortFunc(res.Items, func(a, b models.OrderItem) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Id.String(), b.Id.String())
	})

	return res, nil
}

// InsertOrder validates everything before writing, so a failed insert
// leaves nothing behind, like the postgres transaction.
func (s *Store) InsertOrder(ctx context.Context, in models.NewOrder) (models.OrderWithItems, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[in.UserId]; !ok {
		return models.OrderWithItems{}, repository.ErrMissingReference
	}
	if _, ok := s.addresses[in.AddressId]; !ok {
		return models.OrderWithItems{}, repository.ErrMissingReference
	}
	if _, ok := s.businesses[in.BusinessId]; !ok {
		return models.OrderWithItems{}, repository.ErrMissingReference
	}
	if !in.Status.Valid() || in.Total.Round(2).GreaterThan(models.MaxOrderTotal) {
		return models.OrderWithItems{}, repository.ErrInvalidValue
	}
	for _, item := range in.Items {
		if !validQuantity(item.Quantity) {
			return models.OrderWithItems{}, repository.ErrInvalidValue
		}
		if item.MenuItemId != nil {
			if _, ok := s.items[*item.MenuItemId]; !ok {
				return models.OrderWithItems{}, repository.ErrMissingReference
			}
		}
	}

	createdAt := s.now()
	if in.CreatedAt != nil {
		createdAt = in.CreatedAt.UTC()
	}

	o := models.Order{
		Id:         uuid.New(),
		UserId:     in.UserId,
		Phone:      in.Phone,
		AddressId:  in.AddressId,
		BusinessId: in.BusinessId,
		Total:      in.Total.Round(2),
		Status:     in.Status,
		CreatedAt:  createdAt,
	}
	s.orders[o.Id] = o

	for _, item := range in.Items {
		oi := models.OrderItem{
			Id:         uuid.New(),
			OrderId:    o.Id,
			MenuItemId: item.MenuItemId,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
		}
		s.orderItems[oi.Id] = oi
	}

	return s.findOrder(o.Id)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, repository.ErrNotFound
	}
	if !status.Valid() {
		return models.Order{}, repository.ErrInvalidValue
	}

	o.Status = status
	s.orders[id] = o
	return o, nil
}

// STATS

func (s *Store) CountEntities(ctx context.Context) (models.EntityCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.EntityCounts{
		UserCount:     len(s.users),
		BusinessCount: len(s.businesses),
		CategoryCount: len(s.categories),
		OrderCount:    len(s.orders),
	}, nil
}

func (s *Store) OrdersByDay(ctx context.Context) ([]models.DayCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[time.Time]int{}
	for _, o := range s.orders {
		day := o.CreatedAt.UTC().Truncate(24 * time.Hour)
		counts[day]++
	}

	res := make([]models.DayCount, 0, len(counts))
	for day, count := range counts {
		res = append(res, models.DayCount{Day: day, Count: count})
	}
	slices.SortFunc(res, func(a, b models.DayCount) int { return a.Day.Compare(b.Day) })
	return res, nil
}

func (s *Store) OrdersByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perBusiness := map[uuid.UUID]int{}
	for _, o := range s.orders {
		perBusiness[o.BusinessId]++
	}

	res := make([]models.CategoryCount, 0, len(s.categories))
	for _, c := range s.categories {
		total := 0
		for _, b := range s.businesses {
			if b.CategoryId == c.Id {
				total += perBusiness[b.Id]
			}
		}
		res = append(res, models.CategoryCount{Name: c.Name, Total: total})
	}
	slices.SortFunc(res, func(a, b models.CategoryCount) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return res, nil
}

func (s *Store) RevenueTotals(ctx context.Context) (models.Revenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, o := range s.orders {
		total = total.Add(o.Total)
	}
	return models.Revenue{Total: total, Count: len(s.orders)}, nil
}
