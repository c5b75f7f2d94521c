package memstore

import (
	"cmp"
	"context"
	"slices"

	"cityfood/src/models"
	"cityfood/src/repository"

	"github.com/google/uuid"
)

// mirrors CHECK (quantity BETWEEN 1 AND 10000)
func validQuantity(quantity int) bool {
	return quantity >= 1 && quantity <= models.MaxQuantity
}

func (s *Store) cartOf(userId uuid.UUID) (models.Cart, bool) {
	for _, c := range s.carts {
		if c.UserId == userId {
			return c, true
		}
	}
	return models.Cart{}, false
}

func (s *Store) FindCart(ctx context.Context, userId uuid.UUID) (models.CartWithItems, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.cartOf(userId)
	if !ok {
		return models.CartWithItems{}, repository.ErrNotFound
	}

	res := models.CartWithItems{Cart: cart, Items: []models.CartItemWithMenuItem{}}
	for _, ci := range s.cartItems {
		if ci.CartId == cart.Id {
			res.Items = append(res.Items, models.CartItemWithMenuItem{
				CartItem: ci,
				MenuItem: s.items[ci.MenuItemId],
			})
		}
	}
	slices.SortFunc(res.Items, func(a, b models.CartItemWithMenuItem) int {
		if c := cmp.Compare(a.MenuItem.Name, b.MenuItem.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Id.String(), b.Id.String())
	})

	return res, nil
}

func (s *Store) FindCartId(ctx context.Context, userId uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.cartOf(userId)
	if !ok {
		return uuid.Nil, repository.ErrNotFound
	}
	return cart.Id, nil
}

func (s *Store) InsertCart(ctx context.Context, userId uuid.UUID) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userId]; !ok {
		return models.Cart{}, repository.ErrMissingReference
	}
	if _, ok := s.cartOf(userId); ok {
		return models.Cart{}, repository.ErrDuplicate
	}

	cart := models.Cart{Id: uuid.New(), UserId: userId, CreatedAt: s.now()}
	s.carts[cart.Id] = cart
	return cart, nil
}

func (s *Store) FindCartItemByMenuItem(ctx context.Context, cartId uuid.UUID, menuItemId uuid.UUID) (models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ci, ok := s.cartLine(cartId, menuItemId); ok {
		return ci, nil
	}
	return models.CartItem{}, repository.ErrNotFound
}

func (s *Store) cartLine(cartId uuid.UUID, menuItemId uuid.UUID) (models.CartItem, bool) {
	for _, ci := range s.cartItems {
		if ci.CartId == cartId && ci.MenuItemId == menuItemId {
			return ci, true
		}
	}
	return models.CartItem{}, false
}

func (s *Store) InsertCartItem(ctx context.Context, cartId uuid.UUID, menuItemId uuid.UUID, quantity int) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validQuantity(quantity) {
		return models.CartItem{}, repository.ErrInvalidValue
	}
	if _, ok := s.carts[cartId]; !ok {
		return models.CartItem{}, repository.ErrMissingReference
	}
	if _, ok := s.items[menuItemId]; !ok {
		return models.CartItem{}, repository.ErrMissingReference
	}
	if _, ok := s.cartLine(cartId, menuItemId); ok {
		return models.CartItem{}, repository.ErrDuplicate
	}

	ci := models.CartItem{
		Id:         uuid.New(),
		CartId:     cartId,
		MenuItemId: menuItemId,
		Quantity:   quantity,
	}
	s.cartItems[ci.Id] = ci
	return ci, nil
}

func (s *Store) IncrementCartItem(ctx context.Context, id uuid.UUID, by int) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ci, ok := s.cartItems[id]
	if !ok {
		return models.CartItem{}, repository.ErrNotFound
	}
	if by > models.MaxQuantity || !validQuantity(ci.Quantity+by) {
		return models.CartItem{}, repository.ErrInvalidValue
	}

	ci.Quantity += by
	s.cartItems[id] = ci
	return ci, nil
}

func (s *Store) SetCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ci, ok := s.cartItems[id]
	if !ok {
		return models.CartItem{}, repository.ErrNotFound
	}
	if !validQuantity(quantity) {
		return models.CartItem{}, repository.ErrInvalidValue
	}

	ci.Quantity = quantity
	s.cartItems[id] = ci
	return ci, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cartItems[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.cartItems, id)
	return nil
}
