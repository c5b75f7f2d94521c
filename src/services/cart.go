package services

import (
	"context"
	"errors"

	"cityfood/src/models"
	"cityfood/src/repository"

	"github.com/google/uuid"
)

// CartService keeps one cart per user. The steps of AddToCart are separate
// store calls; a failure halfway may leave an empty cart behind.
type CartService struct {
	carts CartStore
	menu  MenuStore
}

func NewCartService(carts CartStore, menu MenuStore) *CartService {
	return &CartService{carts: carts, menu: menu}
}

// GetCart returns nil when the user has no cart yet, it never creates one.
func (s *CartService) GetCart(ctx context.Context, userId uuid.UUID) (*models.CartWithItems, error) {
	cart, err := s.carts.FindCart(ctx, userId)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fromStore(err, nil)
	}
	return &cart, nil
}

// AddToCart merges with an existing line for the same menu item by
// incrementing its quantity, otherwise it inserts a new line.
func (s *CartService) AddToCart(ctx context.Context, userId uuid.UUID, menuItemId uuid.UUID, quantity int) (models.CartItem, error) {
	if !validQuantity(quantity) {
		return models.CartItem{}, invalidQuantity
	}

	if _, err := s.menu.FindMenuItem(ctx, menuItemId); err != nil {
		return models.CartItem{}, fromStore(err, outcome{repository.ErrNotFound: menuItemNotFound})
	}

	cartId, err := s.findOrCreateCart(ctx, userId)
	if err != nil {
		return models.CartItem{}, err
	}

	item, err := s.carts.FindCartItemByMenuItem(ctx, cartId, menuItemId)
	if err == nil {
		return s.increment(ctx, item, quantity)
	}
	if !isNotFound(err) {
		return models.CartItem{}, fromStore(err, nil)
	}

	item, err = s.carts.InsertCartItem(ctx, cartId, menuItemId, quantity)
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race against a concurrent add of the same item
		item, err = s.carts.FindCartItemByMenuItem(ctx, cartId, menuItemId)
		if err != nil {
			return models.CartItem{}, fromStore(err, nil)
		}
		return s.increment(ctx, item, quantity)
	}
	if err != nil {
		return models.CartItem{}, fromStore(err, outcome{
			repository.ErrMissingReference: menuItemNotFound,
			repository.ErrInvalidValue:     invalidQuantity,
		})
	}

	return item, nil
}

func (s *CartService) findOrCreateCart(ctx context.Context, userId uuid.UUID) (uuid.UUID, error) {
	cartId, err := s.carts.FindCartId(ctx, userId)
	if err == nil {
		return cartId, nil
	}
	if !isNotFound(err) {
		return uuid.Nil, fromStore(err, nil)
	}

	cart, err := s.carts.InsertCart(ctx, userId)
	if errors.Is(err, repository.ErrDuplicate) {
		// created concurrently, use that one
		cartId, err = s.carts.FindCartId(ctx, userId)
		if err != nil {
			return uuid.Nil, fromStore(err, nil)
		}
		return cartId, nil
	}
	if err != nil {
		return uuid.Nil, fromStore(err, outcome{repository.ErrMissingReference: userNotFound})
	}

	return cart.Id, nil
}

// increment refuses merges past MaxQuantity, the store check catches the
// ones that race past this test.
func (s *CartService) increment(ctx context.Context, line models.CartItem, by int) (models.CartItem, error) {
	if line.Quantity > models.MaxQuantity-by {
		return models.CartItem{}, invalidQuantity
	}

	item, err := s.carts.IncrementCartItem(ctx, line.Id, by)
	if err != nil {
		return models.CartItem{}, fromStore(err, outcome{
			repository.ErrNotFound:     cartItemNotFound,
			repository.ErrInvalidValue: invalidQuantity,
		})
	}
	return item, nil
}

// SetCartItemQuantity rejects quantities out of range without touching the line.
func (s *CartService) SetCartItemQuantity(ctx context.Context, cartItemId uuid.UUID, quantity int) (models.CartItem, error) {
	if !validQuantity(quantity) {
		return models.CartItem{}, invalidQuantity
	}

	item, err := s.carts.SetCartItemQuantity(ctx, cartItemId, quantity)
	if err != nil {
		return models.CartItem{}, fromStore(err, outcome{
			repository.ErrNotFound:     cartItemNotFound,
			repository.ErrInvalidValue: invalidQuantity,
		})
	}
	return item, nil
}

func (s *CartService) RemoveCartItem(ctx context.Context, cartItemId uuid.UUID) error {
	err := s.carts.DeleteCartItem(ctx, cartItemId)
	if err != nil {
		return fromStore(err, outcome{repository.ErrNotFound: cartItemNotFound})
	}
	return nil
}
