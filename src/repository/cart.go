package repository

import (
	"context"

	"cityfood/src/models"

	"github.com/google/uuid"
)

// FindCart returns ErrNotFound when the user has no cart yet.
func (s *Store) FindCart(ctx context.Context, userId uuid.UUID) (models.CartWithItems, error) {
	const sql = `
	SELECT
		to_jsonb(c) AS cart,
		COALESCE((
			SELECT jsonb_agg(
				to_jsonb(ci) || jsonb_build_object('menu_item', to_jsonb(mi))
				ORDER BY mi.name, ci.id
			)
			FROM cart_items ci
			JOIN menu_items mi ON mi.id = ci.menu_item_id
			WHERE ci.cart_id = c.id
		), '[]'::jsonb) AS items
	FROM carts c
	WHERE c.user_id = $1
	`
	return rowToStruct[models.CartWithItems](ctx, s.db, sql, userId)
}

func (s *Store) FindCartId(ctx context.Context, userId uuid.UUID) (id uuid.UUID, err error) {
	const sql = `SELECT id FROM carts WHERE user_id = $1`
	err = translate(s.db.QueryRow(ctx, sql, userId).Scan(&id))
	return
}

func (s *Store) InsertCart(ctx context.Context, userId uuid.UUID) (models.Cart, error) {
	const sql = `
	INSERT INTO carts (user_id)
	VALUES ($1)
	RETURNING *
	`
	return rowToStruct[models.Cart](ctx, s.db, sql, userId)
}

func (s *Store) FindCartItemByMenuItem(ctx context.Context, cartId uuid.UUID, menuItemId uuid.UUID) (models.CartItem, error) {
	const sql = `SELECT * FROM cart_items WHERE cart_id = $1 AND menu_item_id = $2`
	return rowToStruct[models.CartItem](ctx, s.db, sql, cartId, menuItemId)
}

func (s *Store) InsertCartItem(ctx context.Context, cartId uuid.UUID, menuItemId uuid.UUID, quantity int) (models.CartItem, error) {
	const sql = `
	INSERT INTO cart_items (cart_id, menu_item_id, quantity)
	VALUES ($1, $2, $3)
	RETURNING *
	`
	return rowToStruct[models.CartItem](ctx, s.db, sql, cartId, menuItemId, quantity)
}

// IncrementCartItem adds to the stored quantity in a single statement,
// so concurrent adds are never lost.
func (s *Store) IncrementCartItem(ctx context.Context, id uuid.UUID, by int) (models.CartItem, error) {
	const sql = `
	UPDATE cart_items
	SET quantity = quantity + $2
	WHERE id = $1
	RETURNING *
	`
	return rowToStruct[models.CartItem](ctx, s.db, sql, id, by)
}

func (s *Store) SetCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (models.CartItem, error) {
	const sql = `
	UPDATE cart_items
	SET quantity = $2
	WHERE id = $1
	RETURNING *
	`
	return rowToStruct[models.CartItem](ctx, s.db, sql, id, quantity)
}

func (s *Store) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	const sql = `DELETE FROM cart_items WHERE id = $1`
	return execDelete(ctx, s.db, sql, id)
}
