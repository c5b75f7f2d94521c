package repository

import (
	"context"

	"cityfood/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ordersSelect = `
SELECT to_jsonb(o) AS "order", b.name AS business_name
FROM orders o
JOIN businesses b ON b.id = o.business_id
ORDER BY o.created_at DESC, o.id
`

func (s *Store) ListOrders(ctx context.Context) ([]models.OrderWithBusiness, error) {
	return rowsToStruct[models.OrderWithBusiness](ctx, s.db, ordersSelect)
}

func (s *Store) RecentOrders(ctx context.Context, limit int) ([]models.OrderWithBusiness, error) {
	return rowsToStruct[models.OrderWithBusiness](ctx, s.db, ordersSelect+`LIMIT $1`, limit)
}

func (s *Store) FindOrder(ctx context.Context, id uuid.UUID) (models.OrderWithItems, error) {
	return findOrder(ctx, s.db, id)
}

func findOrder(ctx context.Context, q querier, id uuid.UUID) (models.OrderWithItems, error) {
	const sql = `
	SELECT
		to_jsonb(o) AS "order",
		b.name AS business_name,
		COALESCE((
			SELECT jsonb_agg(to_jsonb(oi) ORDER BY oi.name, oi.id)
			FROM order_items oi
			WHERE oi.order_id = o.id
		), '[]'::jsonb) AS items
	FROM orders o
	JOIN businesses b ON b.id = o.business_id
	WHERE o.id = $1
	`
	return rowToStruct[models.OrderWithItems](ctx, q, sql, id)
}

// InsertOrder writes the order and its line items in one transaction.
func (s *Store) InsertOrder(ctx context.Context, in models.NewOrder) (order models.OrderWithItems, err error) {
	const orderSql = `
	INSERT INTO orders (user_id, phone, address_id, business_id, total, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
	RETURNING id
	`
	const itemSql = `
	INSERT INTO order_items (order_id, menu_item_id, name, price, quantity)
	VALUES ($1, $2, $3, $4, $5)
	`

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		var id uuid.UUID
		err := tx.QueryRow(ctx, orderSql,
			in.UserId, in.Phone, in.AddressId, in.BusinessId, in.Total, in.Status, in.CreatedAt,
		).Scan(&id)
		if err != nil {
			return translate(err)
		}

		for _, item := range in.Items {
			if _, err := tx.Exec(ctx, itemSql, id, item.MenuItemId, item.Name, item.Price, item.Quantity); err != nil {
				return translate(err)
			}
		}

		order, err = findOrder(ctx, tx, id)
		return err
	})
	return
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, error) {
	const sql = `
	UPDATE orders
	SET status = $2
	WHERE id = $1
	RETURNING *
	`
	return rowToStruct[models.Order](ctx, s.db, sql, id, status)
}
