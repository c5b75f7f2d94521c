package repository

import (
	"context"

	"cityfood/src/models"
)

func (s *Store) CountEntities(ctx context.Context) (models.EntityCounts, error) {
	const sql = `
	SELECT
		(
		SELECT COUNT(*) FROM users
		) AS user_count,
		(
		SELECT COUNT(*) FROM businesses
		) AS business_count,
		(
		SELECT COUNT(*) FROM categories
		) AS category_count,
		(
		SELECT COUNT(*) FROM orders
		) AS order_count
	`
	return rowToStruct[models.EntityCounts](ctx, s.db, sql)
}

// OrdersByDay groups by UTC calendar day, oldest first.
func (s *Store) OrdersByDay(ctx context.Context) ([]models.DayCount, error) {
	const sql = `
	SELECT
		date_trunc('day', created_at AT TIME ZONE 'UTC') AT TIME ZONE 'UTC' AS day,
		COUNT(*) AS count
	FROM orders
	GROUP BY 1
	ORDER BY 1
	`
	return rowsToStruct[models.DayCount](ctx, s.db, sql)
}

// OrdersByCategory lists every category, with 0 when none of its
// businesses has an order.
func (s *Store) OrdersByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	const sql = `
	SELECT c.name, COUNT(o.id) AS total
	FROM categories c
	LEFT JOIN businesses b ON b.category_id = c.id
	LEFT JOIN orders o ON o.business_id = b.id
	GROUP BY c.id, c.name
	ORDER BY total DESC, c.name
	`
	return rowsToStruct[models.CategoryCount](ctx, s.db, sql)
}

func (s *Store) RevenueTotals(ctx context.Context) (models.Revenue, error) {
	const sql = `
	SELECT COALESCE(SUM(total), 0) AS total, COUNT(*) AS count
	FROM orders
	`
	return rowToStruct[models.Revenue](ctx, s.db, sql)
}
