package repository

import "context"

// Truncate empties every table, tests share one database.
func (s *Store) Truncate(ctx context.Context) error {
	const sql = `
	TRUNCATE order_items, orders, cart_items, carts, menu_items, menu_sections,
		business_admins, businesses, addresses, users, categories
	`
	_, err := s.db.Exec(ctx, sql)
	return err
}
