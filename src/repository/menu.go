package repository

import (
	"context"

	"cityfood/src/models"

	"github.com/google/uuid"
)

// SECTIONS

func (s *Store) ListMenuSections(ctx context.Context) ([]models.MenuSectionWithRelations, error) {
	const sql = `
	SELECT
		to_jsonb(s) AS section,
		to_jsonb(b) AS business,
		COALESCE((
			SELECT jsonb_agg(to_jsonb(i) ORDER BY i.created_at, i.id)
			FROM menu_items i
			WHERE i.menu_section_id = s.id
		), '[]'::jsonb) AS items
	FROM menu_sections s
	JOIN businesses b ON b.id = s.business_id
	ORDER BY s.created_at DESC, s.id
	`
	return rowsToStruct[models.MenuSectionWithRelations](ctx, s.db, sql)
}

func (s *Store) InsertMenuSection(ctx context.Context, name string, businessId uuid.UUID) (models.MenuSection, error) {
	const sql = `
	INSERT INTO menu_sections (name, business_id)
	VALUES ($1, $2)
	RETURNING *
	`
	return rowToStruct[models.MenuSection](ctx, s.db, sql, name, businessId)
}

func (s *Store) UpdateMenuSection(ctx context.Context, id uuid.UUID, name string, businessId uuid.UUID) (models.MenuSection, error) {
	const sql = `
	UPDATE menu_sections
	SET name = $2, business_id = $3
	WHERE id = $1
	RETURNING *
	`
	return rowToStruct[models.MenuSection](ctx, s.db, sql, id, name, businessId)
}

// DeleteMenuSection also removes the section's items.
func (s *Store) DeleteMenuSection(ctx context.Context, id uuid.UUID) error {
	const sql = `DELETE FROM menu_sections WHERE id = $1`
	return execDelete(ctx, s.db, sql, id)
}

// ITEMS

// ListMenuItems returns every item, or only those of sectionId when given.
func (s *Store) ListMenuItems(ctx context.Context, sectionId *uuid.UUID) ([]models.MenuItemWithSection, error) {
	const sql = `
	SELECT to_jsonb(i) AS item, s.name AS section_name
	FROM menu_items i
	JOIN menu_sections s ON s.id = i.menu_section_id
	WHERE $1::uuid IS NULL OR i.menu_section_id = $1
	ORDER BY i.created_at DESC, i.id
	`
	return rowsToStruct[models.MenuItemWithSection](ctx, s.db, sql, sectionId)
}

func (s *Store) FindMenuItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error) {
	const sql = `SELECT * FROM menu_items WHERE id = $1`
	return rowToStruct[models.MenuItem](ctx, s.db, sql, id)
}

func (s *Store) FindMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	const sql = `SELECT * FROM menu_items WHERE id = ANY($1::uuid[])`
	return rowsToStruct[models.MenuItem](ctx, s.db, sql, ids)
}

func (s *Store) InsertMenuItem(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	const sql = `
	INSERT INTO menu_items (name, description, price, type, image_url, is_available, menu_section_id)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, true), $7)
	RETURNING *
	`
	return rowToStruct[models.MenuItem](ctx, s.db, sql,
		in.Name, in.Description, in.Price, in.Type, in.ImageUrl, in.IsAvailable, in.MenuSectionId,
	)
}

// UpdateMenuItem keeps optional columns whose input is nil.
func (s *Store) UpdateMenuItem(ctx context.Context, id uuid.UUID, in models.MenuItemInput) (models.MenuItem, error) {
	const sql = `
	UPDATE menu_items
	SET
		name = $2,
		description = COALESCE($3, description),
		price = $4,
		type = COALESCE($5, type),
		image_url = COALESCE($6, image_url),
		is_available = COALESCE($7, is_available),
		menu_section_id = $8
	WHERE id = $1
	RETURNING *
	`
	return rowToStruct[models.MenuItem](ctx, s.db, sql,
		id, in.Name, in.Description, in.Price, in.Type, in.ImageUrl, in.IsAvailable, in.MenuSectionId,
	)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	const sql = `DELETE FROM menu_items WHERE id = $1`
	return execDelete(ctx, s.db, sql, id)
}
