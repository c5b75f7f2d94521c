package repository

import (
	"context"

	"cityfood/src/models"

	"github.com/google/uuid"
)

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	const sql = `SELECT * FROM categories ORDER BY created_at DESC, id`
	return rowsToStruct[models.Category](ctx, s.db, sql)
}

// CategorySlugExists ignores the row with exceptId, if given.
func (s *Store) CategorySlugExists(ctx context.Context, slug string, exceptId *uuid.UUID) (bool, error) {
	const sql = `
	SELECT EXISTS (
		SELECT 1
		FROM categories
		WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2)
	)
	`
	return exists(ctx, s.db, sql, slug, exceptId)
}

func (s *Store) InsertCategory(ctx context.Context, name string, slug string, imageUrl *string) (models.Category, error) {
	const sql = `
	INSERT INTO categories (name, slug, image_url)
	VALUES ($1, $2, $3)
	RETURNING *
	`
	return rowToStruct[models.Category](ctx, s.db, sql, name, slug, imageUrl)
}

// UpdateCategory keeps the current image when imageUrl is nil.
func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, name string, slug string, imageUrl *string) (models.Category, error) {
	const sql = `
	UPDATE categories
	SET name = $2, slug = $3, image_url = COALESCE($4, image_url)
	WHERE id = $1
	RETURNING *
	`
	return rowToStruct[models.Category](ctx, s.db, sql, id, name, slug, imageUrl)
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const sql = `DELETE FROM categories WHERE id = $1`
	return execDelete(ctx, s.db, sql, id)
}
