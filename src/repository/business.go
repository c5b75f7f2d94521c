package repository

import (
	"context"

	"cityfood/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// admins are built explicitly so the password hash never leaves the database
const businessSelect = `
SELECT
	to_jsonb(b) AS business,
	to_jsonb(c) AS category,
	COALESCE((
		SELECT jsonb_agg(jsonb_build_object(
			'id', u.id,
			'email', u.email,
			'password', '',
			'name', u.name,
			'phone', u.phone,
			'is_admin', u.is_admin,
			'created_at', u.created_at
		) ORDER BY u.created_at)
		FROM business_admins ba
		JOIN users u ON u.id = ba.user_id
		WHERE ba.business_id = b.id
	), '[]'::jsonb) AS admins
`

const sectionsSelect = `
,COALESCE((
	SELECT jsonb_agg(
		to_jsonb(s) || jsonb_build_object('items', COALESCE((
			SELECT jsonb_agg(to_jsonb(i) ORDER BY i.created_at, i.id)
			FROM menu_items i
			WHERE i.menu_section_id = s.id
		), '[]'::jsonb))
		ORDER BY s.created_at, s.id
	)
	FROM menu_sections s
	WHERE s.business_id = b.id
), '[]'::jsonb) AS sections
`

const businessFrom = `
FROM businesses b
JOIN categories c ON c.id = b.category_id
`

func (s *Store) ListBusinesses(ctx context.Context) ([]models.BusinessWithRelations, error) {
	sql := businessSelect + businessFrom + `ORDER BY b.created_at DESC, b.id`
	return rowsToStructLax[models.BusinessWithRelations](ctx, s.db, sql)
}

// FindBusiness accepts either the id or the slug.
func (s *Store) FindBusiness(ctx context.Context, idOrSlug string, includeSections bool) (models.BusinessWithRelations, error) {
	return findBusiness(ctx, s.db, idOrSlug, includeSections)
}

func findBusiness(ctx context.Context, q querier, idOrSlug string, includeSections bool) (models.BusinessWithRelations, error) {
	sql := businessSelect
	if includeSections {
		sql += sectionsSelect
	}
	sql += businessFrom + `WHERE b.id::text = $1 OR b.slug = $1`

	return rowToStructLax[models.BusinessWithRelations](ctx, q, sql, idOrSlug)
}

func (s *Store) BusinessSlugExists(ctx context.Context, slug string, exceptId *uuid.UUID) (bool, error) {
	const sql = `
	SELECT EXISTS (
		SELECT 1
		FROM businesses
		WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2)
	)
	`
	return exists(ctx, s.db, sql, slug, exceptId)
}

func (s *Store) InsertBusiness(ctx context.Context, in models.BusinessInput) (business models.BusinessWithRelations, err error) {
	const sql = `
	INSERT INTO businesses (name, slug, description, image_url, category_id, is_open)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, true))
	RETURNING id
	`

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		var id uuid.UUID
		err := tx.QueryRow(ctx, sql, in.Name, in.Slug, in.Description, in.ImageUrl, in.CategoryId, in.IsOpen).Scan(&id)
		if err != nil {
			return translate(err)
		}

		if err := insertBusinessAdmins(ctx, tx, id, in.AdminIds); err != nil {
			return err
		}

		business, err = findBusiness(ctx, tx, id.String(), false)
		return err
	})
	return
}

// UpdateBusiness replaces the admin set only when in.AdminIds is non-nil.
func (s *Store) UpdateBusiness(ctx context.Context, id uuid.UUID, in models.BusinessInput) (business models.BusinessWithRelations, err error) {
	const sql = `
	UPDATE businesses
	SET
		name = $2,
		slug = $3,
		description = COALESCE($4, description),
		image_url = COALESCE($5, image_url),
		category_id = $6,
		is_open = COALESCE($7, is_open)
	WHERE id = $1
	`

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		err := exec(ctx, tx, sql, id, in.Name, in.Slug, in.Description, in.ImageUrl, in.CategoryId, in.IsOpen)
		if err != nil {
			return err
		}

		if in.AdminIds != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM business_admins WHERE business_id = $1`, id); err != nil {
				return translate(err)
			}
			if err := insertBusinessAdmins(ctx, tx, id, in.AdminIds); err != nil {
				return err
			}
		}

		business, err = findBusiness(ctx, tx, id.String(), false)
		return err
	})
	return
}

func insertBusinessAdmins(ctx context.Context, tx pgx.Tx, businessId uuid.UUID, adminIds []uuid.UUID) error {
	const sql = `
	INSERT INTO business_admins (business_id, user_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING
	`

	for _, adminId := range adminIds {
		if _, err := tx.Exec(ctx, sql, businessId, adminId); err != nil {
			return translate(err)
		}
	}
	return nil
}

// DeleteBusiness cascades to sections, items and admin links.
// Businesses with orders are kept (ErrInUse).
func (s *Store) DeleteBusiness(ctx context.Context, id uuid.UUID) error {
	const sql = `DELETE FROM businesses WHERE id = $1`
	return execDelete(ctx, s.db, sql, id)
}
