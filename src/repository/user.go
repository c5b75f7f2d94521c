package repository

import (
	"context"

	"cityfood/src/models"

	"github.com/google/uuid"
)

func (s *Store) ListAdmins(ctx context.Context) ([]models.User, error) {
	const sql = `SELECT * FROM users WHERE is_admin ORDER BY created_at DESC, id`
	return rowsToStruct[models.User](ctx, s.db, sql)
}

func (s *Store) FindUserById(ctx context.Context, id uuid.UUID) (models.User, error) {
	const sql = `SELECT * FROM users WHERE id = $1`
	return rowToStruct[models.User](ctx, s.db, sql, id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const sql = `SELECT * FROM users WHERE email = $1`
	return rowToStruct[models.User](ctx, s.db, sql, email)
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	const sql = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	return exists(ctx, s.db, sql, email)
}

func (s *Store) InsertUser(ctx context.Context, in models.NewUser) (models.User, error) {
	const sql = `
	INSERT INTO users (email, password, name, phone, is_admin)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING *
	`
	return rowToStruct[models.User](ctx, s.db, sql, in.Email, in.Password, in.Name, in.Phone, in.IsAdmin)
}

// UpdateAdminContact only touches admins; nil fields stay unchanged.
func (s *Store) UpdateAdminContact(ctx context.Context, id uuid.UUID, name *string, phone *string) (models.User, error) {
	const sql = `
	UPDATE users
	SET name = COALESCE($2, name), phone = COALESCE($3, phone)
	WHERE id = $1 AND is_admin
	RETURNING *
	`
	return rowToStruct[models.User](ctx, s.db, sql, id, name, phone)
}

func (s *Store) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	const sql = `DELETE FROM users WHERE id = $1 AND is_admin`
	return execDelete(ctx, s.db, sql, id)
}

func (s *Store) InsertAddress(ctx context.Context, in models.NewAddress) (models.Address, error) {
	const sql = `
	INSERT INTO addresses (street, city, zip_code, country, user_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING *
	`
	return rowToStruct[models.Address](ctx, s.db, sql, in.Street, in.City, in.ZipCode, in.Country, in.UserId)
}
