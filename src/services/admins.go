package services

import (
	"context"
	"strings"

	"cityfood/src/models"
	"cityfood/src/repository"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
)

type AdminService struct {
	users  UserStore
	params *argon2id.Params
}

// NewAdminService hashes with argon2id.DefaultParams unless params is set.
func NewAdminService(users UserStore, params *argon2id.Params) *AdminService {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &AdminService{users: users, params: params}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]models.User, error) {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	return admins, nil
}

func (s *AdminService) CreateAdmin(ctx context.Context, email string, password string, name *string, phone *string) (models.User, error) {
	return s.createUser(ctx, models.NewUser{
		Email:    email,
		Password: password,
		Name:     name,
		Phone:    phone,
		IsAdmin:  true,
	})
}

// createUser hashes the plain password in `in` before storing it.
func (s *AdminService) createUser(ctx context.Context, in models.NewUser) (models.User, error) {
	in.Email = normalizeEmail(in.Email)

	taken, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return models.User{}, fromStore(err, nil)
	}
	if taken {
		return models.User{}, emailTaken
	}

	hash, err := argon2id.CreateHash(in.Password, s.params)
	if err != nil {
		return models.User{}, fromStore(err, nil)
	}
	in.Password = hash

	user, err := s.users.InsertUser(ctx, in)
	if err != nil {
		return models.User{}, fromStore(err, outcome{repository.ErrDuplicate: emailTaken})
	}
	return user, nil
}

// UpdateAdmin leaves nil fields unchanged.
func (s *AdminService) UpdateAdmin(ctx context.Context, id uuid.UUID, name *string, phone *string) (models.User, error) {
	user, err := s.users.UpdateAdminContact(ctx, id, name, phone)
	if err != nil {
		return models.User{}, fromStore(err, outcome{repository.ErrNotFound: adminNotFound})
	}
	return user, nil
}

func (s *AdminService) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	err := s.users.DeleteAdmin(ctx, id)
	if err != nil {
		return fromStore(err, outcome{
			repository.ErrNotFound: adminNotFound,
			repository.ErrInUse:    adminHasOrders,
		})
	}
	return nil
}

// Authenticate only lets admins in. Unknown email, wrong password and
// non-admin accounts all get the same error.
func (s *AdminService) Authenticate(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if isNotFound(err) {
		return models.User{}, invalidCredentials
	}
	if err != nil {
		return models.User{}, fromStore(err, nil)
	}

	match, err := argon2id.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return models.User{}, fromStore(err, nil)
	}
	if !match || !user.IsAdmin {
		return models.User{}, invalidCredentials
	}

	return user, nil
}

// Refresh reloads the token subject, it may have lost its admin flag.
func (s *AdminService) Refresh(ctx context.Context, id uuid.UUID) (models.User, error) {
	user, err := s.users.FindUserById(ctx, id)
	if err != nil {
		return models.User{}, fromStore(err, outcome{repository.ErrNotFound: userNotFound})
	}
	return user, nil
}
