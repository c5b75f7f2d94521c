package memstore

import (
	"context"
	"slices"
	"time"

	"cityfood/src/models"
	"cityfood/src/repository"

	"github.com/google/uuid"
)

func (s *Store) ListAdmins(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := []models.User{}
	for _, u := range s.users {
		if u.IsAdmin {
			rows = append(rows, u)
		}
	}
	return newestFirst(rows, func(u models.User) time.Time { return u.CreatedAt }, func(u models.User) uuid.UUID { return u.Id }), nil
}

func (s *Store) FindUserById(ctx context.Context, id uuid.UUID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.userByEmail(email); ok {
		return u, nil
	}
	return models.User{}, repository.ErrNotFound
}

func (s *Store) userByEmail(email string) (models.User, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.userByEmail(email)
	return ok, nil
}

func (s *Store) InsertUser(ctx context.Context, in models.NewUser) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userByEmail(in.Email); ok {
		return models.User{}, repository.ErrDuplicate
	}

	u := models.User{
		Id:        uuid.New(),
		Email:     in.Email,
		Password:  in.Password,
		Name:      in.Name,
		Phone:     in.Phone,
		IsAdmin:   in.IsAdmin,
		CreatedAt: s.now(),
	}
	s.users[u.Id] = u
	return u, nil
}

func (s *Store) UpdateAdminContact(ctx context.Context, id uuid.UUID, name *string, phone *string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || !u.IsAdmin {
		return models.User{}, repository.ErrNotFound
	}

	if name != nil {
		u.Name = name
	}
	if phone != nil {
		u.Phone = phone
	}
	s.users[id] = u
	return u, nil
}

// DeleteAdmin cascades to addresses, cart and business links.
// Admins who placed orders are kept (ErrInUse).
func (s *Store) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || !u.IsAdmin {
		return repository.ErrNotFound
	}
	for _, o := range s.orders {
		if o.UserId == id {
			return repository.ErrInUse
		}
		// orders.address_id is ON DELETE RESTRICT
		if a, ok := s.addresses[o.AddressId]; ok && a.UserId == id {
			return repository.ErrInUse
		}
	}

	for addressId, a := range s.addresses {
		if a.UserId == id {
			delete(s.addresses, addressId)
		}
	}
	if cart, ok := s.cartOf(id); ok {
		for ciId, ci := range s.cartItems {
			if ci.CartId == cart.Id {
				delete(s.cartItems, ciId)
			}
		}
		delete(s.carts, cart.Id)
	}
	for businessId, admins := range s.businessAdmins {
		s.businessAdmins[businessId] = slices.DeleteFunc(admins, func(adminId uuid.UUID) bool { return adminId == id })
	}

	delete(s.users, id)
	return nil
}

func (s *Store) InsertAddress(ctx context.Context, in models.NewAddress) (models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[in.UserId]; !ok {
		return models.Address{}, repository.ErrMissingReference
	}

	a := models.Address{
		Id:      uuid.New(),
		Street:  in.Street,
		City:    in.City,
		ZipCode: in.ZipCode,
		Country: in.Country,
		UserId:  in.UserId,
	}
	s.addresses[a.Id] = a
	return a, nil
}
