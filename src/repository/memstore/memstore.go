// Package memstore keeps every table in process memory. It enforces the same
// constraints as schema.sql and reports them with the repository sentinels,
// which makes it usable both as the "memory" store driver and in tests.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"cityfood/src/models"
	"cityfood/src/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu   sync.RWMutex
	last time.Time

	categories     map[uuid.UUID]models.Category
	users          map[uuid.UUID]models.User
	addresses      map[uuid.UUID]models.Address
	businesses     map[uuid.UUID]models.Business
	businessAdmins map[uuid.UUID][]uuid.UUID
	sections       map[uuid.UUID]models.MenuSection
	items          map[uuid.UUID]models.MenuItem
	carts          map[uuid.UUID]models.Cart
	cartItems      map[uuid.UUID]models.CartItem
	orders         map[uuid.UUID]models.Order
	orderItems     map[uuid.UUID]models.OrderItem
}

func New() *Store {
	return &Store{
		categories:     map[uuid.UUID]models.Category{},
		users:          map[uuid.UUID]models.User{},
		addresses:      map[uuid.UUID]models.Address{},
		businesses:     map[uuid.UUID]models.Business{},
		businessAdmins: map[uuid.UUID][]uuid.UUID{},
		sections:       map[uuid.UUID]models.MenuSection{},
		items:          map[uuid.UUID]models.MenuItem{},
		carts:          map[uuid.UUID]models.Cart{},
		cartItems:      map[uuid.UUID]models.CartItem{},
		orders:         map[uuid.UUID]models.Order{},
		orderItems:     map[uuid.UUID]models.OrderItem{},
	}
}

func (s *Store) Close() {}

// now is strictly increasing so that "newest first" is stable
// even for rows created within the same clock tick. Caller holds mu.
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// newestFirst sorts by creation time descending, ties broken by id.
func newestFirst[T any](rows []T, createdAt func(T) time.Time, id func(T) uuid.UUID) []T {
	slices.SortFunc(rows, func(a, b T) int {
		if c := createdAt(b).Compare(createdAt(a)); c != 0 {
			return c
		}
		return cmp.Compare(id(a).String(), id(b).String())
	})
	return rows
}

func oldestFirst[T any](rows []T, createdAt func(T) time.Time, id func(T) uuid.UUID) []T {
	slices.SortFunc(rows, func(a, b T) int {
		if c := createdAt(a).Compare(createdAt(b)); c != 0 {
			return c
		}
		return cmp.Compare(id(a).String(), id(b).String())
	})
	return rows
}

// CATEGORIES

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		rows = append(rows, c)
	}
	return newestFirst(rows, func(c models.Category) time.Time { return c.CreatedAt }, func(c models.Category) uuid.UUID { return c.Id }), nil
}

func (s *Store) CategorySlugExists(ctx context.Context, slug string, exceptId *uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categorySlugTaken(slug, exceptId), nil
}

func (s *Store) categorySlugTaken(slug string, exceptId *uuid.UUID) bool {
	for _, c := range s.categories {
		if c.Slug == slug && (exceptId == nil || c.Id != *exceptId) {
			return true
		}
	}
	return false
}

func (s *Store) InsertCategory(ctx context.Context, name string, slug string, imageUrl *string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categorySlugTaken(slug, nil) {
		return models.Category{}, repository.ErrDuplicate
	}

	c := models.Category{
		Id:        uuid.New(),
		Name:      name,
		Slug:      slug,
		ImageUrl:  imageUrl,
		CreatedAt: s.now(),
	}
	s.categories[c.Id] = c
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, name string, slug string, imageUrl *string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return models.Category{}, repository.ErrNotFound
	}
	if s.categorySlugTaken(slug, &id) {
		return models.Category{}, repository.ErrDuplicate
	}

	c.Name = name
	c.Slug = slug
	if imageUrl != nil {
		c.ImageUrl = imageUrl
	}
	s.categories[id] = c
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	for _, b := range s.businesses {
		if b.CategoryId == id {
			return repository.ErrInUse
		}
	}

	delete(s.categories, id)
	return nil
}

// BUSINESSES

func (s *Store) ListBusinesses(ctx context.Context) ([]models.BusinessWithRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]models.Business, 0, len(s.businesses))
	for _, b := range s.businesses {
		rows = append(rows, b)
	}
	newestFirst(rows, func(b models.Business) time.Time { return b.CreatedAt }, func(b models.Business) uuid.UUID { return b.Id })

	res := make([]models.BusinessWithRelations, len(rows))
	for i, b := range rows {
		res[i] = s.businessRelations(b, false)
	}
	return res, nil
}

func (s *Store) FindBusiness(ctx context.Context, idOrSlug string, includeSections bool) (models.BusinessWithRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.businesses {
		if b.Id.String() == idOrSlug || b.Slug == idOrSlug {
			return s.businessRelations(b, includeSections), nil
		}
	}
	return models.BusinessWithRelations{}, repository.ErrNotFound
}

func (s *Store) businessRelations(b models.Business, includeSections bool) models.BusinessWithRelations {
	res := models.BusinessWithRelations{
		Business: b,
		Category: s.categories[b.CategoryId],
		Admins:   []models.User{},
	}

	for _, userId := range s.businessAdmins[b.Id] {
		admin := s.users[userId]
		admin.Password = ""
		res.Admins = append(res.Admins, admin)
	}
	oldestFirst(res.Admins, func(u models.User) time.Time { return u.CreatedAt }, func(u models.User) uuid.UUID { return u.Id })

	if includeSections {
		res.Sections = []models.MenuSectionWithItems{}
		for _, section := range s.sectionsOf(b.Id) {
			res.Sections = append(res.Sections, models.MenuSectionWithItems{
				MenuSection: section,
				Items:       s.itemsOf(section.Id),
			})
		}
	}

	return res
}

func (s *Store) sectionsOf(businessId uuid.UUID) []models.MenuSection {
	rows := []models.MenuSection{}
	for _, section := range s.sections {
		if section.BusinessId == businessId {
			rows = append(rows, section)
		}
	}
	return oldestFirst(rows, func(m models.MenuSection) time.Time { return m.CreatedAt }, func(m models.MenuSection) uuid.UUID { return m.Id })
}

func (s *Store) itemsOf(sectionId uuid.UUID) []models.MenuItem {
	rows := []models.MenuItem{}
	for _, item := range s.items {
		if item.MenuSectionId == sectionId {
			rows = append(rows, item)
		}
	}
	return oldestFirst(rows, func(m models.MenuItem) time.Time { return m.CreatedAt }, func(m models.MenuItem) uuid.UUID { return m.Id })
}

func (s *Store) BusinessSlugExists(ctx context.Context, slug string, exceptId *uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.businessSlugTaken(slug, exceptId), nil
}

func (s *Store) businessSlugTaken(slug string, exceptId *uuid.UUID) bool {
	for _, b := range s.businesses {
		if b.Slug == slug && (exceptId == nil || b.Id != *exceptId) {
			return true
		}
	}
	return false
}

func (s *Store) checkBusinessInput(in models.BusinessInput, exceptId *uuid.UUID) error {
	if s.businessSlugTaken(in.Slug, exceptId) {
		return repository.ErrDuplicate
	}
	if _, ok := s.categories[in.CategoryId]; !ok {
		return repository.ErrMissingReference
	}
	for _, adminId := range in.AdminIds {
		if _, ok := s.users[adminId]; !ok {
			return repository.ErrMissingReference
		}
	}
	return nil
}

func (s *Store) InsertBusiness(ctx context.Context, in models.BusinessInput) (models.BusinessWithRelations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBusinessInput(in, nil); err != nil {
		return models.BusinessWithRelations{}, err
	}

	b := models.Business{
		Id:          uuid.New(),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ImageUrl:    in.ImageUrl,
		CategoryId:  in.CategoryId,
		IsOpen:      in.IsOpen == nil || *in.IsOpen,
		CreatedAt:   s.now(),
	}
	s.businesses[b.Id] = b
	s.businessAdmins[b.Id] = uniqueIds(in.AdminIds)

	return s.businessRelations(b, false), nil
}

func (s *Store) UpdateBusiness(ctx context.Context, id uuid.UUID, in models.BusinessInput) (models.BusinessWithRelations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.businesses[id]
	if !ok {
		return models.BusinessWithRelations{}, repository.ErrNotFound
	}
	if err := s.checkBusinessInput(in, &id); err != nil {
		return models.BusinessWithRelations{}, err
	}

	b.Name = in.Name
	b.Slug = in.Slug
	b.CategoryId = in.CategoryId
	if in.Description != nil {
		b.Description = in.Description
	}
	if in.ImageUrl != nil {
		b.ImageUrl = in.ImageUrl
	}
	if in.IsOpen != nil {
		b.IsOpen = *in.IsOpen
	}
	s.businesses[id] = b

	if in.AdminIds != nil {
		s.businessAdmins[id] = uniqueIds(in.AdminIds)
	}

	return s.businessRelations(b, false), nil
}

func uniqueIds(ids []uuid.UUID) []uuid.UUID {
	res := []uuid.UUID{}
	for _, id := range ids {
		if !slices.Contains(res, id) {
			res = append(res, id)
		}
	}
	return res
}

func (s *Store) DeleteBusiness(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.businesses[id]; !ok {
		return repository.ErrNotFound
	}
	for _, o := range s.orders {
		if o.BusinessId == id {
			return repository.ErrInUse
		}
	}

	for _, section := range s.sectionsOf(id) {
		s.deleteSection(section.Id)
	}
	delete(s.businessAdmins, id)
	delete(s.businesses, id)
	return nil
}

// SECTIONS

func (s *Store) ListMenuSections(ctx context.Context) ([]models.MenuSectionWithRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]models.MenuSection, 0, len(s.sections))
	for _, section := range s.sections {
		rows = append(rows, section)
	}
	newestFirst(rows, func(m models.MenuSection) time.Time { return m.CreatedAt }, func(m models.MenuSection) uuid.UUID { return m.Id })

	res := make([]models.MenuSectionWithRelations, len(rows))
	for i, section := range rows {
		res[i] = models.MenuSectionWithRelations{
			Section:  section,
			Business: s.businesses[section.BusinessId],
			Items:    s.itemsOf(section.Id),
		}
	}
	return res, nil
}

func (s *Store) InsertMenuSection(ctx context.Context, name string, businessId uuid.UUID) (models.MenuSection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.businesses[businessId]; !ok {
		return models.MenuSection{}, repository.ErrMissingReference
	}

	section := models.MenuSection{
		Id:         uuid.New(),
		Name:       name,
		BusinessId: businessId,
		CreatedAt:  s.now(),
	}
	s.sections[section.Id] = section
	return section, nil
}

func (s *Store) UpdateMenuSection(ctx context.Context, id uuid.UUID, name string, businessId uuid.UUID) (models.MenuSection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	section, ok := s.sections[id]
	if !ok {
		return models.MenuSection{}, repository.ErrNotFound
	}
	if _, ok := s.businesses[businessId]; !ok {
		return models.MenuSection{}, repository.ErrMissingReference
	}

	section.Name = name
	section.BusinessId = businessId
	s.sections[id] = section
	return section, nil
}

func (s *Store) DeleteMenuSection(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sections[id]; !ok {
		return repository.ErrNotFound
	}
	s.deleteSection(id)
	return nil
}

func (s *Store) deleteSection(id uuid.UUID) {
	for _, item := range s.itemsOf(id) {
		s.deleteItem(item.Id)
	}
	delete(s.sections, id)
}

// ITEMS

func (s *Store) ListMenuItems(ctx context.Context, sectionId *uuid.UUID) ([]models.MenuItemWithSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := []models.MenuItem{}
	for _, item := range s.items {
		if sectionId == nil || item.MenuSectionId == *sectionId {
			rows = append(rows, item)
		}
	}
	newestFirst(rows, func(m models.MenuItem) time.Time { return m.CreatedAt }, func(m models.MenuItem) uuid.UUID { return m.Id })

	res := make([]models.MenuItemWithSection, len(rows))
	for i, item := range rows {
		res[i] = models.MenuItemWithSection{
			Item:        item,
			SectionName: s.sections[item.MenuSectionId].Name,
		}
	}
	return res, nil
}

func (s *Store) FindMenuItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return models.MenuItem{}, repository.ErrNotFound
	}
	return item, nil
}

func (s *Store) FindMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := []models.MenuItem{}
	for _, id := range uniqueIds(ids) {
		if item, ok := s.items[id]; ok {
			res = append(res, item)
		}
	}
	return res, nil
}

func (s *Store) checkItemInput(in models.MenuItemInput) error {
	if in.Price <= 0 || in.Price > models.MaxPrice {
		return repository.ErrInvalidValue
	}
	if _, ok := s.sections[in.MenuSectionId]; !ok {
		return repository.ErrMissingReference
	}
	return nil
}

func (s *Store) InsertMenuItem(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkItemInput(in); err != nil {
		return models.MenuItem{}, err
	}

	item := models.MenuItem{
		Id:            uuid.New(),
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		Type:          in.Type,
		ImageUrl:      in.ImageUrl,
		IsAvailable:   in.IsAvailable == nil || *in.IsAvailable,
		MenuSectionId: in.MenuSectionId,
		CreatedAt:     s.now(),
	}
	s.items[item.Id] = item
	return item, nil
}

func (s *Store) UpdateMenuItem(ctx context.Context, id uuid.UUID, in models.MenuItemInput) (models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return models.MenuItem{}, repository.ErrNotFound
	}
	if err := s.checkItemInput(in); err != nil {
		return models.MenuItem{}, err
	}

	item.Name = in.Name
	item.Price = in.Price
	item.MenuSectionId = in.MenuSectionId
	if in.Description != nil {
		item.Description = in.Description
	}
	if in.Type != nil {
		item.Type = in.Type
	}
	if in.ImageUrl != nil {
		item.ImageUrl = in.ImageUrl
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	s.items[id] = item
	return item, nil
}

func (s *Store) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	s.deleteItem(id)
	return nil
}

// deleteItem cascades to cart lines and detaches order lines,
// which keep their name and price snapshot.
func (s *Store) deleteItem(id uuid.UUID) {
	for ciId, ci := range s.cartItems {
		if ci.MenuItemId == id {
			delete(s.cartItems, ciId)
		}
	}
	for oiId, oi := range s.orderItems {
		if oi.MenuItemId != nil && *oi.MenuItemId == id {
			oi.MenuItemId = nil
			s.orderItems[oiId] = oi
		}
	}
	delete(s.items, id)
}
