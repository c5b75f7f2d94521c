package services

import (
	"context"

	"cityfood/src/models"
	"cityfood/src/repository"
	"cityfood/src/utils"

	"github.com/google/uuid"
)

// CatalogService manages categories, businesses, menu sections and items.
type CatalogService struct {
	categories CategoryStore
	businesses BusinessStore
	menu       MenuStore
}

func NewCatalogService(categories CategoryStore, businesses BusinessStore, menu MenuStore) *CatalogService {
	return &CatalogService{categories: categories, businesses: businesses, menu: menu}
}

// CATEGORIES

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string, imageUrl *string) (models.Category, error) {
	if err := validateName(name, 2); err != nil {
		return models.Category{}, err
	}

	slug := utils.Slugify(name)
	taken, err := s.categories.CategorySlugExists(ctx, slug, nil)
	if err != nil {
		return models.Category{}, fromStore(err, nil)
	}
	if taken {
		return models.Category{}, categoryExists
	}

	// the unique constraint still catches a concurrent insert of the same slug
	category, err := s.categories.InsertCategory(ctx, name, slug, imageUrl)
	if err != nil {
		return models.Category{}, fromStore(err, outcome{repository.ErrDuplicate: categoryExists})
	}
	return category, nil
}

// UpdateCategory re-derives the slug. The image is only replaced when given.
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name string, imageUrl *string) (models.Category, error) {
	if err := validateName(name, 2); err != nil {
		return models.Category{}, err
	}

	slug := utils.Slugify(name)
	taken, err := s.categories.CategorySlugExists(ctx, slug, &id)
	if err != nil {
		return models.Category{}, fromStore(err, nil)
	}
	if taken {
		return models.Category{}, categoryExists
	}

	category, err := s.categories.UpdateCategory(ctx, id, name, slug, imageUrl)
	if err != nil {
		return models.Category{}, fromStore(err, outcome{
			repository.ErrNotFound:  categoryNotFound,
			repository.ErrDuplicate: categoryExists,
		})
	}
	return category, nil
}

// DeleteCategory refuses while businesses still reference the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.categories.DeleteCategory(ctx, id)
	if err != nil {
		return fromStore(err, outcome{
			repository.ErrNotFound: categoryNotFound,
			repository.ErrInUse:    categoryInUse,
		})
	}
	return nil
}

// BUSINESSES

func (s *CatalogService) ListBusinesses(ctx context.Context) ([]models.BusinessWithRelations, error) {
	businesses, err := s.businesses.ListBusinesses(ctx)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	return businesses, nil
}

// GetBusiness looks the business up by id or by slug.
func (s *CatalogService) GetBusiness(ctx context.Context, idOrSlug string, includeSections bool) (models.BusinessWithRelations, error) {
	business, err := s.businesses.FindBusiness(ctx, idOrSlug, includeSections)
	if err != nil {
		return models.BusinessWithRelations{}, fromStore(err, outcome{repository.ErrNotFound: businessNotFound})
	}
	return business, nil
}

func (s *CatalogService) CreateBusiness(ctx context.Context, in models.BusinessInput) (models.BusinessWithRelations, error) {
	if err := validateName(in.Name, 2); err != nil {
		return models.BusinessWithRelations{}, err
	}

	in.Slug = utils.Slugify(in.Name)
	taken, err := s.businesses.BusinessSlugExists(ctx, in.Slug, nil)
	if err != nil {
		return models.BusinessWithRelations{}, fromStore(err, nil)
	}
	if taken {
		return models.BusinessWithRelations{}, businessExists
	}

	business, err := s.businesses.InsertBusiness(ctx, in)
	if err != nil {
		return models.BusinessWithRelations{}, fromStore(err, outcome{
			repository.ErrDuplicate:        businessExists,
			repository.ErrMissingReference: businessRefsMissing,
		})
	}
	return business, nil
}

// UpdateBusiness replaces the admin set when in.AdminIds is non-nil and
// leaves it untouched otherwise.
func (s *CatalogService) UpdateBusiness(ctx context.Context, id uuid.UUID, in models.BusinessInput) (models.BusinessWithRelations, error) {
	if err := validateName(in.Name, 2); err != nil {
		return models.BusinessWithRelations{}, err
	}

	in.Slug = utils.Slugify(in.Name)
	taken, err := s.businesses.BusinessSlugExists(ctx, in.Slug, &id)
	if err != nil {
		return models.BusinessWithRelations{}, fromStore(err, nil)
	}
	if taken {
		return models.BusinessWithRelations{}, businessExists
	}

	business, err := s.businesses.UpdateBusiness(ctx, id, in)
	if err != nil {
		return models.BusinessWithRelations{}, fromStore(err, outcome{
			repository.ErrNotFound:         businessNotFound,
			repository.ErrDuplicate:        businessExists,
			repository.ErrMissingReference: businessRefsMissing,
		})
	}
	return business, nil
}

// DeleteBusiness removes its sections, items and admin links too.
func (s *CatalogService) DeleteBusiness(ctx context.Context, id uuid.UUID) error {
	err := s.businesses.DeleteBusiness(ctx, id)
	if err != nil {
		return fromStore(err, outcome{
			repository.ErrNotFound: businessNotFound,
			repository.ErrInUse:    businessHasOrders,
		})
	}
	return nil
}

// MENU SECTIONS

func (s *CatalogService) ListMenuSections(ctx context.Context) ([]models.MenuSectionWithRelations, error) {
	sections, err := s.menu.ListMenuSections(ctx)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	return sections, nil
}

func (s *CatalogService) CreateMenuSection(ctx context.Context, name string, businessId uuid.UUID) (models.MenuSection, error) {
	if err := validateName(name, 1); err != nil {
		return models.MenuSection{}, err
	}

	section, err := s.menu.InsertMenuSection(ctx, name, businessId)
	if err != nil {
		return models.MenuSection{}, fromStore(err, outcome{repository.ErrMissingReference: businessNotFound})
	}
	return section, nil
}

func (s *CatalogService) UpdateMenuSection(ctx context.Context, id uuid.UUID, name string, businessId uuid.UUID) (models.MenuSection, error) {
	if err := validateName(name, 1); err != nil {
		return models.MenuSection{}, err
	}

	section, err := s.menu.UpdateMenuSection(ctx, id, name, businessId)
	if err != nil {
		return models.MenuSection{}, fromStore(err, outcome{
			repository.ErrNotFound:         sectionNotFound,
			repository.ErrMissingReference: businessNotFound,
		})
	}
	return section, nil
}

// DeleteMenuSection removes the section's items as well.
func (s *CatalogService) DeleteMenuSection(ctx context.Context, id uuid.UUID) error {
	err := s.menu.DeleteMenuSection(ctx, id)
	if err != nil {
		return fromStore(err, outcome{repository.ErrNotFound: sectionNotFound})
	}
	return nil
}

// MENU ITEMS

// ListMenuItems returns all items, or those of one section when sectionId is set.
func (s *CatalogService) ListMenuItems(ctx context.Context, sectionId *uuid.UUID) ([]models.MenuItemWithSection, error) {
	items, err := s.menu.ListMenuItems(ctx, sectionId)
	if err != nil {
		return nil, fromStore(err, nil)
	}
	return items, nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	if err := validateName(in.Name, 1); err != nil {
		return models.MenuItem{}, err
	}
	if in.Price <= 0 || in.Price > models.MaxPrice {
		return models.MenuItem{}, invalidPrice
	}

	item, err := s.menu.InsertMenuItem(ctx, in)
	if err != nil {
		return models.MenuItem{}, fromStore(err, outcome{
			repository.ErrMissingReference: sectionNotFound,
			repository.ErrInvalidValue:     invalidPrice,
		})
	}
	return item, nil
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, id uuid.UUID, in models.MenuItemInput) (models.MenuItem, error) {
	if err := validateName(in.Name, 1); err != nil {
		return models.MenuItem{}, err
	}
	if in.Price <= 0 || in.Price > models.MaxPrice {
		return models.MenuItem{}, invalidPrice
	}

	item, err := s.menu.UpdateMenuItem(ctx, id, in)
	if err != nil {
		return models.MenuItem{}, fromStore(err, outcome{
			repository.ErrNotFound:         menuItemNotFound,
			repository.ErrMissingReference: sectionNotFound,
			repository.ErrInvalidValue:     invalidPrice,
		})
	}
	return item, nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	err := s.menu.DeleteMenuItem(ctx, id)
	if err != nil {
		return fromStore(err, outcome{repository.ErrNotFound: menuItemNotFound})
	}
	return nil
}
