package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"cityfood/src/models"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	malianFirstNames = []string{
		"Amadou", "Mariam", "Ousmane", "Fatoumata", "Modibo", "Aissata", "Seydou", "Kadidia",
		"Ibrahima", "Djeneba", "Boubacar", "Aminata", "Moussa", "Zara", "Abdoulaye", "Hawa",
		"Sidi", "Nana", "Alassane", "Kadiatou",
	}
	malianLastNames = []string{
		"Diallo", "Traoré", "Coulibaly", "Sow", "Konaté", "Diarra", "Cissé", "Touré",
		"Camara", "Doumbia", "Sidibé", "Keita", "Bah", "Sylla", "Dembélé", "Fofana",
		"Sanogo", "Kanté", "Diakité", "Maïga",
	}
	cities = []string{"Bamako", "Ségou", "Kayes", "Sikasso", "Mopti"}
)

type seedCategory struct {
	name        string
	prefix      string
	description string
	businesses  int
}

var seedCategories = []seedCategory{
	{"Restaurant", "Restaurant", "Spécialités culinaires maliennes et africaines", 5},
	{"Pharmacie", "Pharmacie", "Pharmacie locale avec médicaments essentiels", 3},
	{"Boutique", "Boutique", "Vêtements, artisanat et produits locaux", 4},
	{"Supérette", "Supérette", "Épicerie de quartier", 2},
	{"Livraison", "Service", "Livraison rapide à domicile", 2},
	{"Taxi", "Taxi", "Transport urbain rapide", 2},
}

type seedDish struct {
	name        string
	description string
	price       int64
}

var (
	seedSections = []string{"Entrée", "Plat Principal", "Dessert"}
	seedDishes   = []seedDish{
		{"Salade Malienne", "Délicieuse salade fraîche préparée avec amour", 500},
		{"Poulet Yassa", "Délicieux poulet mariné préparé avec amour", 2000},
		{"Riz au Gras", "Délicieux riz épicé préparé avec amour", 1500},
		{"Tô avec Sauce", "Délicieux tô traditionnel préparé avec amour", 1200},
		{"Beignets de Banane", "Délicieux beignets sucrés préparés avec amour", 300},
	}
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

// Seeder fills an empty store with demo data through the services, so the
// same business rules apply as for API writes.
type Seeder struct {
	store   Store
	catalog *CatalogService
	carts   *CartService
	orders  *OrderService
	admins  *AdminService
	rng     *rand.Rand
	logger  *zap.Logger
}

func NewSeeder(store Store, params *argon2id.Params) *Seeder {
	return &Seeder{
		store:   store,
		catalog: NewCatalogService(store, store, store),
		carts:   NewCartService(store, store),
		orders:  NewOrderService(store, store),
		admins:  NewAdminService(store, params),
		rng:     rand.New(rand.NewPCG(2024, 223)),
		logger:  zap.L(),
	}
}

func (s *Seeder) malianName(n int) string {
	first := malianFirstNames[n%len(malianFirstNames)]
	last := malianLastNames[(n*7+n/len(malianFirstNames))%len(malianLastNames)]
	return first + " " + last
}

func (s *Seeder) phone() string {
	return fmt.Sprintf("+223%d", 10000000+s.rng.IntN(90000000))
}

// Seed does nothing when categories already exist.
func (s *Seeder) Seed(ctx context.Context) error {
	existing, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Info("Store already holds data, skipping seed")
		return nil
	}

	users, addresses, err := s.seedUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	restaurants, businessCount, err := s.seedBusinesses(ctx, users[:3])
	if err != nil {
		return fmt.Errorf("seed businesses: %w", err)
	}

	menus, err := s.seedMenus(ctx, restaurants)
	if err != nil {
		return fmt.Errorf("seed menus: %w", err)
	}

	carts, err := s.seedCarts(ctx, users[:5], menus)
	if err != nil {
		return fmt.Errorf("seed carts: %w", err)
	}

	orders, err := s.seedOrders(ctx, users, addresses, menus)
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	s.logger.Info("Demo data inserted",
		zap.Int("categories", len(seedCategories)),
		zap.Int("users", len(users)),
		zap.Int("businesses", businessCount),
		zap.Int("restaurants", len(restaurants)),
		zap.Int("carts", carts),
		zap.Int("orders", orders),
	)
	return nil
}

// the first three users are admins, everyone gets one address
func (s *Seeder) seedUsers(ctx context.Context) ([]models.User, map[uuid.UUID]uuid.UUID, error) {
	users := []models.User{}
	addresses := map[uuid.UUID]uuid.UUID{}

	add := func(email string, isAdmin bool) error {
		name := s.malianName(len(users))
		phone := s.phone()

		user, err := s.admins.createUser(ctx, models.NewUser{
			Email:    email,
			Password: SeedPassword,
			Name:     &name,
			Phone:    &phone,
			IsAdmin:  isAdmin,
		})
		if err != nil {
			return err
		}

		address, err := s.store.InsertAddress(ctx, models.NewAddress{
			Street:  fmt.Sprintf("Rue %d %s", s.rng.IntN(100), s.malianName(len(users)+11)),
			City:    cities[s.rng.IntN(len(cities))],
			ZipCode: fmt.Sprintf("%d", 1000+s.rng.IntN(9000)),
			Country: "Mali",
			UserId:  user.Id,
		})
		if err != nil {
			return err
		}

		users = append(users, user)
		addresses[user.Id] = address.Id
		return nil
	}

	for i := range 10 {
		if err := add(fmt.Sprintf("admin%d@cityfood.ml", i+1), i < 3); err != nil {
			return nil, nil, err
		}
	}
	for i := range 20 {
		if err := add(fmt.Sprintf("client%d@cityfood.ml", i+1), false); err != nil {
			return nil, nil, err
		}
	}

	return users, addresses, nil
}

func (s *Seeder) seedBusinesses(ctx context.Context, admins []models.User) ([]models.BusinessWithRelations, int, error) {
	restaurants := []models.BusinessWithRelations{}
	count := 0

	for ci, sc := range seedCategories {
		category, err := s.catalog.CreateCategory(ctx, sc.name, nil)
		if err != nil {
			return nil, 0, err
		}

		for i := range sc.businesses {
			description := sc.description
			imageUrl := fmt.Sprintf("https://example.com/%s-%d.jpg", category.Slug, i+1)
			isOpen := s.rng.Float64() > 0.2
			admin := admins[s.rng.IntN(len(admins))]

			business, err := s.catalog.CreateBusiness(ctx, models.BusinessInput{
				Name:        fmt.Sprintf("%s %s", sc.prefix, s.malianName(count+ci)),
				Description: &description,
				ImageUrl:    &imageUrl,
				CategoryId:  category.Id,
				IsOpen:      &isOpen,
				AdminIds:    []uuid.UUID{admin.Id},
			})
			if err != nil {
				return nil, 0, err
			}

			count++
			if ci == 0 {
				restaurants = append(restaurants, business)
			}
		}
	}

	return restaurants, count, nil
}

// seedMenus returns the created items per restaurant
func (s *Seeder) seedMenus(ctx context.Context, restaurants []models.BusinessWithRelations) (map[uuid.UUID][]models.MenuItem, error) {
	menus := map[uuid.UUID][]models.MenuItem{}
	dishType := "plat"

	for _, restaurant := range restaurants {
		for _, sectionName := range seedSections {
			section, err := s.catalog.CreateMenuSection(ctx, sectionName, restaurant.Business.Id)
			if err != nil {
				return nil, err
			}

			for _, dish := range seedDishes {
				description := dish.description
				isAvailable := s.rng.Float64() > 0.1

				item, err := s.catalog.CreateMenuItem(ctx, models.MenuItemInput{
					Name:          dish.name,
					Description:   &description,
					Price:         dish.price,
					Type:          &dishType,
					IsAvailable:   &isAvailable,
					MenuSectionId: section.Id,
				})
				if err != nil {
					return nil, err
				}
				menus[restaurant.Business.Id] = append(menus[restaurant.Business.Id], item)
			}
		}
	}

	return menus, nil
}

func (s *Seeder) restaurantIds(menus map[uuid.UUID][]models.MenuItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(menus))
	for id := range menus {
		ids = append(ids, id)
	}
	return ids
}

func (s *Seeder) seedCarts(ctx context.Context, users []models.User, menus map[uuid.UUID][]models.MenuItem) (int, error) {
	restaurants := s.restaurantIds(menus)

	for _, user := range users {
		items := menus[restaurants[s.rng.IntN(len(restaurants))]]
		for range s.rng.IntN(3) + 1 {
			item := items[s.rng.IntN(len(items))]
			if _, err := s.carts.AddToCart(ctx, user.Id, item.Id, s.rng.IntN(3)+1); err != nil {
				return 0, err
			}
		}
	}

	return len(users), nil
}

// orders are spread over the last 30 days so the dashboard charts have data
func (s *Seeder) seedOrders(ctx context.Context, users []models.User, addresses map[uuid.UUID]uuid.UUID, menus map[uuid.UUID][]models.MenuItem) (int, error) {
	restaurants := s.restaurantIds(menus)
	now := time.Now().UTC()
	count := 40

	for range count {
		user := users[s.rng.IntN(len(users))]
		businessId := restaurants[s.rng.IntN(len(restaurants))]
		items := menus[businessId]

		lines := []OrderLine{}
		for range s.rng.IntN(3) + 1 {
			lines = append(lines, OrderLine{
				MenuItemId: items[s.rng.IntN(len(items))].Id,
				Quantity:   s.rng.IntN(3) + 1,
			})
		}

		_, err := s.orders.CreateOrder(ctx, OrderRequest{
			UserId:     user.Id,
			Phone:      *user.Phone,
			AddressId:  addresses[user.Id],
			BusinessId: businessId,
			Status:     models.OrderStatuses[s.rng.IntN(len(models.OrderStatuses))],
			Lines:      lines,
			CreatedAt:  now.Add(-time.Duration(s.rng.IntN(30*24)) * time.Hour),
		})
		if err != nil {
			return 0, err
		}
	}

	return count, nil
}
