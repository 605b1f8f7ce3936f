// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/store"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	logrus.Info("Running database auto-migrations...")

	// Dependency order: base tables first
	models := []interface{}{
		&user.User{},
		&store.Store{},
		&store.CreationRequest{},
		&product.Product{},
		&cart.CartLine{},
		&order.Order{},
		&order.OrderLine{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	logrus.Info("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		"CREATE INDEX IF NOT EXISTS idx_products_store_active ON products(store_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_cart_lines_user ON cart_lines(user_id)",

		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_store_created ON orders(store_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_lines_product ON order_lines(product_id)",

		"CREATE INDEX IF NOT EXISTS idx_store_requests_status ON store_creation_requests(status, created_at)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			logrus.WithError(err).Warn("Failed to create index")
		}
	}

	return nil
}

// SeedInitialData inserts development fixtures: an admin, a seller with an
// approved store and two products, and a plain customer.
func (m *Migration) SeedInitialData() error {
	logrus.Info("Seeding initial data...")

	if _, err := m.seedUser("admin@example.com", "admin123", "Admin", "User", user.RoleAdmin); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	seller, err := m.seedUser("seller@example.com", "seller123", "Sample", "Seller", user.RoleSeller)
	if err != nil {
		return fmt.Errorf("failed to seed seller user: %w", err)
	}

	if _, err := m.seedUser("customer@example.com", "customer123", "Test", "Customer", user.RoleCustomer); err != nil {
		return fmt.Errorf("failed to seed customer user: %w", err)
	}

	if err := m.seedStoreWithProducts(seller); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}

	logrus.Info("Initial data seeded successfully")
	return nil
}

func (m *Migration) seedUser(email, password, firstName, lastName, role string) (*user.User, error) {
	var existing user.User
	if err := m.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return &existing, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  true,
	}
	if err := m.db.Create(&u).Error; err != nil {
		return nil, err
	}

	logrus.WithField("email", email).Info("Seeded user")
	return &u, nil
}

func (m *Migration) seedStoreWithProducts(owner *user.User) error {
	var existing store.Store
	if err := m.db.Where("owner_id = ?", owner.ID).First(&existing).Error; err == nil {
		return nil
	}

	st := store.Store{
		Name:        "Sample Goods",
		Description: "Development fixture store",
		OwnerID:     owner.ID,
		IsActive:    true,
	}
	if err := m.db.Create(&st).Error; err != nil {
		return err
	}

	products := []product.Product{
		{
			Name:          "Ceramic Teapot",
			Description:   "Hand-glazed ceramic teapot, 1.2l",
			Price:         3499,
			StockQuantity: 20,
			IsActive:      true,
			StoreID:       st.ID,
		},
		{
			Name:          "Loose Leaf Green Tea",
			Description:   "100g tin of loose leaf green tea",
			Price:         899,
			StockQuantity: 50,
			IsActive:      true,
			StoreID:       st.ID,
		},
	}
	for _, prod := range products {
		if err := m.db.Create(&prod).Error; err != nil {
			logrus.WithError(err).WithField("product", prod.Name).Warn("Failed to seed product")
		}
	}

	logrus.WithField("store", st.Name).Info("Seeded store with products")
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	logrus.Warn("Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"order_lines",
		"orders",
		"cart_lines",
		"products",
		"store_creation_requests",
		"stores",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			logrus.WithError(err).WithField("table", table).Warn("Failed to drop table")
		}
	}

	return nil
}
