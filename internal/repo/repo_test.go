package repo

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FarmerProfile{},
		&models.BuyerProfile{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.CartItem{},
		&models.Chat{},
		&models.Message{},
	))

	return &GormRepo{DB: db}
}

func seedProduct(t *testing.T, r *GormRepo, name string, price float64, quantity uint) models.Product {
	t.Helper()

	product := models.Product{
		FarmerID: 1,
		Name:     name,
		Category: "Vegetables",
		Price:    price,
		Quantity: quantity,
	}
	require.NoError(t, r.DB.Create(&product).Error)
	return product
}

func productQuantity(t *testing.T, r *GormRepo, id uint) uint {
	t.Helper()

	var product models.Product
	require.NoError(t, r.DB.First(&product, id).Error)
	return product.Quantity
}
