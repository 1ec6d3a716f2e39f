package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
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

	return &repo.GormRepo{DB: db}
}

func seedUser(t *testing.T, r *repo.GormRepo, email, role string) models.User {
	t.Helper()

	user := models.User{
		FullName:     "Test " + role,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, r.DB.Create(&user).Error)
	return user
}

func seedFarmerProfile(t *testing.T, r *repo.GormRepo, userID uint, status string) models.FarmerProfile {
	t.Helper()

	profile := models.FarmerProfile{
		UserID:         userID,
		FarmName:       "Green Acres",
		Location:       "Almaty",
		ApprovalStatus: status,
	}
	require.NoError(t, r.DB.Create(&profile).Error)
	return profile
}

func seedProduct(t *testing.T, r *repo.GormRepo, farmerID uint, name string, price float64, quantity uint) models.Product {
	t.Helper()

	product := models.Product{
		FarmerID: farmerID,
		Name:     name,
		Category: "Vegetables",
		Price:    price,
		Quantity: quantity,
	}
	require.NoError(t, r.DB.Create(&product).Error)
	return product
}

func addCartLine(t *testing.T, r *repo.GormRepo, userID, productID, quantity uint) {
	t.Helper()
	require.NoError(t, r.AddToCart(context.Background(),
		&models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}))
}

func productQuantity(t *testing.T, r *repo.GormRepo, id uint) uint {
	t.Helper()

	var product models.Product
	require.NoError(t, r.DB.First(&product, id).Error)
	return product.Quantity
}

func orderCount(t *testing.T, r *repo.GormRepo) int64 {
	t.Helper()

	var count int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&count).Error)
	return count
}
