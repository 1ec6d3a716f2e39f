package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/repo"
)

func TestCreateProductRequiresApprovedFarmer(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	farmer := seedUser(t, r, "farmer@example.com", models.RoleFarmer)
	profile := seedFarmerProfile(t, r, farmer.ID, models.ApprovalPending)

	product := models.Product{Name: "honey", Category: "Dairy", Price: 12}
	_, err := svc.CreateProduct(ctx, farmer.ID, &product)
	require.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, r.DB.Model(&models.FarmerProfile{}).
		Where("id = ?", profile.ID).
		Update("approval_status", models.ApprovalApproved).Error)

	created, err := svc.CreateProduct(ctx, farmer.ID, &product)
	require.NoError(t, err)
	require.Equal(t, profile.ID, created.FarmerID)
}

func TestCreateProductValidation(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	farmer := seedUser(t, r, "farmer@example.com", models.RoleFarmer)
	seedFarmerProfile(t, r, farmer.ID, models.ApprovalApproved)

	_, err := svc.CreateProduct(ctx, farmer.ID, &models.Product{Category: "Vegetables"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, farmer.ID, &models.Product{Name: "x", Category: "Gadgets"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, farmer.ID, &models.Product{Name: "x", Category: "Vegetables", Price: -1})
	require.ErrorIs(t, err, ErrValidation)
}

func TestPatchProductOwnership(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	owner := seedUser(t, r, "owner@example.com", models.RoleFarmer)
	ownerProfile := seedFarmerProfile(t, r, owner.ID, models.ApprovalApproved)
	other := seedUser(t, r, "other@example.com", models.RoleFarmer)
	seedFarmerProfile(t, r, other.ID, models.ApprovalApproved)

	product := seedProduct(t, r, ownerProfile.ID, "honey", 12.00, 4)

	newPrice := 14.50
	updated, err := svc.PatchProduct(ctx, owner.ID, product.ID, repo.PatchProductRequest{Price: &newPrice})
	require.NoError(t, err)
	require.InDelta(t, 14.50, updated.Price, 1e-9)
	require.Equal(t, "honey", updated.Name)

	_, err = svc.PatchProduct(ctx, other.ID, product.ID, repo.PatchProductRequest{Price: &newPrice})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteProductOwnership(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	owner := seedUser(t, r, "owner@example.com", models.RoleFarmer)
	ownerProfile := seedFarmerProfile(t, r, owner.ID, models.ApprovalApproved)
	product := seedProduct(t, r, ownerProfile.ID, "honey", 12.00, 4)

	require.NoError(t, svc.DeleteProduct(ctx, owner.ID, product.ID))

	err := svc.DeleteProduct(ctx, owner.ID, product.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsFilters(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	seedProduct(t, r, 1, "tomatoes", 3.50, 10)
	seedProduct(t, r, 1, "cucumbers", 2.00, 10)
	milk := models.Product{FarmerID: 1, Name: "milk", Category: "Dairy", Price: 2.80, Quantity: 12}
	require.NoError(t, r.DB.Create(&milk).Error)

	total, items, err := svc.ListProducts(ctx, "", 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 3)

	total, items, err = svc.ListProducts(ctx, "Vegetables", 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	_, _, err = svc.ListProducts(ctx, "Gadgets", 0, 20)
	require.ErrorIs(t, err, ErrValidation)
}
