package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/repo"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, category string, offset, limit int) (int64, []models.Product, error) {
	if category != "" && !models.ValidCategory(category) {
		return 0, nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	return s.Repo.GetProducts(ctx, category, offset, limit)
}

// CreateProduct requires an approved farmer profile; listings from pending or
// rejected farmers never reach the catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, farmerUserID uint, product *models.Product) (*models.Product, error) {
	if product.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if !models.ValidCategory(product.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, product.Category)
	}
	if product.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	profile, err := s.approvedProfile(ctx, farmerUserID)
	if err != nil {
		return nil, err
	}

	product.FarmerID = profile.ID
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, farmerUserID, productID uint, req repo.PatchProductRequest) (*models.Product, error) {
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *req.Category)
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	if err := s.ownsProduct(ctx, farmerUserID, productID); err != nil {
		return nil, err
	}

	product, err := s.Repo.PatchProduct(ctx, productID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, farmerUserID, productID uint) error {
	if err := s.ownsProduct(ctx, farmerUserID, productID); err != nil {
		return err
	}

	if err := s.Repo.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}
	return nil
}

func (s *CatalogService) approvedProfile(ctx context.Context, farmerUserID uint) (*models.FarmerProfile, error) {
	profile, err := s.Repo.GetFarmerProfile(ctx, farmerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no farmer profile", ErrForbidden)
		}
		return nil, err
	}
	if profile.ApprovalStatus != models.ApprovalApproved {
		return nil, fmt.Errorf("%w: farmer profile not approved", ErrForbidden)
	}
	return profile, nil
}

func (s *CatalogService) ownsProduct(ctx context.Context, farmerUserID, productID uint) error {
	profile, err := s.approvedProfile(ctx, farmerUserID)
	if err != nil {
		return err
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}
	if product.FarmerID != profile.ID {
		return fmt.Errorf("%w: not your product", ErrForbidden)
	}
	return nil
}
