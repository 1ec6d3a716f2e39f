package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/repo"
)

type AdminService struct {
	Repo *repo.GormRepo
}

func (s *AdminService) ListFarmers(ctx context.Context, status string) ([]models.FarmerProfile, error) {
	switch status {
	case "", models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected:
	default:
		return nil, fmt.Errorf("%w: unknown approval status %q", ErrValidation, status)
	}
	return s.Repo.ListFarmerProfiles(ctx, status)
}

func (s *AdminService) ReviewFarmer(ctx context.Context, profileID uint, approve bool) (*models.FarmerProfile, error) {
	status := models.ApprovalRejected
	if approve {
		status = models.ApprovalApproved
	}

	profile, err := s.Repo.SetFarmerApproval(ctx, profileID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: farmer profile %d", ErrNotFound, profileID)
		}
		return nil, err
	}
	return profile, nil
}
