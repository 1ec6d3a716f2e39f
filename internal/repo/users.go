package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
)

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user and its role profile in one transaction.
func (r *GormRepo) CreateUser(ctx context.Context, user *models.User, farmer *models.FarmerProfile, buyer *models.BuyerProfile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if farmer != nil {
			farmer.UserID = user.ID
			if err := tx.Create(farmer).Error; err != nil {
				return err
			}
		}
		if buyer != nil {
			buyer.UserID = user.ID
			if err := tx.Create(buyer).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) GetFarmerProfile(ctx context.Context, userID uint) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormRepo) ListFarmerProfiles(ctx context.Context, status string) ([]models.FarmerProfile, error) {
	q := r.DB.WithContext(ctx).Model(&models.FarmerProfile{})
	if status != "" {
		q = q.Where("approval_status = ?", status)
	}

	var profiles []models.FarmerProfile
	if err := q.Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *GormRepo) SetFarmerApproval(ctx context.Context, profileID uint, status string) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, profileID).Error; err != nil {
			return err
		}
		profile.ApprovalStatus = status
		return tx.Model(&profile).Update("approval_status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
