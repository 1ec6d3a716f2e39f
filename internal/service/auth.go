package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/hash"
	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/mykafka"
	"github.com/dimalbek/farmer-market/internal/repo"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Producer  *mykafka.Producer
}

type RegisterRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`

	// Farmer fields
	FarmName string  `json:"farm_name"`
	Location string  `json:"location"`
	FarmSize float64 `json:"farm_size"`

	// Buyer fields
	DeliveryAddress string `json:"delivery_address"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return nil, fmt.Errorf("%w: fullname, email and password required", ErrValidation)
	}

	switch req.Role {
	case models.RoleFarmer:
		if req.FarmName == "" || req.Location == "" {
			return nil, fmt.Errorf("%w: farm_name and location required", ErrValidation)
		}
	case models.RoleBuyer:
		if req.DeliveryAddress == "" {
			return nil, fmt.Errorf("%w: delivery_address required", ErrValidation)
		}
	case models.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: user already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Role:         req.Role,
		IsActive:     true,
	}

	var (
		farmer *models.FarmerProfile
		buyer  *models.BuyerProfile
	)
	switch req.Role {
	case models.RoleFarmer:
		// New farmers wait for admin approval before they may sell.
		farmer = &models.FarmerProfile{
			FarmName:       req.FarmName,
			Location:       req.Location,
			FarmSize:       req.FarmSize,
			ApprovalStatus: models.ApprovalPending,
		}
	case models.RoleBuyer:
		buyer = &models.BuyerProfile{DeliveryAddress: req.DeliveryAddress}
	}

	if err := s.Repo.CreateUser(ctx, &user, farmer, buyer); err != nil {
		return nil, err
	}

	event := map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"role":   user.Role,
	}
	_ = s.Producer.PublishEvent(ctx, mykafka.TopicUserEvents, fmt.Sprint(user.ID), event)

	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
		}
		return "", nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrForbidden)
	}

	token, err := SignAccessToken(user.ID, user.Role, s.JWTSecret)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
