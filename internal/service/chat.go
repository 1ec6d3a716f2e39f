package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
	"github.com/dimalbek/farmer-market/internal/repo"
)

const chatHistoryLimit = 50

type ChatService struct {
	Repo *repo.GormRepo
}

// StartChat lets a buyer open (or reopen) a conversation with a farmer. A
// second call for the same pair returns the existing chat.
func (s *ChatService) StartChat(ctx context.Context, buyerID, farmerID uint) (*models.Chat, error) {
	buyer, err := s.Repo.GetUser(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer.Role != models.RoleBuyer {
		return nil, fmt.Errorf("%w: only buyers can initiate chats", ErrForbidden)
	}

	farmer, err := s.Repo.GetUser(ctx, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: farmer %d", ErrNotFound, farmerID)
		}
		return nil, err
	}
	if farmer.Role != models.RoleFarmer {
		return nil, fmt.Errorf("%w: farmer %d", ErrNotFound, farmerID)
	}

	return s.Repo.GetOrCreateChat(ctx, buyer.ID, farmerID)
}

func (s *ChatService) ListChats(ctx context.Context, userID uint, role string) ([]models.Chat, error) {
	return s.Repo.ListChats(ctx, userID, role)
}

// AuthorizeParticipant loads the chat and verifies userID is one of its two
// participants and that the counterpart has the expected role: a buyer's room
// must have a farmer on the other side and vice versa.
func (s *ChatService) AuthorizeParticipant(ctx context.Context, chatID, userID uint) (*models.Chat, error) {
	chat, err := s.Repo.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: chat %d", ErrNotFound, chatID)
		}
		return nil, err
	}

	var counterpartID uint
	switch userID {
	case chat.BuyerID:
		counterpartID = chat.FarmerID
	case chat.FarmerID:
		counterpartID = chat.BuyerID
	default:
		return nil, fmt.Errorf("%w: not a participant of this chat", ErrForbidden)
	}

	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	counterpart, err := s.Repo.GetUser(ctx, counterpartID)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case models.RoleBuyer:
		if counterpart.Role != models.RoleFarmer {
			return nil, fmt.Errorf("%w: buyers can only talk to farmers", ErrForbidden)
		}
	case models.RoleFarmer:
		if counterpart.Role != models.RoleBuyer {
			return nil, fmt.Errorf("%w: farmers can only talk to buyers", ErrForbidden)
		}
	}

	return chat, nil
}

func (s *ChatService) History(ctx context.Context, chatID uint) ([]models.Message, error) {
	return s.Repo.RecentMessages(ctx, chatID, chatHistoryLimit)
}

// PostMessage validates and persists one inbound message. Empty or
// whitespace-only content is a validation error reported to the sender only.
func (s *ChatService) PostMessage(ctx context.Context, chatID, senderID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content required", ErrValidation)
	}
	return s.Repo.CreateMessage(ctx, chatID, senderID, content)
}
