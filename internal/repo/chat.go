package repo

import (
	"context"

	"github.com/dimalbek/farmer-market/internal/models"
)

func (r *GormRepo) GetChat(ctx context.Context, chatID uint) (*models.Chat, error) {
	var chat models.Chat
	if err := r.DB.WithContext(ctx).First(&chat, chatID).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetOrCreateChat is idempotent per (buyer, farmer): a second call returns
// the existing row. The unique index on the pair backs this up under
// concurrent creation.
func (r *GormRepo) GetOrCreateChat(ctx context.Context, buyerID, farmerID uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.DB.WithContext(ctx).
		Where("buyer_id = ? AND farmer_id = ?", buyerID, farmerID).
		FirstOrCreate(&chat, models.Chat{BuyerID: buyerID, FarmerID: farmerID}).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *GormRepo) ListChats(ctx context.Context, userID uint, role string) ([]models.Chat, error) {
	q := r.DB.WithContext(ctx)
	switch role {
	case models.RoleBuyer:
		q = q.Where("buyer_id = ?", userID)
	case models.RoleFarmer:
		q = q.Where("farmer_id = ?", userID)
	default:
		return nil, nil
	}

	var chats []models.Chat
	if err := q.Order("id ASC").Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *GormRepo) CreateMessage(ctx context.Context, chatID, senderID uint, content string) (*models.Message, error) {
	msg := models.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	if err := r.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// RecentMessages returns the newest limit messages in chronological order.
// Insertion id breaks timestamp ties.
func (r *GormRepo) RecentMessages(ctx context.Context, chatID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	if err := r.DB.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
