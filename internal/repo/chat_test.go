package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dimalbek/farmer-market/internal/models"
)

func TestGetOrCreateChatIdempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.GetOrCreateChat(ctx, 1, 2)
	require.NoError(t, err)

	second, err := r.GetOrCreateChat(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, r.DB.Model(&models.Chat{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestListChatsByRole(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetOrCreateChat(ctx, 1, 10)
	require.NoError(t, err)
	_, err = r.GetOrCreateChat(ctx, 1, 11)
	require.NoError(t, err)
	_, err = r.GetOrCreateChat(ctx, 2, 10)
	require.NoError(t, err)

	chats, err := r.ListChats(ctx, 1, models.RoleBuyer)
	require.NoError(t, err)
	require.Len(t, chats, 2)

	chats, err = r.ListChats(ctx, 10, models.RoleFarmer)
	require.NoError(t, err)
	require.Len(t, chats, 2)

	chats, err = r.ListChats(ctx, 1, models.RoleAdmin)
	require.NoError(t, err)
	require.Empty(t, chats)
}

func TestRecentMessagesChronological(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	chat, err := r.GetOrCreateChat(ctx, 1, 2)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		_, err := r.CreateMessage(ctx, chat.ID, 1, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	messages, err := r.RecentMessages(ctx, chat.ID, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	// The newest three, oldest first.
	require.Equal(t, "message 3", messages[0].Content)
	require.Equal(t, "message 4", messages[1].Content)
	require.Equal(t, "message 5", messages[2].Content)
}

func TestRecentMessagesScopedToChat(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	chatA, err := r.GetOrCreateChat(ctx, 1, 2)
	require.NoError(t, err)
	chatB, err := r.GetOrCreateChat(ctx, 3, 2)
	require.NoError(t, err)

	_, err = r.CreateMessage(ctx, chatA.ID, 1, "for A")
	require.NoError(t, err)
	_, err = r.CreateMessage(ctx, chatB.ID, 3, "for B")
	require.NoError(t, err)

	messages, err := r.RecentMessages(ctx, chatA.ID, 50)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "for A", messages[0].Content)
}
