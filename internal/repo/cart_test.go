package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dimalbek/farmer-market/internal/models"
)

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	carrots := seedProduct(t, r, "carrots", 1.20, 50)

	first := models.CartItem{UserID: 1, ProductID: carrots.ID, Quantity: 2}
	require.NoError(t, r.AddToCart(ctx, &first))

	second := models.CartItem{UserID: 1, ProductID: carrots.ID, Quantity: 3}
	require.NoError(t, r.AddToCart(ctx, &second))
	require.Equal(t, uint(5), second.Quantity)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSetCartQuantity(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	carrots := seedProduct(t, r, "carrots", 1.20, 50)
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: carrots.ID, Quantity: 2}))

	item, err := r.SetCartQuantity(ctx, 1, carrots.ID, 7)
	require.NoError(t, err)
	require.Equal(t, uint(7), item.Quantity)

	// Zero removes the line entirely.
	item, err = r.SetCartQuantity(ctx, 1, carrots.ID, 0)
	require.NoError(t, err)
	require.Nil(t, item)

	lines, err := r.GetCartLines(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestGetCartLinesPairsProducts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	carrots := seedProduct(t, r, "carrots", 1.20, 50)
	milk := seedProduct(t, r, "milk", 2.80, 12)
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: carrots.ID, Quantity: 2}))
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: milk.ID, Quantity: 1}))

	lines, err := r.GetCartLines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "carrots", lines[0].Product.Name)
	require.Equal(t, uint(2), lines[0].Item.Quantity)
	require.Equal(t, "milk", lines[1].Product.Name)
}

func TestGetCartLinesMissingProduct(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: 999, Quantity: 2}))

	_, err := r.GetCartLines(ctx, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRemoveFromCart(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	carrots := seedProduct(t, r, "carrots", 1.20, 50)
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: carrots.ID, Quantity: 2}))

	require.NoError(t, r.RemoveFromCart(ctx, 1, carrots.ID))
	require.ErrorIs(t, r.RemoveFromCart(ctx, 1, carrots.ID), gorm.ErrRecordNotFound)
}

func TestClearCartScopedToUser(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	carrots := seedProduct(t, r, "carrots", 1.20, 50)
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 1, ProductID: carrots.ID, Quantity: 2}))
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{UserID: 2, ProductID: carrots.ID, Quantity: 4}))

	require.NoError(t, r.ClearCart(ctx, 1))

	lines, err := r.GetCartLines(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, lines)

	lines, err = r.GetCartLines(ctx, 2)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}
