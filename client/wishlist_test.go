package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistAddRefreshesFromServer(t *testing.T) {
	c, _, notifier := newTestClient(t)
	ctx := context.Background()

	res := c.Wishlist.Add(ctx, 2)
	require.True(t, res.OK)

	items := c.Wishlist.Items()
	require.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].BookID)
	assert.Equal(t, "Release It!", items[0].BookTitle)
	// Mirrored display pricing: 15.00 minus the 20% sale.
	assert.Equal(t, 12.00, items[0].DiscountedPrice)
	assert.True(t, items[0].Available)

	successes, _ := notifier.counts()
	assert.Equal(t, 1, successes)
}

func TestWishlistContainsProbe(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx := context.Background()

	assert.False(t, c.Wishlist.Contains(ctx, 1))
	require.True(t, c.Wishlist.Add(ctx, 1).OK)
	assert.True(t, c.Wishlist.Contains(ctx, 1))
}

func TestWishlistContainsDegradesToFalseOnFailure(t *testing.T) {
	c, fake, _ := newTestClient(t)
	ctx := context.Background()

	require.True(t, c.Wishlist.Add(ctx, 1).OK)
	require.True(t, c.Wishlist.Contains(ctx, 1))

	fake.setFailure("boom")
	assert.False(t, c.Wishlist.Contains(ctx, 1))
	// A membership probe never surfaces an error state.
	assert.Empty(t, c.Wishlist.Err())
}

func TestWishlistRemove(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx := context.Background()

	require.True(t, c.Wishlist.Add(ctx, 1).OK)
	itemID := c.Wishlist.Items()[0].ID

	res := c.Wishlist.Remove(ctx, itemID)
	require.True(t, res.OK)
	assert.Empty(t, c.Wishlist.Items())

	res = c.Wishlist.Remove(ctx, itemID)
	require.False(t, res.OK)
	assert.Equal(t, "Wishlist item not found", res.Message)
}

func TestWishlistFailurePreservesItems(t *testing.T) {
	c, fake, _ := newTestClient(t)
	ctx := context.Background()

	require.True(t, c.Wishlist.Add(ctx, 1).OK)
	before := c.Wishlist.Items()

	fake.setFailure("boom")
	res := c.Wishlist.Add(ctx, 2)
	require.False(t, res.OK)
	assert.Equal(t, before, c.Wishlist.Items())
	assert.False(t, c.Wishlist.IsLoading())
}

func TestWishlistUnauthenticatedFetchIsSilent(t *testing.T) {
	fake := newFakeGateway(t)
	c := New(Config{BaseURL: fake.srv.URL})

	c.Wishlist.Fetch(context.Background())
	assert.Equal(t, 0, fake.requestCount())
	assert.Empty(t, c.Wishlist.Items())
	assert.Empty(t, c.Wishlist.Err())
	assert.False(t, c.Wishlist.Contains(context.Background(), 1))
}
