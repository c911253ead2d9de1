package storefront_test

import (
	"context"
	"errors"
	"testing"

	"lyyn/pkg/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistToggle_RequiresLogin(t *testing.T) {
	api := newFakeAPI(tee(5))
	sf := storefront.New(api)
	sf.QuickAdd(tee(5))
	cartBefore := sf.Cart().State()
	wishBefore := sf.WishlistStore().State()

	saved, err := sf.ToggleWishlist(context.Background(), "P1")
	assert.False(t, saved)
	require.ErrorIs(t, err, storefront.ErrLoginRequired)
	assert.Equal(t, "Please login to use wishlist", err.Error())

	assert.Equal(t, cartBefore, sf.Cart().State())
	assert.Equal(t, wishBefore, sf.WishlistStore().State())
	assert.Empty(t, api.saved)
}

func TestWishlistToggle_TwiceRestoresMembership(t *testing.T) {
	api := newFakeAPI(tee(5))
	sf := storefront.New(api)
	_, err := sf.Login(context.Background(), "asha@example.com", "secret")
	require.NoError(t, err)
	before := sf.WishlistStore().State()

	saved, err := sf.ToggleWishlist(context.Background(), "P1")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.True(t, sf.WishlistStore().State().Contains("P1"))
	assert.Equal(t, "tok", api.lastToken)

	saved, err = sf.ToggleWishlist(context.Background(), "P1")
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, before.Contains("P1"), sf.WishlistStore().State().Contains("P1"))
	assert.Empty(t, sf.WishlistStore().State().Items)
}

func TestWishlistToggle_RemoteFailureKeepsState(t *testing.T) {
	api := newFakeAPI(tee(5))
	sf := storefront.New(api)
	_, err := sf.Login(context.Background(), "asha@example.com", "secret")
	require.NoError(t, err)
	_, err = sf.ToggleWishlist(context.Background(), "P1")
	require.NoError(t, err)

	api.wishErr = errors.New("backend down")
	saved, err := sf.ToggleWishlist(context.Background(), "P1")
	assert.Error(t, err)
	assert.True(t, saved)
	assert.True(t, sf.WishlistStore().State().Contains("P1"))
}

func TestWishlist_SyncOnLoginClearOnLogout(t *testing.T) {
	api := newFakeAPI(tee(5))
	api.saved = []string{"P1"}
	sf := storefront.New(api)

	_, err := sf.Login(context.Background(), "asha@example.com", "secret")
	require.NoError(t, err)
	items := sf.WishlistStore().State().Items
	require.Len(t, items, 1)
	assert.Equal(t, "a.jpg", items[0].Image)

	sf.Logout()
	assert.Empty(t, sf.WishlistStore().State().Items)
	assert.False(t, sf.Auth().State().Authenticated())
}

func TestWishlistReducer(t *testing.T) {
	items := []storefront.WishlistItem{{ProductID: "P1"}}
	s := storefront.WishlistReducer(storefront.WishlistState{}, storefront.SetWishlist{Items: items})
	items[0].ProductID = "changed"
	assert.True(t, s.Contains("P1"), "state owns its items")
	assert.Empty(t, storefront.WishlistReducer(s, storefront.ClearWishlist{}).Items)
	assert.Equal(t, s, storefront.WishlistReducer(s, "unknown"))
}
