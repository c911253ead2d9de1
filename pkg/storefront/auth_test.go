package storefront_test

import (
	"context"
	"testing"

	"lyyn/pkg/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	anonymous := storefront.AuthState{}
	for _, area := range []storefront.Area{storefront.AreaProfile, storefront.AreaOrders, storefront.AreaCheckout, storefront.AreaAdmin} {
		assert.ErrorIs(t, anonymous.Authorize(area), storefront.ErrLoginRequired, area.String())
	}

	customer := storefront.AuthReducer(anonymous, storefront.LoggedIn{Session: storefront.Session{Token: "t", User: storefront.User{ID: "u1"}}})
	assert.True(t, customer.Authenticated())
	assert.Equal(t, "t", customer.Token())
	assert.NoError(t, customer.Authorize(storefront.AreaCheckout))
	assert.NoError(t, customer.Authorize(storefront.AreaOrders))
	assert.ErrorIs(t, customer.Authorize(storefront.AreaAdmin), storefront.ErrAdminRequired)

	admin := storefront.AuthReducer(anonymous, storefront.LoggedIn{Session: storefront.Session{Token: "a", User: storefront.User{ID: "a1", IsAdmin: true}}})
	assert.NoError(t, admin.Authorize(storefront.AreaAdmin))

	assert.False(t, storefront.AuthReducer(admin, storefront.LoggedOut{}).Authenticated())
}

func TestLoginFailureKeepsAnonymous(t *testing.T) {
	sf := storefront.New(newFakeAPI())
	_, err := sf.Login(context.Background(), "asha@example.com", "wrong")
	var apiErr *storefront.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.False(t, sf.Auth().State().Authenticated())

	session, err := sf.Register(context.Background(), "Asha", "new@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", session.User.Email)
	assert.True(t, sf.Auth().State().Authenticated())
}
