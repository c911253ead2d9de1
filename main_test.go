package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyyn/internal/config"
	"lyyn/pkg/storefront"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.DatabaseDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg.UploadDir = t.TempDir()
	cfg.JWTSecret = "test_jwt_secret"
	cfg.RateLimitMax = 0
	cfg.AdminEmail = "admin@thelyyn.in"
	cfg.AdminPassword = "admin-secret"
	return cfg
}

func newTestServer(t *testing.T) *server {
	t.Helper()
	srv, err := newServer(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"status":"healthy"`)
	assert.Contains(t, string(body), `"rabbitmq":"disabled"`)

	resp, err = srv.app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "The Lyyn Backend API is Live...", string(body))

	resp, err = srv.app.Test(httptest.NewRequest("GET", "/api/wishlist", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "wishlist needs a token")
}

func TestUnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "oracle"
	_, err := newServer(context.Background(), cfg)
	assert.Error(t, err)
}

// TestStorefrontAgainstServer drives the storefront SDK against a live server.
func TestStorefrontAgainstServer(t *testing.T) {
	srv := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.app.Listener(ln)
	t.Cleanup(func() { _ = srv.app.Shutdown() })

	ctx := context.Background()
	client := storefront.NewClient(storefront.Config{BaseURL: "http://" + ln.Addr().String(), Timeout: 5 * time.Second})

	page, pager, err := storefront.New(client).Products(ctx, 1, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total, "launch catalog is seeded")
	assert.False(t, pager.HasNext())

	admin := storefront.New(client)
	session, err := admin.Login(ctx, "admin@thelyyn.in", "admin-secret")
	require.NoError(t, err)
	require.True(t, session.User.IsAdmin)

	draft := &storefront.ProductDraft{Name: "Name Print Tee", Description: "Your name on soft cotton.", Price: 1299, Category: "Custom Tees", IsCustomizable: true}
	require.NoError(t, draft.AddSize("M", "2"))
	require.NoError(t, draft.AddSize("L", "1"))
	draft.AddImages(storefront.DraftImage{Name: "front.jpg", Content: []byte("jpeg bytes")})
	created, err := admin.CreateProduct(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "name-print-tee", created.Slug)
	require.Len(t, created.Images, 1)
	assert.True(t, strings.HasSuffix(created.Images[0], ".jpg"))

	shopper := storefront.New(client)
	_, err = shopper.Register(ctx, "Asha", "asha@example.com", "secret1")
	require.NoError(t, err)

	product, err := shopper.Product(ctx, created.ID)
	require.NoError(t, err)
	line, err := shopper.AddToCart(product, storefront.Selection{Size: "M", CustomText: "ASHA", Quantity: 2})
	require.NoError(t, err)

	saved, err := shopper.ToggleWishlist(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	// Another buyer takes one of the two M tees.
	other := storefront.New(client)
	_, err = other.Register(ctx, "Ravi", "ravi@example.com", "secret2")
	require.NoError(t, err)
	_, err = other.AddToCart(product, storefront.Selection{Size: "M", Quantity: 1})
	require.NoError(t, err)
	_, err = other.Checkout(ctx)
	require.NoError(t, err)

	_, err = shopper.Checkout(ctx)
	var conflict *storefront.StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []storefront.StockShortage{{ProductID: created.ID, Size: "M", Requested: 2, Available: 1}}, conflict.Conflicts)
	require.Len(t, shopper.Cart().State().Lines, 1)

	shopper.Reconciler().Invalidate(created.ID)
	report := shopper.Reconcile(ctx)
	require.Len(t, report.Clamped, 1)
	got, ok := shopper.Cart().State().Find(line.LineKey)
	require.True(t, ok)
	assert.Equal(t, 1, got.Quantity)

	order, err := shopper.Checkout(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1299, order.TotalAmount)
	assert.Equal(t, "ASHA", order.Items[0].CustomText)
	assert.Empty(t, shopper.Cart().State().Lines)

	orders, err := client.MyOrders(ctx, shopper.Auth().State().Token())
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	require.NoError(t, client.DeleteProduct(ctx, admin.Auth().State().Token(), created.ID))
	_, err = client.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, storefront.ErrNotFound)
}
