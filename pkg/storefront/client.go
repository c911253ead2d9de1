package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// Config points the client at a storefront API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a typed client for the storefront API.
type Client struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a Client. A zero Timeout means 10 seconds.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{baseURL: strings.TrimRight(cfg.BaseURL, "/"), timeout: timeout}
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

type errorBody struct {
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	Conflicts []StockShortage `json:"conflicts"`
}

// send runs the agent and decodes a 2xx JSON body into out. The agent is released.
func (c *Client) send(ctx context.Context, a *fiber.Agent, token string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	a.Timeout(timeout)
	if token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("storefront api request failed: %w", errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		return decodeError(code, body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode storefront api response: %w", err)
	}
	return nil
}

func decodeError(code int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	if code == http.StatusConflict && len(eb.Conflicts) > 0 {
		return &StockConflictError{Message: eb.Message, Conflicts: eb.Conflicts}
	}
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{Status: code, Message: msg}
}

// GetProduct fetches one product. A deleted product yields an error matching ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := c.send(ctx, fiber.Get(c.url("/api/products/"+url.PathEscape(id), nil)), "", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts fetches one catalog page, optionally restricted to a category.
func (c *Client) ListProducts(ctx context.Context, page int, category string) (*ProductPage, error) {
	q := url.Values{"pageNumber": {strconv.Itoa(page)}}
	if category != "" {
		q.Set("category", category)
	}
	var p ProductPage
	if err := c.send(ctx, fiber.Get(c.url("/api/products", q)), "", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	a := fiber.Post(c.url("/api/auth/login", nil)).JSON(fiber.Map{"email": email, "password": password})
	var s Session
	if err := c.send(ctx, a, "", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Register creates a customer account and returns its first session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	a := fiber.Post(c.url("/api/auth/register", nil)).JSON(fiber.Map{"name": name, "email": email, "password": password})
	var s Session
	if err := c.send(ctx, a, "", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Wishlist fetches the saved products of the session owner.
func (c *Client) Wishlist(ctx context.Context, token string) ([]WishlistItem, error) {
	var items []WishlistItem
	if err := c.send(ctx, fiber.Get(c.url("/api/wishlist", nil)), token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWishlist saves productID and returns the updated list.
func (c *Client) AddToWishlist(ctx context.Context, token, productID string) ([]WishlistItem, error) {
	a := fiber.Post(c.url("/api/wishlist", nil)).JSON(fiber.Map{"productId": productID})
	var items []WishlistItem
	if err := c.send(ctx, a, token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveFromWishlist drops productID and returns the updated list.
func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) ([]WishlistItem, error) {
	var items []WishlistItem
	if err := c.send(ctx, fiber.Delete(c.url("/api/wishlist/"+url.PathEscape(productID), nil)), token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// PlaceOrder submits items. Stock that moved since the cart was filled is reported
// as *StockConflictError.
func (c *Client) PlaceOrder(ctx context.Context, token string, items []OrderItem) (*Order, error) {
	a := fiber.Post(c.url("/api/orders", nil)).JSON(fiber.Map{"items": items})
	var o Order
	if err := c.send(ctx, a, token, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// MyOrders lists the orders of the session owner.
func (c *Client) MyOrders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.send(ctx, fiber.Get(c.url("/api/orders/mine", nil)), token, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateProduct submits d as a multipart form with an admin token. Colors are always
// the default set.
func (c *Client) CreateProduct(ctx context.Context, token string, d *ProductDraft) (*Product, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	sizes := d.Sizes
	if sizes == nil {
		sizes = []SizeStock{}
	}
	sizesJSON, err := json.Marshal(sizes)
	if err != nil {
		return nil, err
	}
	colorsJSON, err := json.Marshal(DefaultColors)
	if err != nil {
		return nil, err
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("name", d.Name)
	args.Set("description", d.Description)
	args.Set("price", strconv.FormatInt(d.Price, 10))
	args.Set("category", d.Category)
	args.Set("isCustomizable", strconv.FormatBool(d.IsCustomizable))
	args.Set("isBestSeller", strconv.FormatBool(d.IsBestSeller))
	args.SetBytesV("sizes", sizesJSON)
	args.SetBytesV("colors", colorsJSON)

	files := make([]*fiber.FormFile, 0, len(d.Images))
	for _, img := range d.Images {
		files = append(files, &fiber.FormFile{Fieldname: "images", Name: img.Name, Content: img.Content})
	}
	a := fiber.Post(c.url("/api/products", nil)).FileData(files...).MultipartForm(args)

	var p Product
	if err := c.send(ctx, a, token, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes a product with an admin token.
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.send(ctx, fiber.Delete(c.url("/api/products/"+url.PathEscape(id), nil)), token, nil)
}
