package storefront

import (
	"context"
	"fmt"
	"log"
)

// API is the part of the storefront API the Storefront uses. *Client implements it.
type API interface {
	ProductFetcher
	WishlistAPI
	ListProducts(ctx context.Context, page int, category string) (*ProductPage, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, name, email, password string) (*Session, error)
	PlaceOrder(ctx context.Context, token string, items []OrderItem) (*Order, error)
	CreateProduct(ctx context.Context, token string, d *ProductDraft) (*Product, error)
}

// Storefront ties the cart, wishlist and auth stores to the storefront API.
type Storefront struct {
	client     API
	cart       *Store[CartState]
	wishlist   *Store[WishlistState]
	auth       *Store[AuthState]
	reconciler *Reconciler
	wish       *Wishlist
}

// New creates a Storefront with empty stores.
func New(client API) *Storefront {
	s := &Storefront{
		client:   client,
		cart:     NewStore(CartState{}, CartReducer),
		wishlist: NewStore(WishlistState{}, WishlistReducer),
		auth:     NewStore(AuthState{}, AuthReducer),
	}
	s.reconciler = NewReconciler(client, s.cart)
	s.wish = NewWishlist(s.wishlist, s.auth, client)
	return s
}

// Cart is the cart store.
func (s *Storefront) Cart() *Store[CartState] { return s.cart }

// WishlistStore is the wishlist store.
func (s *Storefront) WishlistStore() *Store[WishlistState] { return s.wishlist }

// Auth is the auth store.
func (s *Storefront) Auth() *Store[AuthState] { return s.auth }

// Reconciler is the cart stock reconciler.
func (s *Storefront) Reconciler() *Reconciler { return s.reconciler }

// Product loads a product through the reconciler cache.
func (s *Storefront) Product(ctx context.Context, id string) (*Product, error) {
	return s.reconciler.Load(ctx, id)
}

// Products fetches one catalog page and the matching page controls.
func (s *Storefront) Products(ctx context.Context, page int, category string) (*ProductPage, Pager, error) {
	p, err := s.client.ListProducts(ctx, page, category)
	if err != nil {
		return nil, Pager{}, err
	}
	return p, NewPager(p.Page, p.Pages), nil
}

// QuickAdd adds one unit of p with its default options.
func (s *Storefront) QuickAdd(p *Product) (CartLine, error) {
	line, err := QuickAddLine(p)
	if err != nil {
		return CartLine{}, err
	}
	s.cart.Dispatch(AddLine{Line: line})
	return line, nil
}

// AddToCart adds a product page selection.
func (s *Storefront) AddToCart(p *Product, sel Selection) (CartLine, error) {
	line, err := SelectionLine(p, sel)
	if err != nil {
		return CartLine{}, err
	}
	s.cart.Dispatch(AddLine{Line: line})
	return line, nil
}

// SetQuantity sets the quantity of a line, capped at 10 and at the known stock of its
// size. Until a product record has been applied the line cannot be changed. A size with
// no stock left only accepts lower quantities.
func (s *Storefront) SetQuantity(key LineKey, qty int) error {
	if qty < 1 {
		return invalid("Quantity must be at least 1")
	}
	line, ok := s.cart.State().Find(key)
	if !ok {
		return invalid("Item is no longer in your bag")
	}
	p, ok := s.reconciler.Product(key.ProductID)
	if !ok {
		return invalid("Product details are still loading")
	}
	switch stock := p.StockFor(key.Size); {
	case stock == 0 && qty > line.Quantity:
		return invalid("Size %s is out of stock", key.Size)
	case stock > 0 && qty > stock:
		qty = stock
	}
	s.cart.Dispatch(SetQuantity{Key: key, Quantity: qty})
	return nil
}

// ChangeSize moves a line to another size of the same product. It needs a product
// record and stock for the new size. Moving onto a line that already holds that size
// merges the two, which is refused when the merged quantity would pass the line cap.
func (s *Storefront) ChangeSize(key LineKey, size string) error {
	cart := s.cart.State()
	line, ok := cart.Find(key)
	if !ok {
		return invalid("Item is no longer in your bag")
	}
	p, ok := s.reconciler.Product(key.ProductID)
	if !ok {
		return invalid("Product details are still loading")
	}
	if p.StockFor(size) == 0 {
		return invalid("Size %s is out of stock", size)
	}
	target := key
	target.Size = size
	if other, ok := cart.Find(target); ok && size != key.Size && other.Quantity+line.Quantity > MaxLineQuantity {
		return invalid("Your bag already holds %d in size %s", other.Quantity, size)
	}
	s.cart.Dispatch(ChangeLineSize{Key: key, Size: size})
	return nil
}

// Remove drops a line.
func (s *Storefront) Remove(key LineKey) {
	s.cart.Dispatch(RemoveLine{Key: key})
}

// Totals sums the cart.
func (s *Storefront) Totals() Totals {
	return s.cart.State().Totals()
}

// Reconcile clamps the cart against fresh stock.
func (s *Storefront) Reconcile(ctx context.Context) Report {
	return s.reconciler.Reconcile(ctx)
}

// ToggleWishlist saves or unsaves a product for the signed-in user.
func (s *Storefront) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	return s.wish.Toggle(ctx, productID)
}

// Login signs in and loads the user's wishlist.
func (s *Storefront) Login(ctx context.Context, email, password string) (*Session, error) {
	session, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return s.signIn(ctx, session), nil
}

// Register creates an account and signs it in.
func (s *Storefront) Register(ctx context.Context, name, email, password string) (*Session, error) {
	session, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return s.signIn(ctx, session), nil
}

func (s *Storefront) signIn(ctx context.Context, session *Session) *Session {
	s.auth.Dispatch(LoggedIn{Session: *session})
	if err := s.wish.Sync(ctx); err != nil {
		log.Printf("storefront: %v", err)
	}
	return session
}

// Logout drops the session and the wishlist. The cart stays.
func (s *Storefront) Logout() {
	s.auth.Dispatch(LoggedOut{})
	s.wishlist.Dispatch(ClearWishlist{})
}

// CreateProduct submits an admin product draft.
func (s *Storefront) CreateProduct(ctx context.Context, d *ProductDraft) (*Product, error) {
	auth := s.auth.State()
	if err := auth.Authorize(AreaAdmin); err != nil {
		return nil, err
	}
	return s.client.CreateProduct(ctx, auth.Token(), d)
}
