package storefront

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// ProductCacheTTL is how long a fetched product record is reused.
	ProductCacheTTL = 5 * time.Minute
	// LowStockThreshold is the stock below which a line shows a low stock notice.
	LowStockThreshold = 5

	defaultFetchConcurrency = 4
)

// ProductFetcher loads a single product record.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}

// fetchStamp orders fetches of the same product by the moment they were issued.
type fetchStamp struct {
	seq    uint64
	issued time.Time
}

func (s fetchStamp) newerThan(o fetchStamp) bool {
	if !s.issued.Equal(o.issued) {
		return s.issued.After(o.issued)
	}
	return s.seq > o.seq
}

type cacheEntry struct {
	product  *Product // nil once the product is known to be deleted
	applied  fetchStamp
	resolved time.Time
}

// Clamp records a quantity lowered to the stock of its size.
type Clamp struct {
	Key  LineKey
	From int
	To   int
}

// Report is the outcome of one reconciliation pass.
type Report struct {
	Clamped    []Clamp
	OutOfStock []LineKey
	// Unknown lists lines whose product has no record (fetch failed or deleted).
	Unknown []LineKey
	Failed  map[string]error
}

// Reconciler keeps cart quantities within the stock last observed for each line's size.
// Product records are cached per product; a failed fetch never clears a record.
type Reconciler struct {
	fetcher     ProductFetcher
	cart        *Store[CartState]
	ttl         time.Duration
	concurrency int
	now         func() time.Time

	mu      sync.Mutex
	seq     uint64
	entries map[string]*cacheEntry
	loads   singleflight.Group
}

// NewReconciler creates a reconciler correcting the lines of cart.
func NewReconciler(fetcher ProductFetcher, cart *Store[CartState]) *Reconciler {
	return &Reconciler{
		fetcher:     fetcher,
		cart:        cart,
		ttl:         ProductCacheTTL,
		concurrency: defaultFetchConcurrency,
		now:         time.Now,
		entries:     make(map[string]*cacheEntry),
	}
}

// Product returns the last applied record of id.
func (r *Reconciler) Product(id string) (*Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.product == nil {
		return nil, false
	}
	return e.product, true
}

// Invalidate forces the next load of id to go to the product service.
func (r *Reconciler) Invalidate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.resolved = time.Time{}
	}
}

func (r *Reconciler) fresh(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return ok && !e.resolved.IsZero() && r.now().Sub(e.resolved) < r.ttl
}

func (r *Reconciler) issue() fetchStamp {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fetchStamp{seq: r.seq, issued: r.now()}
}

// Refresh fetches id now and applies the answer unless a fetch issued later has
// already been applied. It returns the record applied afterwards, which is not this
// fetch's answer when that answer was stale.
func (r *Reconciler) Refresh(ctx context.Context, id string) (*Product, error) {
	stamp := r.issue()
	product, err := r.fetcher.GetProduct(ctx, id)
	r.apply(id, stamp, product, err)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return r.current(id)
}

// current returns the applied record of id, or ErrNotFound for a tombstone.
func (r *Reconciler) current(id string) (*Product, error) {
	if p, ok := r.Product(id); ok {
		return p, nil
	}
	return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

func (r *Reconciler) apply(id string, stamp fetchStamp, product *Product, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if ok && !stamp.newerThan(e.applied) {
		return
	}
	switch {
	case err == nil:
		r.entries[id] = &cacheEntry{product: product, applied: stamp, resolved: r.now()}
	case errors.Is(err, ErrNotFound):
		r.entries[id] = &cacheEntry{applied: stamp, resolved: r.now()}
	default:
		// Keep the last known good record.
		log.Printf("storefront: fetching product %s failed: %v", id, err)
	}
}

// Load returns a cached record younger than the cache TTL, or fetches one.
// Concurrent loads of the same product share one request. The shared request is not
// tied to the cancellation of whichever caller started it; the client timeout bounds it.
func (r *Reconciler) Load(ctx context.Context, id string) (*Product, error) {
	if r.fresh(id) {
		return r.current(id)
	}
	ch := r.loads.DoChan(id, func() (interface{}, error) {
		return r.Refresh(context.WithoutCancel(ctx), id)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Product), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reconcile loads every product in the cart and clamps lines whose quantity exceeds
// the positive stock of their size. Lines with zero stock are reported, not changed.
// Lines without a record are left alone.
func (r *Reconciler) Reconcile(ctx context.Context) Report {
	report := Report{Failed: make(map[string]error)}
	var failedMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, id := range r.cart.State().ProductIDs() {
		id := id
		g.Go(func() error {
			if _, err := r.Load(ctx, id); err != nil {
				failedMu.Lock()
				report.Failed[id] = err
				failedMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, line := range r.cart.State().Lines {
		product, ok := r.Product(line.ProductID)
		if !ok {
			report.Unknown = append(report.Unknown, line.LineKey)
			continue
		}
		stock := product.StockFor(line.Size)
		if stock == 0 {
			report.OutOfStock = append(report.OutOfStock, line.LineKey)
			continue
		}
		if line.Quantity > stock {
			r.cart.Dispatch(ClampQuantity{Key: line.LineKey, Max: stock})
			report.Clamped = append(report.Clamped, Clamp{Key: line.LineKey, From: line.Quantity, To: stock})
		}
	}
	return report
}

// SizeOption is one entry of a line's size selector.
type SizeOption struct {
	Label    string
	Stock    int
	Disabled bool
}

// LineView is what the cart shows for one line.
type LineView struct {
	Line CartLine
	// SelectorsEnabled is false until a product record is known.
	SelectorsEnabled bool
	Stock            int
	OutOfStock       bool
	SizeOptions      []SizeOption
	QuantityOptions  []int
	LowStockNotice   string
	LineTotal        int64
	LineOriginal     int64
}

// QuantityOptions lists 1..min(10, max(1, stock)).
func QuantityOptions(stock int) []int {
	n := stock
	if n < 1 {
		n = 1
	}
	if n > MaxLineQuantity {
		n = MaxLineQuantity
	}
	opts := make([]int, n)
	for i := range opts {
		opts[i] = i + 1
	}
	return opts
}

// LineView builds the view of the line under key from the cached product record.
func (r *Reconciler) LineView(key LineKey) (LineView, bool) {
	line, ok := r.cart.State().Find(key)
	if !ok {
		return LineView{}, false
	}
	v := LineView{
		Line:         line,
		LineTotal:    line.LineTotal(),
		LineOriginal: line.LineOriginal(),
	}

	product, known := r.Product(key.ProductID)
	if !known {
		v.SizeOptions = []SizeOption{{Label: line.Size}}
		v.QuantityOptions = QuantityOptions(0)
		return v, true
	}

	v.SelectorsEnabled = true
	v.Stock = product.StockFor(line.Size)
	v.OutOfStock = v.Stock == 0
	for _, s := range product.Sizes {
		v.SizeOptions = append(v.SizeOptions, SizeOption{Label: s.Size, Stock: s.Stock, Disabled: s.Stock <= 0})
	}
	v.QuantityOptions = QuantityOptions(v.Stock)
	if v.Stock > 0 && v.Stock < LowStockThreshold {
		v.LowStockNotice = fmt.Sprintf("Only %d left!", v.Stock)
	}
	return v, true
}
