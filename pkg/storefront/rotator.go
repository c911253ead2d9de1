package storefront

import (
	"context"
	"sync"
	"time"
)

const (
	// AnnouncementInterval advances the announcement bar.
	AnnouncementInterval = 4500 * time.Millisecond
	// CarouselInterval advances the hero carousel.
	CarouselInterval = 8 * time.Second
)

// Rotator cycles an index over n slides.
type Rotator struct {
	mu       sync.Mutex
	n        int
	index    int
	interval time.Duration
	onChange func(int)
}

// NewRotator creates a rotator over n slides starting at 0.
func NewRotator(n int, interval time.Duration) *Rotator {
	return &Rotator{n: n, interval: interval}
}

// OnChange registers fn to receive every new index.
func (r *Rotator) OnChange(fn func(index int)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Index is the current slide.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

func (r *Rotator) step(delta int) int {
	r.mu.Lock()
	if r.n == 0 {
		r.mu.Unlock()
		return 0
	}
	r.index = ((r.index+delta)%r.n + r.n) % r.n
	idx, fn := r.index, r.onChange
	r.mu.Unlock()
	if fn != nil {
		fn(idx)
	}
	return idx
}

// Next advances one slide, wrapping to the first.
func (r *Rotator) Next() int { return r.step(1) }

// Prev goes back one slide, wrapping to the last.
func (r *Rotator) Prev() int { return r.step(-1) }

// Run advances the rotator every interval until ctx is done.
func (r *Rotator) Run(ctx context.Context) {
	if r.n < 2 || r.interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Next()
		}
	}
}

const (
	navRevealOffset   = 10
	navScrolledOffset = 50
)

// NavVisibility tracks whether the navigation bar is shown while scrolling.
type NavVisibility struct {
	Visible  bool
	Scrolled bool
	lastY    float64
}

// NewNavVisibility starts visible at the top of the page.
func NewNavVisibility() NavVisibility {
	return NavVisibility{Visible: true}
}

// Observe feeds a scroll offset. Scrolling up or being near the top shows the bar,
// scrolling down hides it.
func (n *NavVisibility) Observe(y float64) {
	n.Visible = y < n.lastY || y < navRevealOffset
	n.Scrolled = y > navScrolledOffset
	n.lastY = y
}
