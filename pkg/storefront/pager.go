package storefront

import "sort"

// Pager is the state of the catalog page controls.
type Pager struct {
	Page  int
	Pages int
}

// NewPager clamps page into 1..pages. A listing always has at least one page.
func NewPager(page, pages int) Pager {
	if pages < 1 {
		pages = 1
	}
	return Pager{Pages: pages}.Go(page)
}

// HasPrev reports whether the previous control is enabled.
func (p Pager) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether the next control is enabled. It is disabled on the last page.
func (p Pager) HasNext() bool { return p.Page < p.Pages }

// Go moves to page n, clamped to the valid range.
func (p Pager) Go(n int) Pager {
	if n > p.Pages {
		n = p.Pages
	}
	if n < 1 {
		n = 1
	}
	p.Page = n
	return p
}

// Next moves one page forward, staying on the last page.
func (p Pager) Next() Pager { return p.Go(p.Page + 1) }

// Prev moves one page back, staying on the first page.
func (p Pager) Prev() Pager { return p.Go(p.Page - 1) }

// Numbers lists the page numbers to render.
func (p Pager) Numbers() []int {
	nums := make([]int, p.Pages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// BestSellers returns up to n best seller products in listing order.
func BestSellers(items []Product, n int) []Product {
	var out []Product
	for _, p := range items {
		if len(out) == n {
			break
		}
		if p.IsBestSeller {
			out = append(out, p)
		}
	}
	return out
}

// NewArrivals returns up to n products, newest first.
func NewArrivals(items []Product, n int) []Product {
	out := append([]Product(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
