package storefront

import "math"

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 10

// displayMarkup is applied to prices to show an "original" price. Display only.
const displayMarkup = 1.4

// LineKey identifies a cart line. No two lines share a key.
type LineKey struct {
	ProductID  string `json:"productId"`
	Size       string `json:"size"`
	Color      string `json:"color"`
	CustomText string `json:"customText"`
}

// CartLine is one row of the cart. Price is the unit price when the line was added.
type CartLine struct {
	LineKey
	Name           string `json:"name"`
	Image          string `json:"image"`
	Price          int64  `json:"price"`
	Quantity       int    `json:"quantity"`
	IsCustomizable bool   `json:"isCustomizable"`
}

// CartState is the ordered list of cart lines. Reducers never modify a published
// Lines slice, so a state value can be read without copying.
type CartState struct {
	Lines []CartLine `json:"lines"`
}

// Find returns the line stored under key.
func (c CartState) Find(key LineKey) (CartLine, bool) {
	if i := c.index(key); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

func (c CartState) index(key LineKey) int {
	for i, l := range c.Lines {
		if l.LineKey == key {
			return i
		}
	}
	return -1
}

// ProductIDs lists the distinct products in the cart in line order.
func (c CartState) ProductIDs() []string {
	seen := make(map[string]bool, len(c.Lines))
	var ids []string
	for _, l := range c.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}

// Cart actions.
type (
	// AddLine adds Line, merging into an existing line with the same key.
	AddLine struct{ Line CartLine }
	// RemoveLine drops the line under Key.
	RemoveLine struct{ Key LineKey }
	// SetQuantity replaces the quantity of the line under Key. Values below 1 are ignored.
	SetQuantity struct {
		Key      LineKey
		Quantity int
	}
	// ClampQuantity lowers the quantity of the line under Key to Max when it is
	// above it. It never raises a quantity.
	ClampQuantity struct {
		Key LineKey
		Max int
	}
	// ChangeLineSize moves the line under Key to Size in one step, keeping its
	// quantity. If a line already exists under the new key the two are merged.
	ChangeLineSize struct {
		Key  LineKey
		Size string
	}
	// ClearCart empties the cart.
	ClearCart struct{}
	// ReplaceLines swaps in a whole cart, e.g. one restored from storage.
	ReplaceLines struct{ Lines []CartLine }
)

func capQuantity(q int) int {
	if q > MaxLineQuantity {
		return MaxLineQuantity
	}
	return q
}

func cloneLines(lines []CartLine) []CartLine {
	return append([]CartLine(nil), lines...)
}

// CartReducer is the reducer of the cart store.
func CartReducer(s CartState, a Action) CartState {
	switch a := a.(type) {
	case AddLine:
		line := a.Line
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		lines := cloneLines(s.Lines)
		if i := s.index(line.LineKey); i >= 0 {
			lines[i].Quantity = capQuantity(lines[i].Quantity + line.Quantity)
			return CartState{Lines: lines}
		}
		line.Quantity = capQuantity(line.Quantity)
		return CartState{Lines: append(lines, line)}

	case RemoveLine:
		i := s.index(a.Key)
		if i < 0 {
			return s
		}
		lines := make([]CartLine, 0, len(s.Lines)-1)
		lines = append(lines, s.Lines[:i]...)
		return CartState{Lines: append(lines, s.Lines[i+1:]...)}

	case SetQuantity:
		i := s.index(a.Key)
		if i < 0 || a.Quantity < 1 {
			return s
		}
		q := capQuantity(a.Quantity)
		if s.Lines[i].Quantity == q {
			return s
		}
		lines := cloneLines(s.Lines)
		lines[i].Quantity = q
		return CartState{Lines: lines}

	case ClampQuantity:
		i := s.index(a.Key)
		if i < 0 || a.Max < 1 || s.Lines[i].Quantity <= a.Max {
			return s
		}
		lines := cloneLines(s.Lines)
		lines[i].Quantity = a.Max
		return CartState{Lines: lines}

	case ChangeLineSize:
		i := s.index(a.Key)
		if i < 0 || a.Key.Size == a.Size {
			return s
		}
		moved := s.Lines[i]
		moved.Size = a.Size
		lines := cloneLines(s.Lines)
		if j := s.index(moved.LineKey); j >= 0 {
			lines[j].Quantity = capQuantity(lines[j].Quantity + moved.Quantity)
			return CartState{Lines: append(lines[:i], lines[i+1:]...)}
		}
		lines[i] = moved
		return CartState{Lines: lines}

	case ClearCart:
		return CartState{}

	case ReplaceLines:
		var next CartState
		for _, l := range a.Lines {
			next = CartReducer(next, AddLine{Line: l})
		}
		return next
	}
	return s
}

// Totals are the figures derived from a cart. OriginalTotal and Savings are for
// display only; the payable amount is computed by the order service.
type Totals struct {
	Subtotal      int64 `json:"subtotal"`
	OriginalTotal int64 `json:"originalTotal"`
	Savings       int64 `json:"savings"`
	ItemCount     int   `json:"itemCount"`
	LineCount     int   `json:"lineCount"`
}

func markedUp(amount int64) int64 {
	return int64(math.Round(float64(amount) * displayMarkup))
}

// Totals sums the cart.
func (c CartState) Totals() Totals {
	var t Totals
	for _, l := range c.Lines {
		t.Subtotal += l.Price * int64(l.Quantity)
		t.ItemCount += l.Quantity
	}
	t.LineCount = len(c.Lines)
	t.OriginalTotal = markedUp(t.Subtotal)
	t.Savings = t.OriginalTotal - t.Subtotal
	return t
}

// LineTotal is price × quantity.
func (l CartLine) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// LineOriginal is the marked-up unit price × quantity.
func (l CartLine) LineOriginal() int64 {
	return markedUp(l.Price) * int64(l.Quantity)
}
