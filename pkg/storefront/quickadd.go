package storefront

import "strings"

const (
	fallbackSize  = "One Size"
	fallbackColor = "Standard"
)

// QuickAddLine builds a one unit cart line from the first size, color and image of p.
func QuickAddLine(p *Product) (CartLine, error) {
	if len(p.Sizes) == 0 || len(p.Colors) == 0 || len(p.Images) == 0 {
		return CartLine{}, invalid("Select options on details page")
	}
	size := p.Sizes[0].Size
	if size == "" {
		size = fallbackSize
	}
	color := p.Colors[0].Name
	if color == "" {
		color = fallbackColor
	}
	return CartLine{
		LineKey:        LineKey{ProductID: p.ID, Size: size, Color: color},
		Name:           p.Name,
		Image:          p.Images[0],
		Price:          p.Price,
		Quantity:       1,
		IsCustomizable: p.IsCustomizable,
	}, nil
}

// Selection is what the product page submits.
type Selection struct {
	Size       string
	Color      string
	CustomText string
	Quantity   int
}

// SelectionLine builds a cart line from a product page selection, checking it against p.
func SelectionLine(p *Product, sel Selection) (CartLine, error) {
	if sel.Size == "" {
		return CartLine{}, invalid("Please select a size")
	}
	listed := false
	for _, s := range p.Sizes {
		if s.Size == sel.Size {
			listed = true
			break
		}
	}
	if !listed {
		return CartLine{}, invalid("Size %s is not available", sel.Size)
	}
	if stock := p.StockFor(sel.Size); stock == 0 {
		return CartLine{}, invalid("Size %s is out of stock", sel.Size)
	}
	color := sel.Color
	if color == "" {
		if len(p.Colors) > 0 && p.Colors[0].Name != "" {
			color = p.Colors[0].Name
		} else {
			color = fallbackColor
		}
	}
	custom := strings.TrimSpace(sel.CustomText)
	if custom != "" && !p.IsCustomizable {
		return CartLine{}, invalid("%s cannot be customized", p.Name)
	}
	qty := sel.Quantity
	if qty < 1 {
		qty = 1
	}
	if stock := p.StockFor(sel.Size); qty > stock {
		qty = stock
	}
	return CartLine{
		LineKey:        LineKey{ProductID: p.ID, Size: sel.Size, Color: color, CustomText: custom},
		Name:           p.Name,
		Image:          p.PrimaryImage(),
		Price:          p.Price,
		Quantity:       capQuantity(qty),
		IsCustomizable: p.IsCustomizable,
	}, nil
}
