package storefront

import (
	"strconv"
	"strings"
)

// Product categories accepted by the catalog.
var Categories = []string{"Standard Tees", "Custom Tees", "Blankets"}

// DefaultColors is submitted with every new product; the admin form has no color picker.
var DefaultColors = []Color{{Name: "Standard", Hex: "#000000"}}

// DraftImage is an image file chosen for a new product.
type DraftImage struct {
	Name    string
	Content []byte
}

// ProductDraft is the admin form for a new product. Images keep the order they were
// added in; the first becomes the primary image.
type ProductDraft struct {
	Name           string
	Description    string
	Price          int64
	Category       string
	IsCustomizable bool
	IsBestSeller   bool
	Sizes          []SizeStock
	Images         []DraftImage
}

// AddSize appends a size with its stock as typed into the form.
func (d *ProductDraft) AddSize(name, stock string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("Please enter a size name")
	}
	n, err := strconv.Atoi(strings.TrimSpace(stock))
	if err != nil || n < 0 {
		return invalid("Please enter a valid stock quantity")
	}
	for _, s := range d.Sizes {
		if strings.EqualFold(s.Size, name) {
			return invalid("This size already exists")
		}
	}
	d.Sizes = append(d.Sizes, SizeStock{Size: name, Stock: n})
	return nil
}

// RemoveSize drops the size at index i.
func (d *ProductDraft) RemoveSize(i int) {
	if i < 0 || i >= len(d.Sizes) {
		return
	}
	d.Sizes = append(d.Sizes[:i:i], d.Sizes[i+1:]...)
}

// AddImages appends files in the order given.
func (d *ProductDraft) AddImages(images ...DraftImage) {
	d.Images = append(d.Images, images...)
}

// RemoveImage drops the image at index i.
func (d *ProductDraft) RemoveImage(i int) {
	if i < 0 || i >= len(d.Images) {
		return
	}
	d.Images = append(d.Images[:i:i], d.Images[i+1:]...)
}

// MoveImage moves the image at from to position to.
func (d *ProductDraft) MoveImage(from, to int) {
	if from < 0 || from >= len(d.Images) || to < 0 || to >= len(d.Images) || from == to {
		return
	}
	img := d.Images[from]
	rest := append(d.Images[:from:from], d.Images[from+1:]...)
	d.Images = append(rest[:to:to], append([]DraftImage{img}, rest[to:]...)...)
}

// Validate checks the draft before it is submitted.
func (d *ProductDraft) Validate() error {
	if len(d.Images) == 0 {
		return invalid("Please upload at least one image")
	}
	if strings.TrimSpace(d.Name) == "" {
		return invalid("Please enter a product name")
	}
	if strings.TrimSpace(d.Description) == "" {
		return invalid("Please enter a description")
	}
	if d.Price <= 0 {
		return invalid("Please enter a valid price")
	}
	for _, c := range Categories {
		if d.Category == c {
			return nil
		}
	}
	return invalid("Please select a category")
}
