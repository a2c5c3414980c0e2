package entities

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Common errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidDocument = errors.New("invalid document")
)

// SortField names a product attribute the listing can be ordered by
type SortField string

const (
	SortNone     SortField = ""
	SortName     SortField = "name"
	SortQuantity SortField = "quantity"
	SortPrice    SortField = "price"
)

// Product represents one inventory record
type Product struct {
	ID       int     `json:"id" validate:"gt=0"`
	Name     string  `json:"name" validate:"required,notblank"`
	Category string  `json:"category" validate:"required,notblank"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// Document is the whole persisted state: the id counter and the product collection
type Document struct {
	NextID   int       `json:"nextId"`
	Products []Product `json:"products"`
}

// NewDocument returns the empty document written on first run and on recovery
func NewDocument() *Document {
	return &Document{
		NextID:   1,
		Products: []Product{},
	}
}

// MaxID returns the largest product id, or 0 when there are no products
func (d *Document) MaxID() int {
	max := 0
	for _, p := range d.Products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

// IndexOf returns the position of the product with the given id, or -1
func (d *Document) IndexOf(id int) int {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a pointer into the collection for in-place updates
func (d *Document) Find(id int) (*Product, error) {
	idx := d.IndexOf(id)
	if idx == -1 {
		return nil, ErrProductNotFound
	}
	return &d.Products[idx], nil
}

// NeedsRepair reports whether NextID violates the id invariant
func (d *Document) NeedsRepair() bool {
	return d.NextID < 1 || d.NextID <= d.MaxID()
}

// Repair recomputes NextID from the existing ids
func (d *Document) Repair() {
	d.NextID = d.MaxID() + 1
}

// Clone returns a deep copy
func (d *Document) Clone() *Document {
	products := make([]Product, len(d.Products))
	copy(products, d.Products)
	return &Document{NextID: d.NextID, Products: products}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the domain rules registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		if err != nil {
			panic(fmt.Sprintf("register notblank validation: %v", err))
		}
	})
	return validate
}

// Validate checks the product against its struct rules
func (p *Product) Validate() error {
	return Validator().Struct(p)
}
