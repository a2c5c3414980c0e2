package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agilstore/core/internal/domain/entities"
	"github.com/agilstore/core/internal/domain/validation"
	"github.com/agilstore/core/internal/infrastructure/logger"
	"github.com/agilstore/core/internal/infrastructure/metrics"
	"github.com/agilstore/core/internal/ports"
)

// InventoryService owns the in-memory document and persists it after every mutation
type InventoryService struct {
	store   ports.DocumentStore
	doc     *entities.Document
	locale  language.Tag
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewInventoryService creates a new inventory service. The locale drives name collation.
func NewInventoryService(store ports.DocumentStore, locale language.Tag, log *logger.Logger, m *metrics.Metrics) *InventoryService {
	if log == nil {
		log = logger.NewNop()
	}
	return &InventoryService{
		store:   store,
		doc:     entities.NewDocument(),
		locale:  locale,
		logger:  log.WithComponent("inventory"),
		metrics: m,
	}
}

// Load replaces the in-memory document with the stored one
func (s *InventoryService) Load(ctx context.Context) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}
	s.doc = doc
	s.metrics.SetProducts(len(doc.Products))

	s.logger.Infow("Inventory loaded", "path", s.store.Location(), "products", len(doc.Products), "next_id", doc.NextID)
	return nil
}

// Snapshot returns a copy of the current document
func (s *InventoryService) Snapshot() *entities.Document {
	return s.doc.Clone()
}

// AddProduct validates the request, assigns the next id and saves
func (s *InventoryService) AddProduct(ctx context.Context, req ports.CreateProductRequest) (*entities.Product, error) {
	product := entities.Product{
		ID:       s.doc.NextID,
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Quantity: req.Quantity,
		Price:    req.Price,
	}

	if err := product.Validate(); err != nil {
		s.metrics.ObserveOperation("add", metrics.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidProduct, err)
	}

	before := s.doc.Clone()
	s.doc.Products = append(s.doc.Products, product)
	s.doc.NextID++

	if err := s.store.Save(ctx, s.doc); err != nil {
		s.doc = before
		s.metrics.ObserveOperation("add", metrics.OutcomeError)
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.metrics.ObserveOperation("add", metrics.OutcomeOK)
	s.metrics.SetProducts(len(s.doc.Products))
	s.logger.LogProductAction("add", product.ID, map[string]interface{}{"name": product.Name})

	return &product, nil
}

// GetProduct retrieves a product by ID
func (s *InventoryService) GetProduct(ctx context.Context, id int) (*entities.Product, error) {
	p, err := s.doc.Find(id)
	if err != nil {
		s.metrics.ObserveOperation("get", metrics.OutcomeNotFound)
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	s.metrics.ObserveOperation("get", metrics.OutcomeOK)

	product := *p
	return &product, nil
}

// ListProducts returns a filtered and sorted working copy. Sorting is stable.
func (s *InventoryService) ListProducts(ctx context.Context, filter ports.ListFilter) []entities.Product {
	products := make([]entities.Product, 0, len(s.doc.Products))
	category := strings.TrimSpace(filter.Category)
	for _, p := range s.doc.Products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		products = append(products, p)
	}

	switch filter.SortBy {
	case entities.SortName:
		col := collate.New(s.locale, collate.IgnoreCase, collate.IgnoreDiacritics)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Name, products[j].Name) < 0
		})
	case entities.SortQuantity:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Quantity < products[j].Quantity
		})
	case entities.SortPrice:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	}

	s.metrics.ObserveOperation("list", metrics.OutcomeOK)
	return products
}

// UpdateProduct applies every requested field that validates and saves once,
// even when nothing changed.
func (s *InventoryService) UpdateProduct(ctx context.Context, id int, req ports.UpdateProductRequest) (*ports.UpdateResult, error) {
	p, err := s.doc.Find(id)
	if err != nil {
		s.metrics.ObserveOperation("update", metrics.OutcomeNotFound)
		return nil, fmt.Errorf("product %d: %w", id, err)
	}

	previous := *p
	result := &ports.UpdateResult{}

	if req.Name != nil {
		if validation.IsBlank(*req.Name) {
			result.Rejected = append(result.Rejected, "name")
		} else {
			p.Name = strings.TrimSpace(*req.Name)
			result.Changed = append(result.Changed, "name")
		}
	}
	if req.Category != nil {
		if validation.IsBlank(*req.Category) {
			result.Rejected = append(result.Rejected, "category")
		} else {
			p.Category = strings.TrimSpace(*req.Category)
			result.Changed = append(result.Changed, "category")
		}
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			result.Rejected = append(result.Rejected, "quantity")
		} else {
			p.Quantity = *req.Quantity
			result.Changed = append(result.Changed, "quantity")
		}
	}
	if req.Price != nil {
		if *req.Price < 0 || math.IsNaN(*req.Price) {
			result.Rejected = append(result.Rejected, "price")
		} else {
			p.Price = *req.Price
			result.Changed = append(result.Changed, "price")
		}
	}

	// Untouched fields are not re-checked.
	if err := s.store.Save(ctx, s.doc); err != nil {
		*p = previous
		s.metrics.ObserveOperation("update", metrics.OutcomeError)
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	result.Product = *p
	s.metrics.ObserveOperation("update", metrics.OutcomeOK)
	s.logger.LogProductAction("update", id, map[string]interface{}{
		"changed":  result.Changed,
		"rejected": result.Rejected,
	})

	return result, nil
}

// DeleteProduct removes a product keeping the order of the rest
func (s *InventoryService) DeleteProduct(ctx context.Context, id int) error {
	idx := s.doc.IndexOf(id)
	if idx == -1 {
		s.metrics.ObserveOperation("delete", metrics.OutcomeNotFound)
		return fmt.Errorf("product %d: %w", id, entities.ErrProductNotFound)
	}

	before := s.doc.Clone()
	s.doc.Products = slices.Delete(s.doc.Products, idx, idx+1)

	if err := s.store.Save(ctx, s.doc); err != nil {
		s.doc = before
		s.metrics.ObserveOperation("delete", metrics.OutcomeError)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.metrics.ObserveOperation("delete", metrics.OutcomeOK)
	s.metrics.SetProducts(len(s.doc.Products))
	s.logger.LogProductAction("delete", id, nil)

	return nil
}

// SearchByName returns every product whose name contains term, ignoring case
func (s *InventoryService) SearchByName(ctx context.Context, term string) []entities.Product {
	q := strings.ToLower(term)
	var results []entities.Product
	for _, p := range s.doc.Products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			results = append(results, p)
		}
	}

	outcome := metrics.OutcomeOK
	if len(results) == 0 {
		outcome = metrics.OutcomeNotFound
	}
	s.metrics.ObserveOperation("search", outcome)

	return results
}

// IsNotFound reports whether err means the product does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, entities.ErrProductNotFound)
}

var _ ports.InventoryService = (*InventoryService)(nil)
