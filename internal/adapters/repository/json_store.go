package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/agilstore/core/internal/domain/entities"
	"github.com/agilstore/core/internal/infrastructure/logger"
	"github.com/agilstore/core/internal/infrastructure/metrics"
	"github.com/agilstore/core/internal/ports"
)

// JSONStore implements the DocumentStore interface on a single JSON file
type JSONStore struct {
	path    string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewJSONStore creates a new file-backed document store
func NewJSONStore(path string, log *logger.Logger, m *metrics.Metrics) ports.DocumentStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &JSONStore{
		path:    path,
		logger:  log.WithComponent("store"),
		metrics: m,
	}
}

func (s *JSONStore) Location() string {
	return s.path
}

func (s *JSONStore) EnsureExists(ctx context.Context) error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat data file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	s.logger.Infow("Creating data file", "path", s.path)
	return s.Save(ctx, entities.NewDocument())
}

func (s *JSONStore) Load(ctx context.Context) (*entities.Document, error) {
	if err := s.EnsureExists(ctx); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	s.logger.LogStoreAccess("read", s.path, err)

	var (
		doc      *entities.Document
		repaired bool
	)
	if err == nil {
		doc, repaired, err = decodeDocument(raw)
	}

	if err != nil {
		// The damaged file is replaced without a backup.
		s.logger.Warnw("Failed to load data, recreating file", "path", s.path, "error", err)
		s.metrics.StoreRecovered()

		doc = entities.NewDocument()
		if err := s.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("reset data file: %w", err)
		}
		return doc, nil
	}

	if repaired {
		s.logger.Warnw("Recomputed nextId from stored products", "path", s.path, "next_id", doc.NextID)
		s.metrics.StoreRepaired()
	}

	return doc, nil
}

func (s *JSONStore) Save(ctx context.Context, doc *entities.Document) error {
	if doc.Products == nil {
		doc.Products = []entities.Product{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	err = os.WriteFile(s.path, data, 0o644)
	s.logger.LogStoreAccess("write", s.path, err)
	if err != nil {
		return fmt.Errorf("write data file: %w", err)
	}

	return nil
}

// decodeDocument validates the document shape. The bool reports whether
// nextId had to be recomputed.
func decodeDocument(raw []byte) (*entities.Document, bool, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, false, fmt.Errorf("%w: %v", entities.ErrInvalidDocument, err)
	}
	if top == nil {
		return nil, false, fmt.Errorf("%w: top level is not an object", entities.ErrInvalidDocument)
	}

	rawProducts, ok := top["products"]
	if !ok {
		return nil, false, fmt.Errorf("%w: missing products", entities.ErrInvalidDocument)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(rawProducts), []byte("[")) {
		return nil, false, fmt.Errorf("%w: products is not an array", entities.ErrInvalidDocument)
	}

	doc := &entities.Document{}
	if err := json.Unmarshal(rawProducts, &doc.Products); err != nil {
		return nil, false, fmt.Errorf("%w: products: %v", entities.ErrInvalidDocument, err)
	}
	if doc.Products == nil {
		doc.Products = []entities.Product{}
	}

	nextID, ok := parseNextID(top["nextId"])
	doc.NextID = nextID
	if !ok || doc.NeedsRepair() {
		doc.Repair()
		return doc, true, nil
	}

	return doc, false, nil
}

func parseNextID(raw json.RawMessage) (int, bool) {
	if raw == nil {
		return 0, false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok || f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
