package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// Store is the editable inventory document. Every mutation is written back to
// disk before it returns.
type Store struct {
	mu    sync.Mutex
	path  string
	items []model.InventoryItem

	now    func() time.Time
	suffix func() string
}

// Open loads the catalog at path. A missing file is an empty catalog; a
// malformed one is logged and treated as empty.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now, suffix: randomSuffix}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.items = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	var items []model.InventoryItem
	if err := json.Unmarshal(b, &items); err != nil {
		logx.Warn().Err(err).Str("path", s.path).Msg("catalog file is malformed, starting empty")
		s.items = nil
		return nil
	}
	s.items = items
	return nil
}

// All returns a copy of every item in file order.
func (s *Store) All() []model.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.InventoryItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) ByCategory(category string) []model.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.InventoryItem
	for _, it := range s.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) Get(id string) (model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.InventoryItem{}, errx.NotFound("item " + id)
	}
	return s.items[i], nil
}

// Add appends item, generating an id when it has none. Duplicate ids are rejected.
func (s *Store) Add(item model.InventoryItem) (model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := normalize(item)
	if err != nil {
		return model.InventoryItem{}, err
	}
	if item.ID == "" {
		item.ID = GenerateID(item.Category, s.now(), s.suffix())
	}
	if s.indexOf(item.ID) >= 0 {
		return model.InventoryItem{}, errx.Validationf("item id %s already exists", item.ID)
	}

	next := append(cloneItems(s.items), item)
	if err := s.commit(next); err != nil {
		return model.InventoryItem{}, err
	}
	logx.Info().Str("id", item.ID).Str("category", item.Category).Str("name", item.Name).Msg("catalog item added")
	return item, nil
}

// Update replaces the item with the given id. The id itself is kept.
func (s *Store) Update(id string, item model.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errx.NotFound("item " + id)
	}
	item, err := normalize(item)
	if err != nil {
		return err
	}
	item.ID = s.items[i].ID

	next := cloneItems(s.items)
	next[i] = item
	return s.commit(next)
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errx.NotFound("item " + id)
	}
	next := append(cloneItems(s.items[:i]), s.items[i+1:]...)
	if err := s.commit(next); err != nil {
		return err
	}
	logx.Info().Str("id", id).Msg("catalog item deleted")
	return nil
}

// MarkSold flags the item as sold so the storefront stops listing it.
func (s *Store) MarkSold(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errx.NotFound("item " + id)
	}
	next := cloneItems(s.items)
	next[i].Status = model.StatusSold
	if err := s.commit(next); err != nil {
		return err
	}
	logx.Info().Str("id", id).Msg("catalog item marked sold")
	return nil
}

// JSON returns the catalog document as written to disk.
func (s *Store) JSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return encode(s.items)
}

func (s *Store) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) commit(items []model.InventoryItem) error {
	b, err := encode(items)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	s.items = items
	return nil
}

func encode(items []model.InventoryItem) ([]byte, error) {
	if items == nil {
		items = []model.InventoryItem{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateID builds a SKU-style id: PREFIX-YYYY-MM-DD-XXXX.
func GenerateID(category string, now time.Time, suffix string) string {
	prefix := "XX"
	if c, ok := model.LookupCategory(category); ok {
		prefix = c.Prefix
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("2006-01-02"), strings.ToUpper(suffix))
}

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
}

func normalize(item model.InventoryItem) (model.InventoryItem, error) {
	item.ID = strings.TrimSpace(item.ID)
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.ToLower(strings.TrimSpace(item.Category))
	item.Status = strings.ToLower(strings.TrimSpace(item.Status))

	if item.Name == "" {
		return item, errx.Validation("item name is required")
	}
	if _, ok := model.LookupCategory(item.Category); !ok {
		return item, errx.Validationf("unknown category %q", item.Category)
	}
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
		return item, errx.Validationf("price of %q must be a non-negative amount", item.Name)
	}
	if item.Quantity < 0 {
		return item, errx.Validationf("quantity of %q cannot be negative", item.Name)
	}
	if item.Status == "" {
		item.Status = model.StatusAvailable
	}
	switch item.Status {
	case model.StatusAvailable, model.StatusReserved, model.StatusSold:
	default:
		return item, errx.Validationf("unknown status %q", item.Status)
	}

	// Feeding data only applies to live animals.
	if item.Category != model.CategoryAnimals {
		item.VerifiedFeeder = false
		item.FeedingLog = nil
	}
	return item, nil
}

func cloneItems(items []model.InventoryItem) []model.InventoryItem {
	out := make([]model.InventoryItem, len(items))
	copy(out, items)
	return out
}
