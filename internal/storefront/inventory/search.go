package inventory

import (
	"strings"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

const (
	defaultMaxResults = 10
	maxMaxResults     = 20
)

// SearchResult is the outcome of a keyword search.
type SearchResult struct {
	Items []model.InventoryItem `json:"items"`
	Total int                   `json:"total"`
}

// Search matches query against name, variant and category of unsold items.
// category narrows the search when set. limit defaults to 10 and is capped at 20.
func Search(items []model.InventoryItem, query, category string, limit int) (SearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return SearchResult{}, errx.Validation("query is required")
	}

	switch {
	case limit <= 0:
		limit = defaultMaxResults
	case limit > maxMaxResults:
		limit = maxMaxResults
	}

	matched := []model.InventoryItem{}
	for _, it := range items {
		if it.IsSold() {
			continue
		}
		if category != "" && !strings.EqualFold(it.Category, category) {
			continue
		}
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Variant), q) ||
			strings.Contains(strings.ToLower(it.Category), q) {
			matched = append(matched, it)
		}
	}

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return SearchResult{Items: matched, Total: len(matched)}, nil
}

// Find returns the item with the given id.
func Find(items []model.InventoryItem, id string) (model.InventoryItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.InventoryItem{}, errx.Validation("product id is required")
	}
	for _, it := range items {
		if strings.EqualFold(it.ID, id) {
			return it, nil
		}
	}
	return model.InventoryItem{}, errx.NotFound("product " + id)
}
