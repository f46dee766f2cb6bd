package model

import "strings"

const (
	CategoryAnimals  = "animals"
	CategoryPantry   = "pantry"
	CategoryHabitats = "habitats"
	CategoryDen      = "den"
)

const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

// Category describes a storefront section.
type Category struct {
	ID     string
	Label  string
	Prefix string
}

// Categories lists the storefront sections in navigation order.
var Categories = []Category{
	{ID: CategoryAnimals, Label: "Live Animals", Prefix: "AN"},
	{ID: CategoryPantry, Label: "The Pantry", Prefix: "PT"},
	{ID: CategoryHabitats, Label: "Habitats", Prefix: "HB"},
	{ID: CategoryDen, Label: "The Den", Prefix: "DN"},
}

// LookupCategory finds a category by id.
func LookupCategory(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// FeedingEntry is a single feeding log entry for an animal.
type FeedingEntry struct {
	Date     string `json:"date"`
	FoodType string `json:"food_type"`
}

// InventoryItem is a product as published in the static inventory document.
type InventoryItem struct {
	ID             string         `json:"id"`
	Category       string         `json:"category"`
	Name           string         `json:"name"`
	Variant        string         `json:"variant"`
	Price          float64        `json:"price"`
	Quantity       int            `json:"quantity"`
	Image          string         `json:"image"`
	Status         string         `json:"status"`
	VerifiedFeeder bool           `json:"verified_feeder,omitempty"`
	FeedingLog     []FeedingEntry `json:"feeding_log,omitempty"`
}

// IsSold reports whether the item has been sold. Older catalogs wrote "SOLD".
func (it InventoryItem) IsSold() bool {
	return strings.EqualFold(strings.TrimSpace(it.Status), StatusSold)
}

// LastFeeding returns the most recent feeding log entry, if any.
func (it InventoryItem) LastFeeding() (FeedingEntry, bool) {
	if len(it.FeedingLog) == 0 {
		return FeedingEntry{}, false
	}
	return it.FeedingLog[len(it.FeedingLog)-1], true
}

// AsLineItem converts the product into a cart line item with quantity 1.
func (it InventoryItem) AsLineItem() LineItem {
	return LineItem{Name: it.Name, Price: it.Price, Quantity: 1}
}
