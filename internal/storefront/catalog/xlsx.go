package catalog

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

var columnAliases = map[string]string{
	"id":       "id",
	"sku":      "id",
	"name":     "name",
	"title":    "name",
	"category": "category",
	"variant":  "variant",
	"morph":    "variant",
	"price":    "price",
	"quantity": "quantity",
	"qty":      "quantity",
	"stock":    "quantity",
	"image":    "image",
	"status":   "status",
}

// ParseXLSX reads catalog rows from the first sheet of a spreadsheet. The first
// row is a header naming the columns; name, category and price are required.
func ParseXLSX(r io.Reader) ([]model.InventoryItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errx.New(err, http.StatusBadRequest, "the file is not a readable spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errx.Validation("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, errx.Validation("spreadsheet has no data rows")
	}

	cols := mapColumns(rows[0])
	for _, required := range []string{"name", "category", "price"} {
		if _, ok := cols[required]; !ok {
			return nil, errx.Validationf("spreadsheet is missing the %q column", required)
		}
	}

	var items []model.InventoryItem
	for i, row := range rows[1:] {
		line := i + 2
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if cell("name") == "" {
			continue
		}

		price, err := parsePrice(cell("price"))
		if err != nil {
			return nil, errx.Validationf("row %d: invalid price %q", line, cell("price"))
		}
		qty := 1
		if raw := cell("quantity"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, errx.Validationf("row %d: invalid quantity %q", line, raw)
			}
			qty = n
		}

		items = append(items, model.InventoryItem{
			ID:       cell("id"),
			Category: strings.ToLower(cell("category")),
			Name:     cell("name"),
			Variant:  cell("variant"),
			Price:    price,
			Quantity: qty,
			Image:    cell("image"),
			Status:   strings.ToLower(cell("status")),
		})
	}

	logx.Debug().Str("sheet", sheets[0]).Int("rows", len(rows)-1).Int("items", len(items)).Msg("spreadsheet parsed")
	return items, nil
}

// Import parses a spreadsheet and adds every row. Field errors in any row are
// reported before the first item is written.
func (s *Store) Import(r io.Reader) ([]model.InventoryItem, error) {
	items, err := ParseXLSX(r)
	if err != nil {
		return nil, err
	}
	for i, it := range items {
		if _, err := normalize(it); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	added := make([]model.InventoryItem, 0, len(items))
	for _, it := range items {
		a, err := s.Add(it)
		if err != nil {
			return added, err
		}
		added = append(added, a)
	}
	return added, nil
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := columnAliases[key]; ok {
			if _, seen := cols[canonical]; !seen {
				cols[canonical] = i
			}
		}
	}
	return cols
}

func parsePrice(raw string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if clean == "" {
		return 0, fmt.Errorf("empty price")
	}
	return strconv.ParseFloat(clean, 64)
}
