package catalog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs", "inventory.json")
	s, err := Open(path)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC) }
	n := 0
	s.suffix = func() string {
		n++
		return []string{"a1b2", "c3d4", "e5f6", "0a1b"}[(n-1)%4]
	}
	return s, path
}

func TestGenerateID(t *testing.T) {
	now := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "AN-2025-01-04-A1B2", GenerateID(model.CategoryAnimals, now, "a1b2"))
	assert.Equal(t, "PT-2025-01-04-FFFF", GenerateID(model.CategoryPantry, now, "ffff"))
	assert.Equal(t, "XX-2025-01-04-0000", GenerateID("misc", now, "0000"))

	suffix := randomSuffix()
	assert.Len(t, suffix, 4)
	assert.Equal(t, strings.ToUpper(suffix), suffix)
}

func TestAddPersistsAndReloads(t *testing.T) {
	s, path := openTemp(t)

	snake, err := s.Add(model.InventoryItem{
		Category: "Animals", Name: "Ball Python", Variant: "Banana", Price: 450, Quantity: 1,
		VerifiedFeeder: true, FeedingLog: []model.FeedingEntry{{Date: "2025-01-01", FoodType: "Small rat"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "AN-2025-01-04-A1B2", snake.ID)
	assert.Equal(t, model.StatusAvailable, snake.Status)

	roaches, err := s.Add(model.InventoryItem{Category: "pantry", Name: "Dubia", Price: 24.5, Quantity: 40, VerifiedFeeder: true})
	require.NoError(t, err)
	assert.False(t, roaches.VerifiedFeeder)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("[\n  {\n    \"id\"")))

	var onDisk []map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Len(t, onDisk, 2)
	_, hasLog := onDisk[1]["feeding_log"]
	assert.False(t, hasLog)

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, s.All(), reopened.All())
	assert.Len(t, reopened.ByCategory(model.CategoryPantry), 1)
}

func TestAddRejectsDuplicatesAndBadInput(t *testing.T) {
	s, _ := openTemp(t)

	_, err := s.Add(model.InventoryItem{ID: "HB-1", Category: "habitats", Name: "Rack A", Price: 49.99})
	require.NoError(t, err)

	_, err = s.Add(model.InventoryItem{ID: "HB-1", Category: "habitats", Name: "Rack B", Price: 59.99})
	assert.True(t, errx.IsValidation(err))

	for _, bad := range []model.InventoryItem{
		{Category: "habitats", Price: 1},
		{Category: "snacks", Name: "Chips", Price: 1},
		{Category: "den", Name: "Hide", Price: -1},
		{Category: "den", Name: "Hide", Price: 1, Status: "lost"},
	} {
		_, err := s.Add(bad)
		assert.True(t, errx.IsValidation(err), "%+v", bad)
	}
	assert.Len(t, s.All(), 1)
}

func TestUpdateDeleteMarkSold(t *testing.T) {
	s, path := openTemp(t)
	item, err := s.Add(model.InventoryItem{Category: "animals", Name: "Corn Snake", Price: 95, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, s.MarkSold(item.ID))
	got, err := s.Get(item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSold())

	require.NoError(t, s.Update(item.ID, model.InventoryItem{ID: "ignored", Category: "animals", Name: "Corn Snake", Variant: "Amel", Price: 110}))
	got, err = s.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amel", got.Variant)
	assert.Equal(t, item.ID, got.ID)

	require.NoError(t, s.Delete(item.ID))
	_, err = s.Get(item.ID)
	assert.True(t, errx.IsNotFound(err))
	assert.True(t, errx.IsNotFound(s.Delete(item.ID)))
	assert.True(t, errx.IsNotFound(s.MarkSold("nope")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestOpenMalformedIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": `), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, s.All())
}

func spreadsheet(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportXLSX(t *testing.T) {
	s, _ := openTemp(t)
	buf := spreadsheet(t, [][]any{
		{"Name", "Category", "Variant", "Price", "Qty", "Image", "Status"},
		{"Crested Gecko", "Animals", "Harlequin", "$180.00", 1, "img/crestie.jpg", "Reserved"},
		{"", "", "", "", "", "", ""},
		{"Cork Bark Flat", "den", "Large", 14, 12, "", ""},
	})

	added, err := s.Import(buf)
	require.NoError(t, err)
	require.Len(t, added, 2)

	assert.Equal(t, "AN-2025-01-04-A1B2", added[0].ID)
	assert.Equal(t, 180.0, added[0].Price)
	assert.Equal(t, model.StatusReserved, added[0].Status)
	assert.Equal(t, "DN-2025-01-04-C3D4", added[1].ID)
	assert.Equal(t, 12, added[1].Quantity)
	assert.Len(t, s.All(), 2)
}

func TestImportXLSXRejectsBadRows(t *testing.T) {
	s, _ := openTemp(t)

	_, err := s.Import(spreadsheet(t, [][]any{
		{"Name", "Category", "Price"},
		{"Hide", "den", "cheap"},
	}))
	assert.True(t, errx.IsValidation(err))

	_, err = s.Import(spreadsheet(t, [][]any{
		{"Name", "Price"},
		{"Hide", 10},
	}))
	assert.True(t, errx.IsValidation(err))

	_, err = s.Import(spreadsheet(t, [][]any{
		{"Name", "Category", "Price"},
		{"Hide", "den", 10},
		{"Mystery", "snacks", 10},
	}))
	require.Error(t, err)
	assert.True(t, errx.IsValidation(err))
	assert.Empty(t, s.All())

	_, err = s.Import(strings.NewReader("not a spreadsheet"))
	assert.True(t, errx.IsValidation(err))
}
