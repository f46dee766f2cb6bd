package cart

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

var (
	rackA  = model.LineItem{Name: "Rack A", Price: 49.99}
	dubia  = model.LineItem{Name: "Dubia Roaches (100ct)", Price: 24.5}
	heater = model.LineItem{Name: "Heat Mat", Price: 18}
)

func mustAdd(t *testing.T, c Cart, item model.LineItem, qty int) Cart {
	t.Helper()
	next, err := c.Add(item, qty)
	require.NoError(t, err)
	return next
}

func TestAddMergesSameKey(t *testing.T) {
	c := mustAdd(t, Cart{}, rackA, 2)
	c = mustAdd(t, c, rackA, 5)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 7, c.Items()[0].Quantity)
}

func TestAddKeepsDifferentPricesApart(t *testing.T) {
	c := mustAdd(t, Cart{}, rackA, 1)
	c = mustAdd(t, c, model.LineItem{Name: "Rack A", Price: 59.99}, 1)

	assert.Equal(t, 2, c.Len())
}

func TestAddRackAExample(t *testing.T) {
	c := mustAdd(t, Cart{}, rackA, 1)
	c = mustAdd(t, c, rackA, 2)

	want := []model.LineItem{{Name: "Rack A", Price: 49.99, Quantity: 3}}
	if diff := cmp.Diff(want, c.Items()); diff != "" {
		t.Fatalf("cart mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(14997), c.Totals().TotalCents)
	assert.Equal(t, 149.97, c.Total())
	assert.Equal(t, "$149.97", model.FormatMoney(c.Totals().TotalCents))
}

func TestAddRejectsInvalidInput(t *testing.T) {
	base := mustAdd(t, Cart{}, rackA, 1)

	tests := []struct {
		name string
		item model.LineItem
		qty  int
	}{
		{name: "zero quantity", item: dubia, qty: 0},
		{name: "negative quantity", item: dubia, qty: -2},
		{name: "blank name", item: model.LineItem{Name: "  ", Price: 3}, qty: 1},
		{name: "negative price", item: model.LineItem{Name: "Refund", Price: -1}, qty: 1},
		{name: "quantity over limit", item: dubia, qty: MaxQuantity + 1},
		{name: "max int quantity", item: dubia, qty: math.MaxInt},
		{name: "price over limit", item: model.LineItem{Name: "Big", Price: MaxPrice + 0.01}, qty: 1},
		{name: "huge price", item: model.LineItem{Name: "Big", Price: 1e20}, qty: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := base.Add(tt.item, tt.qty)
			require.Error(t, err)
			assert.True(t, errx.IsValidation(err))
			assert.True(t, next.Equal(base))
		})
	}
}

func TestAddCannotPushLinePastLimit(t *testing.T) {
	c := mustAdd(t, Cart{}, rackA, MaxQuantity)

	next, err := c.Add(rackA, 2)
	require.Error(t, err)
	assert.True(t, errx.IsValidation(err))
	assert.True(t, next.Equal(c))
	assert.Equal(t, MaxQuantity, c.Items()[0].Quantity)
	assert.Positive(t, c.Totals().TotalCents)
}

func TestAddAtLimitKeepsTotalsExact(t *testing.T) {
	c := mustAdd(t, Cart{}, model.LineItem{Name: "Big", Price: MaxPrice}, MaxQuantity)

	want := int64(MaxQuantity) * model.ToCents(MaxPrice)
	assert.Equal(t, want, c.Totals().TotalCents)
	assert.Equal(t, "$10000000000.00", model.FormatMoney(c.Totals().TotalCents))
}

func TestAddDoesNotMutateReceiver(t *testing.T) {
	base := mustAdd(t, Cart{}, rackA, 1)
	_ = mustAdd(t, base, rackA, 4)
	_ = mustAdd(t, base, dubia, 1)

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 1, base.Items()[0].Quantity)
}

func TestUpdateQuantityRemovesAtOne(t *testing.T) {
	c := mustAdd(t, Cart{}, rackA, 2)
	c = mustAdd(t, c, dubia, 1)
	before := c.Totals().Count

	c, err := c.UpdateQuantity(1, -1)
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, before-1, c.Totals().Count)
	assert.Equal(t, "Rack A", c.Items()[0].Name)
}

func TestUpdateQuantityIncrements(t *testing.T) {
	c := mustAdd(t, Cart{}, heater, 1)
	c, err := c.UpdateQuantity(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Items()[0].Quantity)
}

func TestUpdateQuantityRejectsOverflow(t *testing.T) {
	c := mustAdd(t, Cart{}, rackA, 5)

	for _, delta := range []int{math.MaxInt, MaxQuantity} {
		next, err := c.UpdateQuantity(0, delta)
		require.Error(t, err, "delta %d", delta)
		assert.True(t, errx.IsValidation(err))
		require.Equal(t, 1, next.Len())
		assert.Equal(t, 5, next.Items()[0].Quantity)
	}

	next, err := c.UpdateQuantity(0, MaxQuantity-5)
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, next.Items()[0].Quantity)

	next, err = c.UpdateQuantity(0, math.MinInt)
	require.NoError(t, err)
	assert.True(t, next.IsEmpty())
}

func TestRemoveChecksIndex(t *testing.T) {
	_, err := Cart{}.Remove(0)
	require.Error(t, err)
	assert.True(t, errx.IsValidation(err))
	assert.Equal(t, "the cart is empty", errx.MessageOf(err))

	c := mustAdd(t, Cart{}, rackA, 1)
	for _, idx := range []int{-1, 1, 7} {
		next, err := c.Remove(idx)
		require.Error(t, err, "index %d", idx)
		assert.True(t, next.Equal(c))
	}

	_, err = c.UpdateQuantity(3, 1)
	assert.True(t, errx.IsValidation(err))
}

func TestRemoveKeepsOrder(t *testing.T) {
	c := mustAdd(t, Cart{}, rackA, 1)
	c = mustAdd(t, c, dubia, 1)
	c = mustAdd(t, c, heater, 1)

	c, err := c.Remove(1)
	require.NoError(t, err)

	names := []string{}
	for _, it := range c.Items() {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Rack A", "Heat Mat"}, names)
}

// Totals are checked against an independent tally after a random walk of
// operations.
func TestTotalsAfterRandomSequence(t *testing.T) {
	catalog := []model.LineItem{rackA, dubia, heater, {Name: "Cork Bark", Price: 0.1}, {Name: "Hide", Price: 12.35}}
	rng := rand.New(rand.NewSource(42))

	c := Cart{}
	for step := 0; step < 500; step++ {
		var err error
		switch op := rng.Intn(3); {
		case op == 0 || c.IsEmpty():
			c, err = c.Add(catalog[rng.Intn(len(catalog))], 1+rng.Intn(4))
		case op == 1:
			c, err = c.Remove(rng.Intn(c.Len()))
		default:
			delta := []int{-1, 1, 2}[rng.Intn(3)]
			c, err = c.UpdateQuantity(rng.Intn(c.Len()), delta)
		}
		require.NoError(t, err)

		var count int
		var cents int64
		seen := map[model.ItemKey]bool{}
		for _, it := range c.Items() {
			require.GreaterOrEqual(t, it.Quantity, 1)
			require.False(t, seen[it.Key()], "duplicate key %v", it.Key())
			seen[it.Key()] = true
			count += it.Quantity
			cents += model.ToCents(it.Price) * int64(it.Quantity)
		}
		require.Equal(t, Totals{Count: count, TotalCents: cents}, c.Totals(), "step %d", step)
	}
}

func TestRestoreDropsInvalidAndMergesDuplicates(t *testing.T) {
	c, dropped := Restore([]model.LineItem{
		{Name: "Rack A", Price: 49.99, Quantity: 1},
		{Name: "", Price: 3, Quantity: 1},
		{Name: "Heat Mat", Price: 18, Quantity: 0},
		{Name: "Rack A", Price: 49.99, Quantity: 2},
	})

	assert.Equal(t, 2, dropped)
	want := []model.LineItem{{Name: "Rack A", Price: 49.99, Quantity: 3}}
	if diff := cmp.Diff(want, c.Items()); diff != "" {
		t.Fatalf("restored cart mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreDropsOutOfRangeLines(t *testing.T) {
	c, dropped := Restore([]model.LineItem{
		{Name: "Rack A", Price: 49.99, Quantity: MaxQuantity},
		{Name: "Rack A", Price: 49.99, Quantity: 2},
		{Name: "Heat Mat", Price: 18, Quantity: math.MaxInt},
		{Name: "Big", Price: 1e20, Quantity: 1},
	})

	assert.Equal(t, 3, dropped)
	want := []model.LineItem{{Name: "Rack A", Price: 49.99, Quantity: MaxQuantity}}
	if diff := cmp.Diff(want, c.Items()); diff != "" {
		t.Fatalf("restored cart mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	assert.Contains(t, Cart{}.Summary().Markdown(), "Your cart is empty")

	c := mustAdd(t, Cart{}, rackA, 3)
	c = mustAdd(t, c, model.LineItem{Name: "Tub | 6qt", Price: 4}, 1)
	s := c.Summary()

	require.Len(t, s.Lines, 2)
	assert.Equal(t, 1, s.Lines[0].Position)
	assert.Equal(t, int64(14997), s.Lines[0].LineTotalCents)

	md := s.Markdown()
	assert.Contains(t, md, "| 1 | Rack A | 3 | $49.99 | $149.97 |")
	assert.Contains(t, md, `Tub \| 6qt`)
	assert.Contains(t, md, "**Total:** $153.97")
	assert.Equal(t, md, c.Summary().Markdown())
}
