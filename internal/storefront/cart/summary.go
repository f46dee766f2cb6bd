package cart

import (
	"fmt"
	"strings"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

// Line is one rendered cart row. Position is 1-based.
type Line struct {
	Position       int
	Name           string
	Quantity       int
	UnitCents      int64
	LineTotalCents int64
}

// Summary is the render projection of a cart.
type Summary struct {
	Lines      []Line
	Count      int
	TotalCents int64
}

func (s Summary) Empty() bool { return len(s.Lines) == 0 }

// Summary projects the cart into display rows plus totals.
func (c Cart) Summary() Summary {
	totals := c.Totals()
	s := Summary{Lines: make([]Line, 0, len(c.items)), Count: totals.Count, TotalCents: totals.TotalCents}
	for i, it := range c.items {
		s.Lines = append(s.Lines, Line{
			Position:       i + 1,
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitCents:      it.PriceCents(),
			LineTotalCents: it.LineTotalCents(),
		})
	}
	return s
}

// Markdown renders the summary as a table for the terminal.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("## Your Cart\n\n")
	if s.Empty() {
		b.WriteString("_Your cart is empty._\n")
		return b.String()
	}
	b.WriteString("| # | Item | Qty | Unit | Line total |\n")
	b.WriteString("|---|------|----:|-----:|-----------:|\n")
	for _, l := range s.Lines {
		fmt.Fprintf(&b, "| %d | %s | %d | %s | %s |\n",
			l.Position, escapeCell(l.Name), l.Quantity, model.FormatMoney(l.UnitCents), model.FormatMoney(l.LineTotalCents))
	}
	fmt.Fprintf(&b, "\n**Items:** %d  \n**Total:** %s\n", s.Count, model.FormatMoney(s.TotalCents))
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
