package inventory

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

const cardsTemplate = `{{- range . -}}
<div class="card glass-panel" data-id="{{ .ID }}" data-category="{{ .Category }}">
  {{- if .Image }}
  <img src="{{ .Image }}" alt="{{ .Name }}" loading="lazy">
  {{- end }}
  <div class="card-body">
    <h3>{{ .Name }}</h3>
    {{- if .Variant }}
    <p class="variant">{{ .Variant }}</p>
    {{- end }}
    <p class="price">{{ money .Price }}</p>
    <span class="badge badge-{{ lower .Status }}">{{ statusLabel .Status }}</span>
    {{- if .VerifiedFeeder }}
    <span class="badge badge-feeder">Verified Feeder</span>
    {{- end }}
    {{- with lastFeeding . }}
    <p class="feeding">Last fed {{ .Date }}: {{ .FoodType }}</p>
    {{- end }}
    <div class="card-actions">
      <button class="btn-buy" data-name="{{ .Name }}" data-price="{{ price .Price }}">Buy</button>
      {{- if eq .Category "pantry" }}
      <button class="btn-subscribe" data-name="{{ .Name }}" data-price="{{ price .Price }}">Subscribe</button>
      {{- end }}
    </div>
  </div>
</div>
{{ end -}}`

const errorTemplate = `<div class="inventory-error" role="alert"><p>{{ . }}</p></div>`

const emptyMarkup = `<div class="inventory-empty"><p>Nothing available in this section right now.</p></div>`

var (
	cards = template.Must(template.New("cards").Funcs(template.FuncMap{
		"money":       func(p float64) string { return model.FormatMoney(model.ToCents(p)) },
		"price":       func(p float64) string { return fmt.Sprintf("%.2f", p) },
		"lower":       func(s string) string { return strings.ToLower(strings.TrimSpace(s)) },
		"statusLabel": statusLabel,
		"lastFeeding": lastFeeding,
	}).Parse(cardsTemplate))

	fallback = template.Must(template.New("error").Parse(errorTemplate))
)

// RenderCards renders one card per item. It is a pure function of items.
func RenderCards(items []model.InventoryItem) (string, error) {
	if len(items) == 0 {
		return emptyMarkup, nil
	}
	var buf bytes.Buffer
	if err := cards.Execute(&buf, items); err != nil {
		return "", fmt.Errorf("render inventory cards: %w", err)
	}
	return buf.String(), nil
}

// ErrorMarkup is the fallback block shown when the section cannot be loaded.
func ErrorMarkup(message string) string {
	var buf bytes.Buffer
	if err := fallback.Execute(&buf, message); err != nil {
		return `<div class="inventory-error" role="alert"></div>`
	}
	return buf.String()
}

// PlainText flattens rendered card markup into one line per card for terminals.
func PlainText(markup string) (string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse card markup: %w", err)
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "card") {
			var parts []string
			collectText(n, &parts)
			if len(parts) > 0 {
				lines = append(lines, strings.Join(parts, " · "))
			}
			return
		}
		if n.Type == html.ElementNode && (hasClass(n, "inventory-error") || hasClass(n, "inventory-empty")) {
			var parts []string
			collectText(n, &parts)
			lines = append(lines, strings.Join(parts, " "))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(lines, "\n"), nil
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	case html.ElementNode:
		if n.Data == "button" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func statusLabel(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case model.StatusReserved:
		return "Reserved"
	case "", model.StatusAvailable:
		return "Available"
	default:
		return strings.TrimSpace(status)
	}
}

func lastFeeding(it model.InventoryItem) *model.FeedingEntry {
	if it.Category != model.CategoryAnimals {
		return nil
	}
	e, ok := it.LastFeeding()
	if !ok {
		return nil
	}
	return &e
}
