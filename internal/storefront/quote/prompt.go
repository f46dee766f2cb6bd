package quote

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

//go:embed template/quote_system.txt
var systemPrompt string

//go:embed template/quote_fallback.txt
var fallbackBody string

const shopName = "Cold Blooded Heartbeats"

type habitatView struct {
	Name    string
	Variant string
	Price   string
}

// renderSystem renders the drafting instructions with the enclosures in stock.
func renderSystem(ctx context.Context, habitats []model.InventoryItem) (string, error) {
	views := make([]habitatView, 0, len(habitats))
	for _, h := range habitats {
		views = append(views, habitatView{
			Name:    h.Name,
			Variant: h.Variant,
			Price:   model.FormatMoney(model.ToCents(h.Price)),
		})
	}
	return format(ctx, "quote_system", schema.SystemMessage(systemPrompt), map[string]any{
		"ShopName": shopName,
		"Habitats": views,
	})
}

// renderFallback renders the deterministic quote body used without a model.
func renderFallback(ctx context.Context, req Request, recommended []string) (string, error) {
	name := req.Name
	if name == "" {
		name = "there"
	}
	return format(ctx, "quote_fallback", schema.UserMessage(fallbackBody), map[string]any{
		"Name":        name,
		"Species":     req.Species,
		"Size":        req.Size,
		"Features":    strings.Join(req.Features, ", "),
		"Notes":       req.Notes,
		"Recommended": recommended,
	})
}

// userMessage describes the customer's answers to the model.
func userMessage(req Request) *schema.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Species: %s\n", req.Species)
	fmt.Fprintf(&b, "Enclosure size: %s\n", req.Size)
	if len(req.Features) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(req.Features, ", "))
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", req.Notes)
	}
	if req.Name != "" {
		fmt.Fprintf(&b, "Customer name: %s\n", req.Name)
	}
	return schema.UserMessage(b.String())
}

func format(ctx context.Context, name string, msg *schema.Message, vars map[string]any) (string, error) {
	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      name,
		Type:      "GoTemplate",
		Component: components.ComponentOfPrompt,
	}, newPromptCallbacks())

	tpl := prompt.FromMessages(schema.GoTemplate, msg)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("quote prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("quote prompt render: empty result")
	}
	return msgs[0].Content, nil
}
