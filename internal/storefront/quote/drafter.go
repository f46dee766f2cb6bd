package quote

import (
	"context"
	"net/http"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/inventory"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/leads"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

const (
	SourceModel    = "model"
	SourceTemplate = "template"
)

// Generator is the part of a chat model the drafter needs.
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Request holds the configurator answers.
type Request struct {
	Name     string
	Email    string
	Species  string
	Size     string
	Features []string
	Notes    string
}

// Draft is a quote request ready to hand to the lead form.
type Draft struct {
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	Recommended []string `json:"recommended,omitempty"`
	Source      string   `json:"source"`
}

// Lead converts the draft into a lead for the given contact.
func (d Draft) Lead(name, email string) model.Lead {
	return model.Lead{Name: name, Email: email, Message: d.Body, Subject: d.Subject}
}

// Drafter writes quote requests. Without a generator, or when the model
// fails, a fixed template is used.
type Drafter struct {
	gen       Generator
	modelName string
	habitats  []model.InventoryItem
}

// NewDrafter builds a drafter. gen may be nil. Unsold enclosures in stock are
// offered as recommendations.
func NewDrafter(gen Generator, modelName string, habitats []model.InventoryItem) *Drafter {
	return &Drafter{
		gen:       gen,
		modelName: modelName,
		habitats:  inventory.Filter(habitats, model.CategoryHabitats),
	}
}

// Draft produces the quote request for req.
func (d *Drafter) Draft(ctx context.Context, req Request) (Draft, error) {
	req = normalize(req)
	if req.Species == "" {
		return Draft{}, errx.Validation("please tell us which species the enclosure is for")
	}
	if req.Size == "" {
		return Draft{}, errx.Validation("please pick an enclosure size")
	}

	if d.gen != nil {
		draft, err := d.draftWithModel(ctx, req)
		if err == nil {
			return draft, nil
		}
		logx.Warn().Err(err).Str("species", req.Species).Msg("model draft failed, using template")
	}
	return d.draftFromTemplate(ctx, req)
}

func (d *Drafter) draftWithModel(ctx context.Context, req Request) (Draft, error) {
	system, err := renderSystem(ctx, d.habitats)
	if err != nil {
		return Draft{}, err
	}

	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      d.modelName,
		Type:      "Gemini",
		Component: components.ComponentOfChatModel,
	}, newCallbacks())

	msg, err := d.gen.Generate(ctx, []*schema.Message{schema.SystemMessage(system), userMessage(req)})
	if err != nil {
		return Draft{}, err
	}
	if msg == nil {
		return Draft{}, errx.Remote(nil, "the quote model returned nothing")
	}
	logUsage(d.modelName, msg)

	r, err := parseReply(msg.Content)
	if err != nil {
		return Draft{}, err
	}
	subject := r.Subject
	if subject == "" {
		subject = leads.SubjectQuote
	}
	return Draft{Subject: subject, Body: r.Body, Recommended: r.Recommended, Source: SourceModel}, nil
}

func (d *Drafter) draftFromTemplate(ctx context.Context, req Request) (Draft, error) {
	recommended := d.recommend(req.Size)
	body, err := renderFallback(ctx, req, recommended)
	if err != nil {
		return Draft{}, errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage)
	}
	return Draft{
		Subject:     leads.SubjectQuote,
		Body:        strings.TrimSpace(body),
		Recommended: recommended,
		Source:      SourceTemplate,
	}, nil
}

// recommend picks up to three unsold enclosures, preferring ones matching size.
func (d *Drafter) recommend(size string) []string {
	picks := d.habitats
	if res, err := inventory.Search(d.habitats, size, model.CategoryHabitats, maxRecommended); err == nil && res.Total > 0 {
		picks = res.Items
	}
	var names []string
	for _, it := range picks {
		if len(names) == maxRecommended {
			break
		}
		name := it.Name
		if it.Variant != "" {
			name += " (" + it.Variant + ")"
		}
		names = append(names, name)
	}
	return names
}

func normalize(req Request) Request {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Species = strings.TrimSpace(req.Species)
	req.Size = strings.TrimSpace(req.Size)
	req.Notes = strings.TrimSpace(req.Notes)
	features := make([]string, 0, len(req.Features))
	for _, f := range req.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	req.Features = features
	return req
}
