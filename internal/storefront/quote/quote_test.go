package quote

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/leads"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

type fakeGenerator struct {
	reply *schema.Message
	err   error
	seen  []*schema.Message
}

func (f *fakeGenerator) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.seen = input
	return f.reply, f.err
}

var stock = []model.InventoryItem{
	{ID: "HB-1", Category: model.CategoryHabitats, Name: "Rack A", Variant: "6 tub, 41qt", Price: 49.99, Status: model.StatusAvailable},
	{ID: "HB-2", Category: model.CategoryHabitats, Name: "PVC Enclosure", Variant: "4x2x2", Price: 299, Status: model.StatusAvailable},
	{ID: "HB-3", Category: model.CategoryHabitats, Name: "Glass 40g", Variant: "4x2x2 front opening", Price: 180, Status: "SOLD"},
	{ID: "DN-1", Category: model.CategoryDen, Name: "Cork Bark Flat", Price: 14, Status: model.StatusAvailable},
}

var pythonRequest = Request{
	Name:     " Sam ",
	Email:    "sam@example.com",
	Species:  "Ball Python",
	Size:     "4x2x2",
	Features: []string{"heat panel", " ", "bioactive"},
}

func TestDraftFromTemplate(t *testing.T) {
	d := NewDrafter(nil, "", stock)

	draft, err := d.Draft(context.Background(), pythonRequest)
	require.NoError(t, err)

	assert.Equal(t, SourceTemplate, draft.Source)
	assert.Equal(t, leads.SubjectQuote, draft.Subject)
	assert.Equal(t, []string{"PVC Enclosure (4x2x2)"}, draft.Recommended)
	assert.True(t, strings.HasPrefix(draft.Body, "Hi Sam,\n"))
	for _, line := range []string{
		"Species: Ball Python\n",
		"Enclosure size: 4x2x2\n",
		"Features: heat panel, bioactive\n",
		"- PVC Enclosure (4x2x2)\n",
	} {
		assert.Contains(t, draft.Body, line)
	}
	assert.NotContains(t, draft.Body, "Notes:")
	assert.NotContains(t, draft.Body, "Glass 40g")
	assert.True(t, strings.HasSuffix(draft.Body, "pricing shortly."))
}

func TestDraftFromTemplateWithoutSizeMatch(t *testing.T) {
	d := NewDrafter(nil, "", stock)

	draft, err := d.Draft(context.Background(), Request{Species: "Crested Gecko", Size: "18x18x24", Notes: "arboreal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rack A (6 tub, 41qt)", "PVC Enclosure (4x2x2)"}, draft.Recommended)
	assert.True(t, strings.HasPrefix(draft.Body, "Hi there,\n"))
	assert.Contains(t, draft.Body, "Notes: arboreal\n")
	assert.NotContains(t, draft.Body, "Features:")
}

func TestDraftWithModel(t *testing.T) {
	gen := &fakeGenerator{reply: &schema.Message{
		Role: schema.Assistant,
		Content: "Sure!\n```json\n" +
			`{"subject": "Ball python build", "body": " Hello Sam, a 4x2x2 PVC works well. ", "recommended": ["PVC Enclosure", " ", "a", "b", "c"]}` +
			"\n```",
		ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 300, CompletionTokens: 80, TotalTokens: 380}},
	}}
	d := NewDrafter(gen, "gemini-2.5-flash", stock)

	draft, err := d.Draft(context.Background(), pythonRequest)
	require.NoError(t, err)
	assert.Equal(t, Draft{
		Subject:     "Ball python build",
		Body:        "Hello Sam, a 4x2x2 PVC works well.",
		Recommended: []string{"PVC Enclosure", "a", "b"},
		Source:      SourceModel,
	}, draft)

	require.Len(t, gen.seen, 2)
	assert.Equal(t, schema.System, gen.seen[0].Role)
	assert.Contains(t, gen.seen[0].Content, "Cold Blooded Heartbeats")
	assert.Contains(t, gen.seen[0].Content, "- PVC Enclosure (4x2x2): $299.00")
	assert.Contains(t, gen.seen[0].Content, "- Rack A (6 tub, 41qt): $49.99")
	assert.NotContains(t, gen.seen[0].Content, "Glass 40g")
	assert.NotContains(t, gen.seen[0].Content, "Cork Bark")
	assert.Equal(t, schema.User, gen.seen[1].Role)
	assert.Contains(t, gen.seen[1].Content, "Species: Ball Python\n")
	assert.Contains(t, gen.seen[1].Content, "Customer name: Sam\n")
}

func TestDraftFallsBackWhenModelFails(t *testing.T) {
	for name, gen := range map[string]*fakeGenerator{
		"error":   {err: errors.New("quota exceeded")},
		"nil":     {},
		"garbage": {reply: schema.AssistantMessage("I cannot help with that", nil)},
		"empty":   {reply: schema.AssistantMessage(`{"subject": "x", "body": "  "}`, nil)},
	} {
		t.Run(name, func(t *testing.T) {
			draft, err := NewDrafter(gen, "gemini-2.5-flash", stock).Draft(context.Background(), pythonRequest)
			require.NoError(t, err)
			assert.Equal(t, SourceTemplate, draft.Source)
			assert.Equal(t, leads.SubjectQuote, draft.Subject)
		})
	}
}

func TestDraftValidation(t *testing.T) {
	gen := &fakeGenerator{}
	d := NewDrafter(gen, "", stock)

	_, err := d.Draft(context.Background(), Request{Size: "4x2x2"})
	assert.True(t, errx.IsValidation(err))
	_, err = d.Draft(context.Background(), Request{Species: "Ball Python", Size: "  "})
	assert.True(t, errx.IsValidation(err))
	assert.Nil(t, gen.seen)
}

func TestDraftLead(t *testing.T) {
	lead := Draft{Subject: leads.SubjectQuote, Body: "body"}.Lead("Sam", "sam@example.com")
	assert.Equal(t, model.Lead{Name: "Sam", Email: "sam@example.com", Message: "body", Subject: leads.SubjectQuote}, lead)
}

func TestParseReply(t *testing.T) {
	r, err := parseReply(`{"subject": "` + strings.Repeat("é", 250) + `", "body": "ok"}`)
	require.NoError(t, err)
	assert.Equal(t, maxSubjectLen, len([]rune(r.Subject)))
	assert.Empty(t, r.Recommended)

	for name, content := range map[string]string{
		"too large": `{"body": "` + strings.Repeat("a", maxContentLen) + `"}`,
		"bad utf8":  "{\"body\": \"\xff\"}",
		"no object": "no json here",
		"bad json":  `{"body": }`,
		"long body": `{"body": "` + strings.Repeat("a", maxBodyLen+1) + `"}`,
	} {
		_, err := parseReply(content)
		assert.Error(t, err, name)
	}
}

func TestUsageCost(t *testing.T) {
	usage := &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 2_000_000}
	assert.InDelta(t, 5.30, usageCost("gemini-2.5-flash", usage), 1e-9)
	assert.InDelta(t, 0.90, usageCost("gemini-2.5-flash-lite", usage), 1e-9)
	assert.Zero(t, usageCost("gemini-2.5-flash", nil))
	assert.Zero(t, usageCost("unknown", usage))
}

func TestNewChatModelRequiresKey(t *testing.T) {
	_, err := NewChatModel(context.Background(), model.QuoteConfig{Model: "gemini-2.5-flash"})
	assert.Error(t, err)
}
