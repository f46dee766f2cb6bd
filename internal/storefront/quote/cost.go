package quote

import (
	"github.com/cloudwego/eino/schema"

	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// USD per million tokens, standard text tier: {prompt, completion}.
var tokenRates = map[string][2]float64{
	"gemini-2.5-flash":      {0.30, 2.50},
	"gemini-2.5-flash-lite": {0.10, 0.40},
}

// usageCost prices usage for modelName. Unknown models cost nothing.
func usageCost(modelName string, usage *schema.TokenUsage) float64 {
	rate, ok := tokenRates[modelName]
	if !ok || usage == nil {
		return 0
	}
	return (rate[0]*float64(usage.PromptTokens) + rate[1]*float64(usage.CompletionTokens)) / 1e6
}

func logUsage(modelName string, msg *schema.Message) {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return
	}
	usage := msg.ResponseMeta.Usage
	logx.Info().
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Float64("cost_usd", usageCost(modelName, usage)).
		Msg("quote model usage")
}
