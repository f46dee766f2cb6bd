package quote

import (
	"context"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// newModelHandler logs the drafting call around the chat model.
func newModelHandler() *callbackHelper.ModelCallbackHandler {
	return &callbackHelper.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *einomodel.CallbackInput) context.Context {
			n := 0
			if input != nil {
				n = len(input.Messages)
			}
			logx.Debug().Str("model", info.Name).Int("messages", n).Msg("quote draft started")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *einomodel.CallbackOutput) context.Context {
			if output != nil && output.Message != nil {
				logx.Debug().
					Str("model", info.Name).
					Int("reply_len", len(strings.TrimSpace(output.Message.Content))).
					Msg("quote draft finished")
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("model", info.Name).Msg("quote draft failed")
			return ctx
		},
	}
}

// newPromptHandler traces template renders. Rendered content is not logged
// since it carries customer answers.
func newPromptHandler() *callbackHelper.PromptCallbackHandler {
	return &callbackHelper.PromptCallbackHandler{
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			n := 0
			if output != nil {
				n = len(output.Result)
			}
			logx.Debug().Str("template", info.Name).Int("messages", n).Msg("quote prompt rendered")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("template", info.Name).Msg("quote prompt render failed")
			return ctx
		},
	}
}

func newCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().ChatModel(newModelHandler()).Handler()
}

func newPromptCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().Prompt(newPromptHandler()).Handler()
}
