package checkout

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"

	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// newCallbacks logs the lifecycle of every graph step.
func newCallbacks() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			if info != nil {
				logx.Debug().Str("step", info.Name).Str("component", string(info.Component)).Msg("checkout step start")
			}
			return ctx
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			if info != nil {
				logx.Debug().Str("step", info.Name).Msg("checkout step end")
			}
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			name := ""
			if info != nil {
				name = info.Name
			}
			logx.Warn().Err(err).Str("step", name).Msg("checkout step failed")
			return ctx
		}).
		Build()
}
