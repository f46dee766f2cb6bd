package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/quote"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/tui"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

func newQuoteCmd(rt *deps) *cobra.Command {
	var (
		req  quote.Request
		send bool
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Draft an enclosure quote request",
		Long: `Drafts an enclosure quote request from the configurator answers. With
GEMINI_API_KEY set the draft is written by the model, otherwise a template is
used. --send submits it to the shop as a lead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.requestQuote(cmd.Context(), req, send)
		},
	}
	cmd.Flags().StringVar(&req.Species, "species", "", "Species the enclosure is for")
	cmd.Flags().StringVar(&req.Size, "size", "", "Enclosure size, e.g. 4x2x2")
	cmd.Flags().StringSliceVar(&req.Features, "feature", nil, "Requested feature (repeatable)")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Anything else we should know")
	cmd.Flags().StringVar(&req.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Your email")
	cmd.Flags().BoolVar(&send, "send", false, "Send the request to the shop")
	return cmd
}

func newConfigureCmd(rt *deps) *cobra.Command {
	var initial quote.Request
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Walk through the enclosure configurator",
		Long: `Opens the three-step enclosure configurator. Requesting the quote on the last
step drafts it and sends it to the shop when a name and email were given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := tui.Run(cmd.Context(), initial)
			if err != nil {
				return err
			}
			return rt.requestQuote(cmd.Context(), req, req.Name != "" && req.Email != "")
		},
	}
	cmd.Flags().StringVar(&initial.Species, "species", "", "Prefill the species")
	cmd.Flags().StringVar(&initial.Name, "name", "", "Prefill your name")
	cmd.Flags().StringVar(&initial.Email, "email", "", "Prefill your email")
	return cmd
}

func (rt *deps) drafter(ctx context.Context) *quote.Drafter {
	stock, err := rt.loader().Fetch(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("inventory unavailable, drafting without recommendations")
	}

	var gen quote.Generator
	if rt.cfg.Quote.APIKey != "" {
		cm, err := quote.NewChatModel(ctx, rt.cfg.Quote)
		if err != nil {
			logx.Warn().Err(err).Msg("quote model unavailable, using template")
		} else {
			gen = cm
		}
	}
	return quote.NewDrafter(gen, rt.cfg.Quote.Model, stock)
}

func (rt *deps) requestQuote(ctx context.Context, req quote.Request, send bool) error {
	draft, err := rt.drafter(ctx).Draft(ctx, req)
	if err != nil {
		return err
	}

	var md strings.Builder
	md.WriteString("## " + draft.Subject + "\n\n")
	md.WriteString("```\n" + draft.Body + "\n```\n")
	if err := rt.printMarkdown(md.String()); err != nil {
		return err
	}
	if !send {
		return nil
	}

	svc, err := rt.leads(ctx)
	if err != nil {
		return err
	}
	saved, err := svc.Submit(ctx, draft.Lead(req.Name, req.Email))
	if err != nil {
		return err
	}
	rt.printf("Quote request sent. Thanks %s, a keeper will reply shortly.\n", saved.Name)
	return nil
}
