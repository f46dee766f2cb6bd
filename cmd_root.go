package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/app"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/cart"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/catalog"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/checkout"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/inventory"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/leads"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/outbound"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/repo"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// deps builds the storefront components a command needs, lazily, from
// the environment config.
type deps struct {
	cfg   AppConfig
	out   io.Writer
	plain bool

	kv     model.KeyValueStore
	closer io.Closer
	client *http.Client
}

// newRootCmd builds the command tree. The returned deps must be closed once
// the command finishes, whether or not it failed.
func newRootCmd(cfg AppConfig, out io.Writer) (*cobra.Command, *deps) {
	rt := &deps{cfg: cfg, out: out}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Cold Blooded Heartbeats storefront",
		Long: `Storefront core for Cold Blooded Heartbeats: browse inventory, manage the cart,
check out, request enclosure quotes and capture leads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVar(&rt.plain, "plain", false, "Print markdown without terminal styling")

	root.AddCommand(
		newCartCmd(rt),
		newInventoryCmd(rt),
		newCheckoutCmd(rt),
		newLeadCmd(rt),
		newConfigureCmd(rt),
		newQuoteCmd(rt),
		newShippingCmd(rt),
		newSubscribeCmd(rt),
		newSubscriptionsCmd(rt),
	)
	return root, rt
}

// execute runs root and then releases the storage it opened.
func execute(ctx context.Context, root *cobra.Command, rt *deps) error {
	err := root.ExecuteContext(ctx)
	if cerr := rt.close(); cerr != nil {
		logx.Warn().Err(cerr).Msg("failed to close storage")
		if err == nil {
			err = fmt.Errorf("close storage: %w", cerr)
		}
	}
	return err
}

func (rt *deps) httpClient() *http.Client {
	if rt.client == nil {
		rt.client = &http.Client{Timeout: rt.cfg.Checkout.HTTPTimeout}
	}
	return rt.client
}

func (rt *deps) storage(ctx context.Context) (model.KeyValueStore, error) {
	if rt.kv != nil {
		return rt.kv, nil
	}
	kv, closer, err := repo.Open(ctx, rt.cfg.Storage.Driver, rt.cfg.Redis, rt.cfg.SQLite)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rt.kv, rt.closer = kv, closer
	return kv, nil
}

func (rt *deps) close() error {
	if rt.closer == nil {
		return nil
	}
	err := rt.closer.Close()
	rt.closer, rt.kv = nil, nil
	return err
}

func (rt *deps) loader() *inventory.Loader {
	return inventory.NewLoader(rt.cfg.Inventory, rt.httpClient())
}

func (rt *deps) catalog() (*catalog.Store, error) {
	return catalog.Open(rt.cfg.Inventory.CatalogPath)
}

// app restores the session. withCheckout also compiles the checkout flow.
func (rt *deps) app(ctx context.Context, withCheckout bool) (*app.App, error) {
	kv, err := rt.storage(ctx)
	if err != nil {
		return nil, err
	}
	store := cart.NewStore(repo.NewCartRepository(kv, rt.cfg.Storage.CartKey))

	var co app.Checkouter
	if withCheckout {
		var email checkout.EmailSender
		if rt.cfg.Email.Enabled() {
			email = outbound.NewEmailClient(rt.cfg.Email, rt.httpClient())
		}
		svc, err := checkout.NewService(ctx, outbound.NewFormClient(rt.cfg.Checkout.FormURL, rt.httpClient()), email)
		if err != nil {
			return nil, err
		}
		co = svc
	}

	a := app.New(store, co)
	if err := a.Start(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (rt *deps) leads(ctx context.Context) (*leads.Service, error) {
	kv, err := rt.storage(ctx)
	if err != nil {
		return nil, err
	}
	form := outbound.NewFormClient(rt.cfg.Checkout.LeadFormURL, rt.httpClient())
	return leads.NewService(repo.NewLeadRepository(kv, rt.cfg.Storage.LeadsKey), form), nil
}

// printMarkdown renders md for the terminal, or as-is with --plain.
func (rt *deps) printMarkdown(md string) error {
	if rt.plain {
		_, err := fmt.Fprintln(rt.out, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		logx.Debug().Err(err).Msg("markdown renderer unavailable, printing raw")
		_, err = fmt.Fprintln(rt.out, md)
		return err
	}
	styled, err := r.Render(md)
	if err != nil {
		_, err = fmt.Fprintln(rt.out, md)
		return err
	}
	_, err = fmt.Fprint(rt.out, styled)
	return err
}

func (rt *deps) printf(format string, args ...any) {
	fmt.Fprintf(rt.out, format, args...)
}
