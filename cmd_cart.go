package main

import (
	"strconv"

	"github.com/spf13/cobra"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/app"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/inventory"
)

func newCartCmd(rt *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the shopping cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.app(cmd.Context(), false)
			if err != nil {
				return err
			}
			return rt.printMarkdown(a.View().Cart.Markdown())
		},
	}

	var qty int
	add := &cobra.Command{
		Use:   "add [product-id]",
		Short: "Add an inventory item to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, err := rt.loader().Fetch(ctx)
			if err != nil {
				return err
			}
			item, err := inventory.Find(items, args[0])
			if err != nil {
				return err
			}
			if item.IsSold() {
				return errx.Validationf("%s is sold", item.Name)
			}

			a, err := rt.app(ctx, false)
			if err != nil {
				return err
			}
			v, err := a.Dispatch(ctx, app.AddToCart{Item: item.AsLineItem(), Quantity: qty})
			if err != nil {
				return err
			}
			rt.printf("%s\n\n", v.Notice)
			return rt.printMarkdown(v.Cart.Markdown())
		},
	}
	add.Flags().IntVarP(&qty, "qty", "q", 1, "Quantity to add")

	remove := &cobra.Command{
		Use:   "remove [position]",
		Short: "Remove a cart line by its 1-based position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			return dispatchAndShow(cmd, rt, app.RemoveLine{Index: pos - 1})
		},
	}

	update := &cobra.Command{
		Use:     "update [position] [delta]",
		Short:   "Change a line's quantity by delta; lines dropping below 1 are removed",
		Example: "  storefront cart update 1 2\n  storefront cart update -- 1 -1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return errx.Validationf("delta must be a whole number, got %q", args[1])
			}
			return dispatchAndShow(cmd, rt, app.ChangeQuantity{Index: pos - 1, Delta: delta})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchAndShow(cmd, rt, app.ClearCart{})
		},
	}

	cmd.AddCommand(show, add, remove, update, clearCmd)
	return cmd
}

func dispatchAndShow(cmd *cobra.Command, rt *deps, action app.Action) error {
	a, err := rt.app(cmd.Context(), false)
	if err != nil {
		return err
	}
	v, err := a.Dispatch(cmd.Context(), action)
	if err != nil {
		return err
	}
	return rt.printMarkdown(v.Cart.Markdown())
}

func parsePosition(raw string) (int, error) {
	pos, err := strconv.Atoi(raw)
	if err != nil || pos < 1 {
		return 0, errx.Validationf("position must be a number from 1, got %q", raw)
	}
	return pos, nil
}
