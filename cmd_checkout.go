package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/app"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

func newCheckoutCmd(rt *deps) *cobra.Command {
	var (
		method   string
		customer model.Customer
		card     model.Card
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Submit the cart as an order",
		Long: `Submits the cart with the chosen payment method to the checkout form. A
confirmation email is sent when the email API is configured and --email is
given. The cart is cleared once the order is accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.Checkout.FormURL == "" {
				return errx.Validation("checkout is not configured, set CHECKOUT_FORM_URL")
			}
			ctx := cmd.Context()
			a, err := rt.app(ctx, true)
			if err != nil {
				return err
			}
			if method != "" {
				if _, err := a.Dispatch(ctx, app.SelectPayment{Method: method}); err != nil {
					return err
				}
			}

			receipt, err := a.Checkout(ctx, customer, card)
			if err != nil {
				return err
			}
			return rt.printMarkdown(receiptMarkdown(receipt))
		},
	}

	names := make([]string, 0, len(model.PaymentMethods))
	for _, m := range model.PaymentMethods {
		names = append(names, string(m))
	}
	cmd.Flags().StringVarP(&method, "method", "m", "", "Payment method: "+strings.Join(names, ", "))
	cmd.Flags().StringVar(&customer.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&customer.Email, "email", "", "Email for the confirmation")
	cmd.Flags().StringVar(&customer.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&customer.Notes, "notes", "", "Order notes")
	cmd.Flags().StringVar(&card.Holder, "card-holder", "", "Card holder (Card payments)")
	cmd.Flags().StringVar(&card.Number, "card-number", "", "Card number (Card payments)")
	cmd.Flags().StringVar(&card.Expiry, "card-expiry", "", "Card expiry MM/YY (Card payments)")
	cmd.Flags().StringVar(&card.CVV, "card-cvv", "", "Card CVV (Card payments)")
	return cmd
}

func receiptMarkdown(r model.Receipt) string {
	var b strings.Builder
	b.WriteString("## Order received\n\n")
	fmt.Fprintf(&b, "**Order:** %s  \n", r.OrderID)
	fmt.Fprintf(&b, "**Payment:** %s  \n", r.PaymentMethod)
	fmt.Fprintf(&b, "**Items:** %d  \n", r.ItemCount)
	fmt.Fprintf(&b, "**Total:** %s\n\n", model.FormatMoney(model.ToCents(r.Total)))
	b.WriteString("```\n" + r.Summary + "\n```\n")
	if r.EmailSent {
		b.WriteString("\nA confirmation email is on its way.\n")
	}
	return b.String()
}
