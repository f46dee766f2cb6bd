package main

import (
	"github.com/spf13/cobra"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/leads"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

func newLeadCmd(rt *deps) *cobra.Command {
	var (
		lead             model.Lead
		buy, subscribe   string
		consult, listAll bool
	)

	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Send an inquiry to the shop",
		Long: `Records an inquiry and posts it to the lead form when LEAD_FORM_URL is set.
--buy and --subscribe ask about a product; --consult requests a specialty
consultation. --list prints the locally recorded leads instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.leads(cmd.Context())
			if err != nil {
				return err
			}

			if listAll {
				all, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, l := range all {
					rt.printf("%s\t%s\t%s\t%s\t%s\n", l.Timestamp.Format("2006-01-02 15:04"), l.Status, l.Name, l.Email, l.Subject)
				}
				return nil
			}

			switch {
			case buy != "" && subscribe != "":
				return errx.Validation("use either --buy or --subscribe")
			case buy != "":
				lead.Subject = leads.PurchaseSubject(buy)
			case subscribe != "":
				lead.Subject = leads.SubscriptionSubject(subscribe)
			case consult:
				lead.Subject = leads.SubjectConsult
			}

			saved, err := svc.Submit(cmd.Context(), lead)
			if err != nil {
				if saved.Status != "" {
					rt.printf("Your message was saved locally but could not be sent.\n")
				}
				return err
			}
			rt.printf("Thanks %s, we'll be in touch soon.\n", saved.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&lead.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&lead.Email, "email", "", "Your email")
	cmd.Flags().StringVar(&lead.Message, "message", "", "Message")
	cmd.Flags().StringVar(&buy, "buy", "", "Ask to buy the named product")
	cmd.Flags().StringVar(&subscribe, "subscribe", "", "Ask about a subscription to the named product")
	cmd.Flags().BoolVar(&consult, "consult", false, "Request a specialty consultation")
	cmd.Flags().BoolVar(&listAll, "list", false, "List locally recorded leads")
	return cmd
}
