package main

import (
	"github.com/spf13/cobra"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/repo"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/shipping"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/subscription"
)

func newShippingCmd(rt *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "shipping [zip]",
		Short: "Check whether live animals can ship to a ZIP code today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := shipping.NewGuard(nil).Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rt.printf("%s\t%dF\t%s\n", v.Status, v.TemperatureF, v.Message)
			return nil
		},
	}
}

func (rt *deps) subscriptions(cmd *cobra.Command) (*subscription.Service, error) {
	kv, err := rt.storage(cmd.Context())
	if err != nil {
		return nil, err
	}
	return subscription.NewService(repo.NewSubscriptionRepository(kv, rt.cfg.Storage.SubscriptionsKey)), nil
}

func newSubscribeCmd(rt *deps) *cobra.Command {
	var (
		user, item string
		weeks      int
	)
	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Start a recurring pantry delivery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.subscriptions(cmd)
			if err != nil {
				return err
			}
			sub, err := svc.Create(cmd.Context(), user, item, weeks)
			if err != nil {
				return err
			}
			rt.printf("%s: %s every %d week(s), first shipment %s\n", sub.ID, sub.Item, sub.FrequencyWeeks, sub.NextShipDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Customer id")
	cmd.Flags().StringVar(&item, "item", "", "Item to deliver")
	cmd.Flags().IntVar(&weeks, "weeks", 2, "Delivery frequency in weeks")
	return cmd
}

func newSubscriptionsCmd(rt *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "subscriptions",
		Short: "List subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rt.subscriptions(cmd)
			if err != nil {
				return err
			}
			subs, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				rt.printf("No subscriptions.\n")
				return nil
			}
			for _, s := range subs {
				rt.printf("%s\t%s\t%s\tevery %dw\tnext %s\t%s\n", s.ID, s.UserID, s.Item, s.FrequencyWeeks, s.NextShipDate, s.Status)
			}
			return nil
		},
	}
}
