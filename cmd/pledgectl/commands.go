package main

import (
	"context"

	"github.com/spf13/cobra"
)

type donationResult struct {
	DonationID string `json:"donation_id"`
	OK         bool   `json:"ok"`
}

// donationCmd builds a command running one donation operation by id.
func donationCmd(use, short string, op func(ctx context.Context, s *services, id string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [donation-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, s *services) error {
				ok, err := op(ctx, s, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), donationResult{DonationID: args[0], OK: ok})
			})
		},
	}
}

func collectCmd() *cobra.Command {
	return donationCmd("collect", "Capture a donation's payment", func(ctx context.Context, s *services, id string) (bool, error) {
		return s.Donations.Collect(ctx, id)
	})
}

func cancelCmd() *cobra.Command {
	return donationCmd("cancel", "Void a donation's authorization", func(ctx context.Context, s *services, id string) (bool, error) {
		return s.Donations.Cancel(ctx, id)
	})
}

func refundCmd() *cobra.Command {
	return donationCmd("refund", "Refund a donation's payment", func(ctx context.Context, s *services, id string) (bool, error) {
		return s.Donations.Refund(ctx, id)
	})
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [payment-id]",
		Short: "Repair a payment state from its transaction log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, s *services) error {
				res, err := s.Payments.Reconcile(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"payment_id": res.Payment.ID,
					"from":       res.From,
					"to":         res.To,
				})
			})
		},
	}
}

func reconcilePendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile-pending",
		Short: "Reconcile pending payments that already have provider responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withServices(cmd.Context(), func(ctx context.Context, s *services) error {
				n, err := s.Collector.ReconcilePending(ctx, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]int{"repaired": n})
			})
		},
	}
	cmd.Flags().IntP("limit", "n", 100, "Maximum payments to inspect")
	return cmd
}

func collectCampaignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect-campaign [campaign-id]",
		Short: "Collect every donation of a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, s *services) error {
				report, err := s.Collector.CollectCampaign(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [campaign-id]",
		Short: "Show pledged and collected totals of a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, s *services) error {
				sum, err := s.Stats.CampaignSummary(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sum)
			})
		},
	}
}
