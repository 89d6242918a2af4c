package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/frahmantamala/hr-portal/internal/directory"
	"github.com/spf13/cobra"
)

var decisionNote string

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Work the approval inbox",
}

var approvalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending approvals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, _ directory.TokenSource) error {
			pending, err := client.ListPendingApprovals(ctx)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending approvals")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tEMPLOYEE\tSUBMITTED\tSUMMARY")
			for _, p := range pending {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Kind, p.EmployeeName, p.SubmittedAt, p.Summary)
			}
			return tw.Flush()
		})
	},
}

var approvalsApproveCmd = &cobra.Command{
	Use:   "approve <approval-id>",
	Short: "Approve a pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], "Approved", func(ctx context.Context, client *directory.Client) error {
			return client.Approve(ctx, args[0], directory.ApprovalDecision{Note: decisionNote})
		})
	},
}

var approvalsRejectCmd = &cobra.Command{
	Use:   "reject <approval-id>",
	Short: "Reject a pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], "Rejected", func(ctx context.Context, client *directory.Client) error {
			return client.Reject(ctx, args[0], directory.ApprovalDecision{Note: decisionNote})
		})
	},
}

func decide(cmd *cobra.Command, id, label string, forward func(ctx context.Context, client *directory.Client) error) error {
	return withDirectory(func(ctx context.Context, client *directory.Client, tokens directory.TokenSource) error {
		if err := requireToken(ctx, tokens); err != nil {
			return err
		}
		if err := forward(ctx, client); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", label, id)
		return nil
	})
}

func init() {
	approvalsCmd.PersistentFlags().StringVar(&decisionNote, "note", "", "note attached to the decision")
	approvalsCmd.AddCommand(approvalsListCmd, approvalsApproveCmd, approvalsRejectCmd)
	rootCmd.AddCommand(approvalsCmd)
}
