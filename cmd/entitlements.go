package cmd

import (
	"context"

	"github.com/frahmantamala/hr-portal/internal/directory"
	"github.com/spf13/cobra"
)

var (
	balanceEmployee string
	toilHours       float64
	toilWorkedOn    string
	toilReason      string
)

var entitlementsCmd = &cobra.Command{
	Use:   "entitlements",
	Short: "Leave entitlement rules, exceptions, balances and TOIL",
}

var entitlementRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List entitlement rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, _ directory.TokenSource) error {
			rules, err := client.ListEntitlementRules(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rules)
		})
	},
}

var entitlementExceptionsCmd = &cobra.Command{
	Use:   "exceptions",
	Short: "List per-employee entitlement exceptions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, _ directory.TokenSource) error {
			exceptions, err := client.ListEntitlementExceptions(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), exceptions)
		})
	},
}

var entitlementBalancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "List leave balances",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, _ directory.TokenSource) error {
			balances, err := client.ListBalances(ctx, balanceEmployee)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), balances)
		})
	},
}

var grantTOILCmd = &cobra.Command{
	Use:   "grant-toil <employee-id>",
	Short: "Credit time off in lieu",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, tokens directory.TokenSource) error {
			if err := requireToken(ctx, tokens); err != nil {
				return err
			}
			credit, err := client.GrantTOIL(ctx, directory.TOILCredit{
				EmployeeID: args[0],
				Hours:      toilHours,
				WorkedOn:   toilWorkedOn,
				Reason:     toilReason,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), credit)
		})
	},
}

func init() {
	entitlementBalancesCmd.Flags().StringVar(&balanceEmployee, "employee", "", "only this employee")

	grantTOILCmd.Flags().Float64Var(&toilHours, "hours", 0, "hours worked")
	grantTOILCmd.Flags().StringVar(&toilWorkedOn, "worked-on", "", "date worked, YYYY-MM-DD")
	grantTOILCmd.Flags().StringVar(&toilReason, "reason", "", "why the time was worked")

	entitlementsCmd.AddCommand(entitlementRulesCmd, entitlementExceptionsCmd, entitlementBalancesCmd, grantTOILCmd)
	rootCmd.AddCommand(entitlementsCmd)
}
