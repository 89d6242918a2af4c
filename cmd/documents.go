package cmd

import (
	"context"
	"time"

	"github.com/frahmantamala/hr-portal/internal/directory"
	"github.com/spf13/cobra"
)

var (
	payslipPeriod string
	eaFormYear    int
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Fetch payslip and EA form data",
}

var payslipCmd = &cobra.Command{
	Use:   "payslip <employee-id>",
	Short: "Payslip data for one month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, _ directory.TokenSource) error {
			doc, err := client.Payslip(ctx, args[0], payslipPeriod)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		})
	},
}

var eaFormCmd = &cobra.Command{
	Use:   "ea-form <employee-id>",
	Short: "EA form data for one year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, _ directory.TokenSource) error {
			doc, err := client.EAForm(ctx, args[0], eaFormYear)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		})
	},
}

func init() {
	now := time.Now()
	payslipCmd.Flags().StringVar(&payslipPeriod, "period", now.AddDate(0, -1, 0).Format("2006-01"), "pay period, YYYY-MM")
	eaFormCmd.Flags().IntVar(&eaFormYear, "year", now.Year()-1, "assessment year")

	documentsCmd.AddCommand(payslipCmd, eaFormCmd)
	rootCmd.AddCommand(documentsCmd)
}
