package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the bearer token stored for CLI calls",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store the bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := bootstrap()
		if err != nil {
			return err
		}
		token := strings.TrimPrefix(strings.TrimSpace(args[0]), "Bearer ")
		if token == "" {
			return fmt.Errorf("token is empty")
		}
		store := tokenStore(cfg)
		if err := store.Save(token); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token stored in %s\n", store.Path)
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := bootstrap()
		if err != nil {
			return err
		}
		if err := tokenStore(cfg).Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token cleared")
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}
