package cmd

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/frahmantamala/hr-portal/internal/department"
	"github.com/frahmantamala/hr-portal/internal/directory"
	"github.com/spf13/cobra"
)

var (
	deptName   string
	deptCode   string
	deptParent string
	deptHead   string
)

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List and maintain departments",
}

var departmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List departments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, _ directory.TokenSource) error {
			departments, err := client.ListDepartments(ctx)
			if err != nil {
				return err
			}
			sort.SliceStable(departments, func(i, j int) bool {
				return departments[i].Name < departments[j].Name
			})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCODE\tNAME\tPARENT\tHEAD")
			for _, d := range departments {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Code, d.Name, deref(d.ParentID), deref(d.HeadID))
			}
			return tw.Flush()
		})
	},
}

var departmentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a department",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, tokens directory.TokenSource) error {
			if err := requireToken(ctx, tokens); err != nil {
				return err
			}
			created, err := client.CreateDepartment(ctx, departmentFromFlags(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		})
	},
}

var departmentsUpdateCmd = &cobra.Command{
	Use:   "update <department-id>",
	Short: "Replace a department",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDirectory(func(ctx context.Context, client *directory.Client, tokens directory.TokenSource) error {
			if err := requireToken(ctx, tokens); err != nil {
				return err
			}
			updated, err := client.UpdateDepartment(ctx, args[0], departmentFromFlags(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		})
	},
}

func departmentFromFlags(cmd *cobra.Command) department.SaveDepartmentDTO {
	dto := department.SaveDepartmentDTO{Name: deptName, Code: deptCode}
	if cmd.Flags().Changed("parent") {
		dto.ParentID = &deptParent
	}
	if cmd.Flags().Changed("head") {
		dto.HeadID = &deptHead
	}
	return dto
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func init() {
	for _, c := range []*cobra.Command{departmentsCreateCmd, departmentsUpdateCmd} {
		c.Flags().StringVar(&deptName, "name", "", "department name")
		c.Flags().StringVar(&deptCode, "code", "", "short code")
		c.Flags().StringVar(&deptParent, "parent", "", "parent department id")
		c.Flags().StringVar(&deptHead, "head", "", "head of department employee id")
	}
	departmentsCmd.AddCommand(departmentsListCmd, departmentsCreateCmd, departmentsUpdateCmd)
	rootCmd.AddCommand(departmentsCmd)
}
