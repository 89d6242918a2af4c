package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/frahmantamala/hr-portal/internal/hierarchy"
	"github.com/spf13/cobra"
)

var (
	treeDepth  int
	treeJSON   bool
	setReports string
	setLevel   int
	setDept    string
	setApprove bool
)

var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Inspect and edit the reporting hierarchy",
}

var hierarchyTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the reporting forest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHierarchyService(func(ctx context.Context, service *hierarchy.Service) error {
			forest, err := service.Tree(ctx)
			if err != nil {
				return err
			}
			return printForest(cmd.OutOrStdout(), service, forest)
		})
	},
}

var hierarchyMoveCmd = &cobra.Command{
	Use:   "move <employee-id> <supervisor-id>",
	Short: "Move an employee under a new supervisor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHierarchyService(func(ctx context.Context, service *hierarchy.Service) error {
			outcome, err := service.Reparent(ctx, args[0], args[1])
			out := cmd.OutOrStdout()
			if err != nil {
				if outcome != nil {
					fmt.Fprintf(out, "Moved %s under %s\n", outcome.EmployeeID, outcome.SupervisorID)
				}
				return err
			}
			if outcome.Cancelled {
				fmt.Fprintln(out, "Nothing to do: an employee cannot be dropped onto themselves")
				return nil
			}
			fmt.Fprintf(out, "Moved %s under %s\n\n", outcome.EmployeeID, outcome.SupervisorID)
			return printForest(out, service, outcome.Forest)
		})
	},
}

var hierarchySetCmd = &cobra.Command{
	Use:   "set <employee-id>",
	Short: "Replace an employee's hierarchy attachment",
	Long:  `Replace reportsTo, level, department and approver flag in one call. Omitted flags are sent as empty.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dto := hierarchy.UpdateAttachmentDTO{CanApprove: setApprove}
		if cmd.Flags().Changed("reports-to") {
			dto.ReportsTo = &setReports
		}
		if cmd.Flags().Changed("level") {
			dto.Level = &setLevel
		}
		if cmd.Flags().Changed("department") {
			dto.DepartmentID = &setDept
		}

		return withHierarchyService(func(ctx context.Context, service *hierarchy.Service) error {
			forest, err := service.UpdateAttachment(ctx, args[0], dto)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updated %s\n\n", args[0])
			return printForest(out, service, forest)
		})
	},
}

// withHierarchyService wires a hierarchy service for one CLI invocation and waits for audit
// handlers before returning.
func withHierarchyService(fn func(ctx context.Context, service *hierarchy.Service) error) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	eventBus := events.NewEventBus(logger)
	hierarchy.NewAuditHandler(logger).RegisterEventHandlers(eventBus)

	client := newDirectoryClient(cfg, cliTokenSource(cfg), logger)
	depth := cfg.Hierarchy.MaxRenderDepth
	if treeDepth > 0 {
		depth = treeDepth
	}
	service := hierarchy.NewService(client, eventBus, logger, depth)

	ctx := context.Background()
	runErr := fn(ctx, service)

	drainCtx, cancel := internal.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := eventBus.Wait(drainCtx); err != nil {
		logger.Warn("audit handlers did not finish", "error", err)
	}
	return runErr
}

func printForest(w io.Writer, service *hierarchy.Service, forest *hierarchy.Forest) error {
	if treeJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(service.View(forest))
	}

	if err := hierarchy.Render(w, forest.Roots, service.MaxDepth()); err != nil {
		return err
	}
	if len(forest.Detached) > 0 {
		fmt.Fprintln(w, "\nNot reachable from any root:")
		if err := hierarchy.Render(w, forest.Detached, service.MaxDepth()); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "\n%d employees\n", forest.Size)
	return nil
}

func init() {
	hierarchyCmd.PersistentFlags().IntVar(&treeDepth, "depth", 0, "maximum depth to print (0 uses hierarchy.max_render_depth)")
	hierarchyCmd.PersistentFlags().BoolVar(&treeJSON, "json", false, "print the forest as JSON")

	hierarchySetCmd.Flags().StringVar(&setReports, "reports-to", "", "supervisor employee id (omit to detach)")
	hierarchySetCmd.Flags().IntVar(&setLevel, "level", 0, "rank, 1 is the most senior")
	hierarchySetCmd.Flags().StringVar(&setDept, "department", "", "department id")
	hierarchySetCmd.Flags().BoolVar(&setApprove, "can-approve", false, "whether the employee approves requests")

	hierarchyCmd.AddCommand(hierarchyTreeCmd, hierarchyMoveCmd, hierarchySetCmd)
	rootCmd.AddCommand(hierarchyCmd)
}
