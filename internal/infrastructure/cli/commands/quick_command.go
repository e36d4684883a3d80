package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gigakumar/ekupkaran-go/internal/app"
	"github.com/gigakumar/ekupkaran-go/internal/services"
)

// NewQuickCommand creates the 'quick' command group for curated one-shot
// automations.
func NewQuickCommand(container *app.Container) *cobra.Command {
	quickCmd := &cobra.Command{
		Use:   "quick",
		Short: "Run curated quick automations",
	}

	quickCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available quick actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, action := range services.QuickActions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s · %s\n", i+1, action.Title, action.Subtitle)
			}
			return nil
		},
	})

	quickCmd.AddCommand(&cobra.Command{
		Use:   "run <number|title>",
		Short: "Plan a quick action and dispatch its first step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := findQuickAction(args[0])
			if err != nil {
				return err
			}

			spinner := NewSpinner(cmd.ErrOrStderr(), "Running "+action.Title+"…")
			spinner.Start()
			result, err := container.Planner.RunQuickAction(cmd.Context(), action)
			spinner.Stop()
			if err != nil {
				return err
			}

			RenderPlan(cmd.OutOrStdout(), result.Plan)
			fmt.Fprintf(cmd.OutOrStdout(), "Dispatched automation: %s\n", result.Dispatched.Name)
			if len(result.AuditTrail) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "\nRecent audit events:")
				RenderAuditTrail(cmd.OutOrStdout(), result.AuditTrail)
			}
			return nil
		},
	})

	return quickCmd
}

func findQuickAction(selector string) (services.QuickAction, error) {
	actions := services.QuickActions()
	if n, err := strconv.Atoi(selector); err == nil {
		if n < 1 || n > len(actions) {
			return services.QuickAction{}, fmt.Errorf("quick action number out of range: %d", n)
		}
		return actions[n-1], nil
	}
	for _, action := range actions {
		if strings.EqualFold(action.Title, selector) {
			return action, nil
		}
	}
	return services.QuickAction{}, fmt.Errorf("unknown quick action %q", selector)
}
