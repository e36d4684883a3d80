package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gigakumar/ekupkaran-go/internal/app"
	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/services"
)

// NewPlanCommand creates the 'plan' command.
func NewPlanCommand(container *app.Container) *cobra.Command {
	var (
		temperature float64
		maxTokens   int
		noKnowledge bool
		concurrent  bool
		execute     int
	)

	cmd := &cobra.Command{
		Use:   "plan [goal]",
		Short: "Generate an automation plan for a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			goal := strings.Join(args, " ")
			prefs := container.Preferences.Current()

			params := domain.PlanParams{
				Temperature: prefs.PlanDefaults.Temperature,
				MaxTokens:   prefs.PlanDefaults.MaxTokens,
			}
			if cmd.Flags().Changed("temperature") {
				params.Temperature = temperature
			}
			if cmd.Flags().Changed("max-tokens") {
				params.MaxTokens = maxTokens
			}
			includeKnowledge := prefs.PlanDefaults.IncludeKnowledge && !noKnowledge

			spinner := NewSpinner(cmd.ErrOrStderr(), "Generating plan…")
			spinner.Start()
			var (
				result services.PlanResult
				err    error
			)
			if concurrent {
				result, err = container.Planner.PlanWithContext(ctx, goal, params)
			} else {
				result, err = container.Planner.RunPlan(ctx, services.PlanRequest{
					Goal:             goal,
					Params:           params,
					IncludeKnowledge: includeKnowledge,
					Metadata:         map[string]string{"source": "cli"},
				})
			}
			spinner.Stop()
			if err != nil {
				return err
			}

			RenderPlan(cmd.OutOrStdout(), result)

			if execute > 0 {
				if execute > len(result.Actions) {
					return fmt.Errorf("plan has only %d actions", len(result.Actions))
				}
				action := result.Actions[execute-1]
				ok, err := container.Planner.Execute(ctx, action)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Action %q was not dispatched.\n", action.Name)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Dispatched automation: %s\n", action.Name)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "Sampling temperature (default from preferences)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Token budget (default from preferences)")
	cmd.Flags().BoolVar(&noKnowledge, "no-knowledge", false, "Skip knowledge-base grounding")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "Issue the plan and the context query in parallel instead of grounding the goal")
	cmd.Flags().IntVarP(&execute, "execute", "x", 0, "Dispatch the n-th generated action after planning")
	return cmd
}
