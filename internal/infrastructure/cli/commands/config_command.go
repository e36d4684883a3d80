package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigakumar/ekupkaran-go/internal/app"
	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

// NewConfigCommand creates the 'config' command with its subcommands.
func NewConfigCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and update client configuration",
	}
	cmd.AddCommand(newConfigShowCommand(container))
	cmd.AddCommand(newConfigSetHostCommand(container))
	cmd.AddCommand(newConfigSetCommand(container))
	cmd.AddCommand(newConfigResetCommand(container))
	return cmd
}

func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration and preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := container.ConfigLoader.Load(cmd.Context())
			if err != nil {
				return err
			}
			prefs := container.Preferences.Current()

			fmt.Fprintf(out, "Config file: %s\n", container.ConfigLoader.Path())
			fmt.Fprintf(out, "Daemon endpoint: %s\n", container.Client.BaseURL())
			fmt.Fprintf(out, "Request timeout: %ds\n", cfg.Daemon.TimeoutSeconds)
			fmt.Fprintf(out, "Run history: enabled=%t limit=%d\n\n", cfg.History.Enabled, cfg.History.Limit)

			fmt.Fprintln(out, "Preferences:")
			fmt.Fprintf(out, "  model profile:     %s\n", prefs.ModelProfile)
			fmt.Fprintf(out, "  audit logging:     %t\n", prefs.AuditLogging)
			fmt.Fprintf(out, "  auto refresh:      %t\n", prefs.AutoRefreshStatus)
			fmt.Fprintf(out, "  plan temperature:  %.2f\n", prefs.PlanDefaults.Temperature)
			fmt.Fprintf(out, "  plan max tokens:   %d\n", prefs.PlanDefaults.MaxTokens)
			fmt.Fprintf(out, "  include knowledge: %t\n", prefs.PlanDefaults.IncludeKnowledge)
			return nil
		},
	}
}

func newConfigSetHostCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set-host <url>",
		Short: "Point the client at a different daemon endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.SetBackendHost(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daemon endpoint set to %s\n", container.Client.BaseURL())
			return nil
		},
	}
}

func newConfigSetCommand(container *app.Container) *cobra.Command {
	var (
		modelProfile     string
		auditLogging     bool
		autoRefresh      bool
		temperature      float64
		maxTokens        int
		includeKnowledge bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("model-profile") && !flags.Changed("audit") &&
				!flags.Changed("auto-refresh") && !flags.Changed("temperature") &&
				!flags.Changed("max-tokens") && !flags.Changed("include-knowledge") {
				return fmt.Errorf("%w: no preference flags given", domain.ErrValidation)
			}
			prefs, err := container.Preferences.Update(func(p *domain.Preferences) {
				if flags.Changed("model-profile") {
					p.ModelProfile = modelProfile
				}
				if flags.Changed("audit") {
					p.AuditLogging = auditLogging
				}
				if flags.Changed("auto-refresh") {
					p.AutoRefreshStatus = autoRefresh
				}
				if flags.Changed("temperature") {
					p.PlanDefaults.Temperature = temperature
				}
				if flags.Changed("max-tokens") {
					p.PlanDefaults.MaxTokens = maxTokens
				}
				if flags.Changed("include-knowledge") {
					p.PlanDefaults.IncludeKnowledge = includeKnowledge
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preferences saved (model profile %s).\n", prefs.ModelProfile)
			return nil
		},
	}
	cmd.Flags().StringVar(&modelProfile, "model-profile", "", "model profile sent with plan requests")
	cmd.Flags().BoolVar(&auditLogging, "audit", true, "record audit events for plans and executions")
	cmd.Flags().BoolVar(&autoRefresh, "auto-refresh", true, "refresh daemon status automatically")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "default plan temperature")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "default plan token budget")
	cmd.Flags().BoolVar(&includeKnowledge, "include-knowledge", true, "ground plans with indexed knowledge")
	return cmd
}

func newConfigResetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore preference defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := container.Preferences.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Preferences restored to defaults.")
			return nil
		},
	}
}
