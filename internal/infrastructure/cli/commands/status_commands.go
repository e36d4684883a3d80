package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gigakumar/ekupkaran-go/internal/app"
	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

// NewStatusCommand creates the 'status' command.
func NewStatusCommand(container *app.Container) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check daemon connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			health, err := container.Client.Health(ctx)
			RenderHealth(cmd.OutOrStdout(), health, err)
			if !watch {
				return nil
			}

			ticker := time.NewTicker(domain.DefaultStatusRefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					health, err := container.Client.Health(ctx)
					RenderHealth(cmd.OutOrStdout(), health, err)
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling the daemon until interrupted")
	return cmd
}

// NewPluginsCommand creates the 'plugins' command.
func NewPluginsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List installed daemon plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			plugins, err := container.Client.ListPlugins(cmd.Context())
			if err != nil {
				return err
			}
			RenderPlugins(cmd.OutOrStdout(), plugins)
			return nil
		},
	}
}

// NewDoctorCommand creates the 'doctor' command.
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run environment diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.Doctor.Run(cmd.Context())
			RenderReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}
