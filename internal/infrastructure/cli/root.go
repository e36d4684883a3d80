package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gigakumar/ekupkaran-go/internal/app"
	"github.com/gigakumar/ekupkaran-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}
	container.Planner.Prompter = NewPrompter(nil, nil)

	root := &cobra.Command{
		Use:   "ekup",
		Short: "ekup - automation daemon console",
		Long:  "ekup talks to a local ekupkaran automation daemon: plan generation, knowledge indexing and search, plugin discovery, and audit logging.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(commands.NewPlanCommand(container))
	root.AddCommand(commands.NewQuickCommand(container))
	root.AddCommand(commands.NewSearchCommand(container))
	root.AddCommand(commands.NewIndexCommand(container))
	root.AddCommand(commands.NewDocsCommand(container))
	root.AddCommand(commands.NewAuditCommand(container))
	root.AddCommand(commands.NewPluginsCommand(container))
	root.AddCommand(commands.NewStatusCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	return root, nil
}
