package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigakumar/ekupkaran-go/internal/app"
	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

// NewHistoryCommand creates the 'history' command over local plan runs.
func NewHistoryCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect local plan run history",
	}
	cmd.AddCommand(newHistoryListCommand(container))
	cmd.AddCommand(newHistoryClearCommand(container))
	return cmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent plan runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled in the config file.")
				return nil
			}
			records, err := container.HistoryStore.Records(limit)
			if err != nil {
				return err
			}
			RenderHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultHistoryLimit, "maximum records to show")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded plan runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled in the config file.")
				return nil
			}
			if err := container.HistoryStore.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Run history cleared.")
			return nil
		},
	}
}
