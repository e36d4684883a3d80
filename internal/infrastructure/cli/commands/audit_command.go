package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gigakumar/ekupkaran-go/internal/app"
	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

// NewAuditCommand creates the 'audit' command group.
func NewAuditCommand(container *app.Container) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and append to the daemon audit trail",
	}

	auditCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show recent audit events, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			trail := container.Planner.AuditTrail(cmd.Context())
			RenderAuditTrail(cmd.OutOrStdout(), trail)
			return nil
		},
	})

	var (
		eventType string
		fields    []string
	)
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Append a custom audit event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventType == "" {
				return fmt.Errorf("%w: --type required", domain.ErrValidation)
			}
			payload := make(map[string]string, len(fields))
			for _, field := range fields {
				key, value, found := strings.Cut(field, "=")
				if !found {
					return fmt.Errorf("%w: field %q is not key=value", domain.ErrValidation, field)
				}
				payload[key] = value
			}
			err := container.Client.AppendAuditEvent(cmd.Context(), domain.AuditEventPayload{
				Type:      eventType,
				Payload:   payload,
				Timestamp: time.Now(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Event recorded.")
			return nil
		},
	}
	logCmd.Flags().StringVar(&eventType, "type", "", "Event type (e.g. note)")
	logCmd.Flags().StringArrayVar(&fields, "field", nil, "Payload entry as key=value (repeatable)")

	auditCmd.AddCommand(logCmd)
	return auditCmd
}
