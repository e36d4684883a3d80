package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gigakumar/ekupkaran-go/internal/app"
)

// NewSearchCommand creates the 'search' command.
func NewSearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits, err := container.Knowledge.Query(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			RenderHits(cmd.OutOrStdout(), hits)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Max results (default 5)")
	return cmd
}

// NewIndexCommand creates the 'index' command.
func NewIndexCommand(container *app.Container) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "index [text]",
		Short: "Index a snippet into the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := container.Knowledge.Index(cmd.Context(), strings.Join(args, " "), source)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed as %s (source %s)\n", result.Receipt.ID, result.Receipt.Source)
			if len(result.Documents) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d documents indexed.\n", len(result.Documents))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source label for the snippet (e.g. docs/manual)")
	return cmd
}

// NewDocsCommand creates the 'docs' command group.
func NewDocsCommand(container *app.Container) *cobra.Command {
	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "Browse the knowledge base",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := container.Knowledge.Documents(cmd.Context(), limit)
			if err != nil {
				return err
			}
			RenderDocuments(cmd.OutOrStdout(), docs)
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Max documents to show (default 40)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a document's full text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := container.Knowledge.Document(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			RenderDocumentDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a document from the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := container.Knowledge.DeleteDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted. %d documents remain.\n", len(result.Documents))
			return nil
		},
	}

	docsCmd.AddCommand(listCmd, showCmd, rmCmd)
	return docsCmd
}
