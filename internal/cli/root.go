package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the regdesk command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "regdesk",
		Short:        "Event registration intake service",
		Long:         "regdesk accepts public event registrations, serves ticket lookups and exposes the organizer API.",
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())

	return cmd
}
