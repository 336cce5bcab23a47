package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <client-id>",
		Short: "Print the edit history for one client, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.service.History(args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIMESTAMP\tENTRY\tACTIVE\tREVIEW\tLAYER\tTEST\tCOMMENT\tBY")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\t%s\t%s\t%s\n",
					entry.ChangeTimestamp, entry.EntryID, entry.IsActive,
					entry.Values.ReviewDate, entry.Values.LayerDate,
					entry.Values.TestDate, entry.Values.Comment, entry.ChangedBy)
			}
			return w.Flush()
		},
	}
}

func newAuditCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "audit [client-id]",
		Short: "Print the audit trail, optionally for one client",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := ""
			if len(args) == 1 {
				clientID = args[0]
			}
			entries, err := a.service.AuditLog(clientID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIMESTAMP\tCLIENT\tENTRY\tBY\tOLD REVIEW\tNEW REVIEW\tNEW COMMENT")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					entry.ChangeTimestamp, entry.ClientID, entry.EntryID, entry.ChangedBy,
					entry.OldValues.ReviewDate, entry.NewValues.ReviewDate, entry.NewValues.Comment)
			}
			return w.Flush()
		},
	}
}
