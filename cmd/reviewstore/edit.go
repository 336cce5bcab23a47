package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpattn/reviewstore/internal/domain"
	"github.com/rpattn/reviewstore/internal/review"
)

func newEditCommand(a *app) *cobra.Command {
	var payload review.EditPayload

	cmd := &cobra.Command{
		Use:   "edit <client-id>",
		Short: "Record an edit for one client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := a.service.ApplyEdit(args[0], a.user, payload)
			if err != nil {
				if verr, ok := domain.AsValidationError(err); ok {
					return fmt.Errorf("edit rejected, %s %s", verr.Field, verr.Message)
				}
				return err
			}
			fmt.Printf("recorded edit %s for client %s\n", entryID, args[0])
			return nil
		},
	}

	addPayloadFlags(cmd, &payload)
	return cmd
}

func newBulkEditCommand(a *app) *cobra.Command {
	var (
		payload   review.EditPayload
		clientIDs []string
	)

	cmd := &cobra.Command{
		Use:   "bulk-edit",
		Short: "Apply one edit payload to a selection of clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(clientIDs) == 0 {
				return errors.New("at least one --ids value is required")
			}
			results, err := a.service.BulkApplyEdit(clientIDs, a.user, payload)
			if err != nil {
				if verr, ok := domain.AsValidationError(err); ok {
					return fmt.Errorf("bulk edit rejected, %s %s", verr.Field, verr.Message)
				}
				return err
			}
			failed := 0
			for _, result := range results {
				if result.Err != nil {
					failed++
					fmt.Printf("client %s: FAILED: %v\n", result.ClientID, result.Err)
					continue
				}
				fmt.Printf("client %s: recorded edit %s\n", result.ClientID, result.EntryID)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d clients failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&clientIDs, "ids", nil, "client ids to edit")
	addPayloadFlags(cmd, &payload)
	return cmd
}

func addPayloadFlags(cmd *cobra.Command, payload *review.EditPayload) {
	cmd.Flags().StringVar(&payload.ReviewDate, "review-date", "", "review date (YYYY-MM-DD, YYYY-MM, or YYYY)")
	cmd.Flags().StringVar(&payload.LayerDate, "layer-date", "", "layer date (YYYY-MM-DD, YYYY-MM, or YYYY)")
	cmd.Flags().StringVar(&payload.TestDate, "test-date", "", "test date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&payload.Comment, "comment", "", "free-text comment")
}
