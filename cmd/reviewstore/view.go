package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpattn/reviewstore/internal/review"
)

func newViewCommand(a *app) *cobra.Command {
	var (
		filters  review.Filters
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the merged review view",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.service.MergedView()
			if err != nil {
				return err
			}
			rows = review.FilterRows(rows, filters)

			if pageSize == 0 {
				pageSize = a.cfg.PageSize
			}
			pageRows, pageNum, totalPages := review.Paginate(rows, page, pageSize)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tCLIENT\tTAG\tREGION\tPOD\tREVIEW\tLAYER\tTEST\tCOMMENT")
			for _, row := range pageRows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					row.StatusLabel, row.ClientID, row.Tag, row.Region, row.Pod,
					row.ReviewDate, row.LayerDate, row.TestDate, row.Comment)
			}
			w.Flush()
			fmt.Printf("page %d/%d, %d rows\n", pageNum, totalPages, len(rows))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&filters.Region, "region", nil, "filter by region")
	cmd.Flags().StringSliceVar(&filters.Region1, "region1", nil, "filter by sub-region")
	cmd.Flags().StringSliceVar(&filters.Region2, "region2", nil, "filter by sub-sub-region")
	cmd.Flags().StringSliceVar(&filters.Pod, "pod", nil, "filter by pod")
	cmd.Flags().StringSliceVar(&filters.CA, "ca", nil, "filter by CA")
	cmd.Flags().StringSliceVar(&filters.RM, "rm", nil, "filter by RM")
	cmd.Flags().StringSliceVar(&filters.SG, "sg", nil, "filter by SG")
	cmd.Flags().StringSliceVar(&filters.Status, "status", nil, "filter by status (MISSING, OVERDUE, ACTIVE)")
	cmd.Flags().StringVar(&filters.Search, "search", "", "substring match on client id or comment")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (default from config)")
	return cmd
}
