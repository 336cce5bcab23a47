package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rpattn/reviewstore/internal/export"
	"github.com/rpattn/reviewstore/internal/watch"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		formatName string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the merged review view to a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			rows, err := a.service.MergedView()
			if err != nil {
				return err
			}
			if err := export.NewService(a.logger).Export(rows, format, outPath); err != nil {
				return err
			}
			fmt.Printf("exported %d rows to %s\n", len(rows), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatName, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVar(&outPath, "out", "review_export.csv", "output file path")
	return cmd
}

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the catalog for replacement and report row counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := func() {
				rows, err := a.service.MergedView()
				if err != nil {
					fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
					return
				}
				fmt.Printf("catalog loaded: %d clients\n", len(rows))
			}
			report()

			watcher, err := watch.NewCatalogWatcher(a.cfg.CatalogPath(), report, a.logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(cmd.Context()); err != nil {
				return err
			}
			defer watcher.Stop()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			select {
			case <-stop:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
}
