package main

import (
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/reviewstore/internal/audit"
	"github.com/rpattn/reviewstore/internal/catalog"
	"github.com/rpattn/reviewstore/internal/config"
	"github.com/rpattn/reviewstore/internal/editlog"
	"github.com/rpattn/reviewstore/internal/review"
)

// app carries the wired services shared by every subcommand.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	service *review.Service
	user    string
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		verbose    bool
		userName   string
		a          app
	)

	root := &cobra.Command{
		Use:   "reviewstore",
		Short: "File-backed client review store",
		Long: `reviewstore maintains the client review dashboard data files:
the deduplicated client catalog, the versioned edit log, and the
audit trail of every accepted edit.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger := zap.NewNop()
			if verbose {
				logger, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
			}

			edits := editlog.NewStore(cfg.EditLogPath(),
				editlog.WithLockTimeout(cfg.LockTimeout),
				editlog.WithLogger(logger))
			audits := audit.NewTrail(cfg.AuditPath(),
				audit.WithLockTimeout(cfg.LockTimeout),
				audit.WithLogger(logger))
			loader := catalog.NewLoader(cfg.AllowedTags, logger)
			validator := review.NewValidator(cfg.MinAllowedDate, cfg.StrictTestDate, time.Now)

			a.cfg = cfg
			a.logger = logger
			a.service = review.NewService(cfg.CatalogPath(), loader, edits, audits, validator, cfg.OverdueMonths, time.Now, logger)
			a.user = userName
			if a.user == "" {
				a.user = currentUsername()
			}
			return a.service.EnsureDataFiles()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&userName, "user", "", "author recorded on edits (default: current user)")

	root.AddCommand(
		newViewCommand(&a),
		newEditCommand(&a),
		newBulkEditCommand(&a),
		newHistoryCommand(&a),
		newAuditCommand(&a),
		newExportCommand(&a),
		newWatchCommand(&a),
	)
	return root
}

// currentUsername resolves the operating system user with env fallbacks.
func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, key := range []string{"USER", "LOGNAME", "USERNAME"} {
		if name := os.Getenv(key); name != "" {
			return name
		}
	}
	return "unknown"
}
