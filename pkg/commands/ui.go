package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/diary/pkg/logging"
	"tableflip.dev/diary/pkg/remote"
	"tableflip.dev/diary/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
diary ui
diary ui --server http://localhost:5000 --log-level debug
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// The terminal belongs to the UI, so logs go to a file.
			logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			client, err := remote.New(cfg.ServerURL, remote.WithLogger(logger.Named("remote")))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			i := ui.UI{Config: cfg, Service: client, Logger: logger, Viper: v}
			return i.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
