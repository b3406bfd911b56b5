package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/diary/pkg/commands/options"
	"tableflip.dev/diary/pkg/config"
	"tableflip.dev/diary/pkg/logging"
	"tableflip.dev/diary/pkg/remote"
)

var (
	oo = &options.OutputOptions{}
	v  *viper.Viper
)

func New() *cobra.Command {
	v = config.NewViper()
	var configFile string

	cmd := &cobra.Command{
		Use:   "diary",
		Short: base.Wrap80("A daily diary on the command line, saved as you type."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				v.SetConfigFile(configFile)
			}
			return config.ReadFile(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file, default is .diary.yaml in $DIARY_CONFIG_PATH, ./ or $HOME.")
	flags.String("server", "", "Diary service base URL.")
	flags.String("log-level", "", "One of debug, info, warn, error.")
	flags.String("log-path", "", `Log file, or "stderr".`)
	_ = v.BindPFlag(config.KeyServerURL, flags.Lookup("server"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogPath, flags.Lookup("log-path"))

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addToday(topLevel)
	addShow(topLevel)
	addList(topLevel)
	addWrite(topLevel)
	addCheck(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
}

func loadConfig() (config.Config, error) {
	return config.Load(v)
}

// newClient builds the service client for a one-shot verb. Those verbs log to
// stderr unless --log-path is given.
func newClient(cmd *cobra.Command, cfg config.Config) (*remote.Client, *zap.Logger, error) {
	path := logging.Stderr
	if cmd.Flags().Changed("log-path") {
		path = cfg.LogPath
	}
	logger, err := logging.NewLogger(cfg.LogLevel, path)
	if err != nil {
		return nil, nil, err
	}
	client, err := remote.New(cfg.ServerURL, remote.WithLogger(logger.Named("remote")))
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return client, logger, nil
}

// withClient loads config, builds a client and runs fn, turning the error
// into JSON output when --json is set.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client *remote.Client, cfg config.Config) error) error {
	cmd.SilenceUsage = true
	oo.Out = cmd.OutOrStdout()
	cfg, err := loadConfig()
	if err != nil {
		return oo.HandleError(err)
	}
	client, logger, err := newClient(cmd, cfg)
	if err != nil {
		return oo.HandleError(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return oo.HandleError(fn(ctx, client, cfg))
}

func dateCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	client, err := remote.New(cfg.ServerURL)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	idx, err := client.Entries(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string(idx), cobra.ShellCompDirectiveNoFileComp
}

func exactlyOneDate(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one date, got %d arguments", len(args))
	}
	return nil
}
