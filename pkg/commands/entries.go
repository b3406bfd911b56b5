package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/diary/pkg/commands/options"
	"tableflip.dev/diary/pkg/config"
	"tableflip.dev/diary/pkg/remote"
	"tableflip.dev/diary/pkg/runner/list"
	"tableflip.dev/diary/pkg/runner/show"
)

func addToday(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print today's entry.",
		Example: `
diary today
diary today --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *remote.Client, _ config.Config) error {
				s := show.Show{JSON: oo.JSON, Service: client, Out: cmd.OutOrStdout()}
				return s.Do(ctx)
			})
		},
	}
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "show <date>",
		Short: "Print the entry for a date.",
		Example: `
diary show 2026-10-18
diary show yesterday
diary show 2/14 --json
`,
		Args:              exactlyOneDate,
		ValidArgsFunction: dateCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *remote.Client, _ config.Config) error {
				date, err := options.ResolveDate(args[0], time.Now())
				if err != nil {
					return err
				}
				s := show.Show{Date: date, JSON: oo.JSON, Service: client, Out: cmd.OutOrStdout()}
				return s.Do(ctx)
			})
		},
	}
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "entries"},
		Short:   "List the dates that have entries.",
		Example: `
diary list
diary list --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, client *remote.Client, _ config.Config) error {
				l := list.List{JSON: oo.JSON, Service: client, Out: cmd.OutOrStdout()}
				return l.Do(ctx)
			})
		},
	}
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
