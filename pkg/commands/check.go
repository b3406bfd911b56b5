package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/diary/pkg/commands/options"
	"tableflip.dev/diary/pkg/config"
	"tableflip.dev/diary/pkg/remote"
	"tableflip.dev/diary/pkg/runner/check"
)

func addCheck(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "check [text...]",
		Short: "Ask the server whether text contains a banned word.",
		Example: `
diary check "is this fine?"
echo "draft" | diary check --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *remote.Client, _ config.Config) error {
				content, err := readText(args, cmd.InOrStdin())
				if err != nil {
					return err
				}
				c := check.Check{Content: content, JSON: oo.JSON, Service: client, Out: cmd.OutOrStdout()}
				return c.Do(ctx)
			})
		},
	}
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
