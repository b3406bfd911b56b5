package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/diary/pkg/commands/options"
	"tableflip.dev/diary/pkg/config"
	"tableflip.dev/diary/pkg/remote"
	"tableflip.dev/diary/pkg/runner/write"
)

func addWrite(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "write [text...]",
		Short: "Replace an entry with the given text, or with stdin when piped.",
		Example: `
diary write "Went for a long walk."
diary write --date yesterday "Forgot to write this."
cat notes.txt | diary write --date 2026-10-01
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *remote.Client, _ config.Config) error {
				date, err := do.Resolve(time.Now())
				if err != nil {
					return err
				}
				content, err := readText(args, cmd.InOrStdin())
				if err != nil {
					return err
				}
				w := write.Write{Date: date, Content: content, JSON: oo.JSON, Service: client, Out: cmd.OutOrStdout()}
				return w.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

// readText joins args, or reads in when no args are given and in is piped.
func readText(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "", errors.New("no text given; pass it as arguments or pipe it on stdin")
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
