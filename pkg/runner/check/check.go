// Package check runs a one-off banned-word check.
package check

import (
	"context"
	"io"

	"tableflip.dev/diary/pkg/diary"
	"tableflip.dev/diary/pkg/entry"
	"tableflip.dev/diary/pkg/printers"
)

type Check struct {
	Content string
	JSON    bool

	Service diary.BannedWordService
	Out     io.Writer
}

type result struct {
	entry.CheckResult
	Message string `json:"message,omitempty"`
}

// Do asks the server about Content. Empty text is never sent and counts as
// clean.
func (c *Check) Do(ctx context.Context) error {
	var res entry.CheckResult
	if c.Content != "" {
		var err error
		if res, err = c.Service.CheckBanned(ctx, c.Content); err != nil {
			return err
		}
	}

	if c.JSON {
		out := result{CheckResult: res}
		if res.Matched {
			out.Message = diary.WarningMessage(res.Snippet)
		}
		return printers.JSON(c.Out, out)
	}
	pp := printers.PrettyPrint{Out: c.Out}
	pp.Check(res)
	return nil
}
