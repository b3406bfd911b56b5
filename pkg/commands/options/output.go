package options

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/diary/pkg/remote"
)

// OutputOptions selects between colored text and JSON on stdout.
type OutputOptions struct {
	JSON bool

	// Out receives JSON error reports; color.Output when nil.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

type errorReport struct {
	Error     string `json:"error"`
	Status    int    `json:"status,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleError reports err on stdout in JSON mode and swallows it, so scripts
// always get a document back. Server failures carry their HTTP status and
// request id. Outside JSON mode err is returned for cobra to print.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	report := errorReport{Error: err.Error()}
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		report.Error = apiErr.Message
		if report.Error == "" {
			report.Error = err.Error()
		}
		report.Status = apiErr.StatusCode
		report.RequestID = apiErr.RequestID
	}

	out := o.Out
	if out == nil {
		out = color.Output
	}
	enc := json.NewEncoder(out)
	return enc.Encode(report)
}
