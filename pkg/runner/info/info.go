// Package info reports where the client's configuration comes from and what
// the server says about its banned-word rules.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/diary/pkg/config"
	"tableflip.dev/diary/pkg/entry"
	"tableflip.dev/diary/pkg/printers"
)

// RulesReader fetches banned-word rule metadata.
type RulesReader interface {
	Rules(ctx context.Context) (entry.RulesInfo, error)
}

type Info struct {
	Config config.Config
	JSON   bool

	Service RulesReader
	Out     io.Writer
}

type report struct {
	Config    config.Config    `json:"config"`
	Rules     *entry.RulesInfo `json:"rules,omitempty"`
	RulesErr  string           `json:"rules_error,omitempty"`
	ConfigEnv string           `json:"config_path_env,omitempty"`
}

func (n *Info) Do(ctx context.Context) error {
	r := report{Config: n.Config, ConfigEnv: os.Getenv("DIARY_CONFIG_PATH")}

	// An unreachable server still leaves the local half worth printing.
	rules, err := n.Service.Rules(ctx)
	if err != nil {
		r.RulesErr = err.Error()
	} else {
		r.Rules = &rules
	}

	if n.JSON {
		return printers.JSON(n.Out, r)
	}

	out := n.Out
	if out == nil {
		out = color.Output
	}
	if r.ConfigEnv != "" {
		_, _ = fmt.Fprintln(out, "DIARY_CONFIG_PATH found on env, using", r.ConfigEnv)
	} else {
		_, _ = fmt.Fprintln(out, "DIARY_CONFIG_PATH env var not set")
	}

	file := n.Config.File
	if file == "" {
		file = "(none, using defaults)"
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Settings([][2]string{
		{"config file", file},
		{"server", n.Config.ServerURL},
		{"log", fmt.Sprintf("%s (%s)", n.Config.LogPath, n.Config.LogLevel)},
		{"autosave", n.Config.AutosaveDelay.String()},
		{"check", n.Config.CheckDelay.String()},
		{"overlay", n.Config.OverlayDuration.String()},
		{"status reset", n.Config.StatusReset.String()},
		{"exit save", n.Config.UnloadTimeout.String()},
	})

	if r.Rules != nil {
		pp.Rules(*r.Rules)
		return nil
	}
	w := color.New(color.FgYellow)
	_, _ = w.Fprintf(out, "rules unavailable: %s\n", r.RulesErr)
	return nil
}
