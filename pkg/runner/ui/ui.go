// Package ui wires the interactive diary: service client, controller and
// Bubble Tea program, plus live reload of timing settings.
package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tableflip.dev/diary/pkg/config"
	"tableflip.dev/diary/pkg/diary"
	"tableflip.dev/diary/pkg/tui"
)

const defaultUnloadTimeout = 3 * time.Second

type UI struct {
	Config  config.Config
	Service diary.Service
	Logger  *zap.Logger

	// Viper, when set and backed by a file, is watched for edits.
	Viper *viper.Viper
}

func (u *UI) Do(ctx context.Context) error {
	logger := u.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dispatcher := &tui.Dispatcher{}
	model := tui.New(logger.Named("tui"), u.Config.UnloadTimeout)
	ctrl, err := diary.New(diary.Options{
		Service:    u.Service,
		View:       model,
		Dispatcher: dispatcher,
		Logger:     logger.Named("diary"),
		Timings:    u.Config.Timings(),
	})
	if err != nil {
		return err
	}
	model.Attach(ctrl)

	p := tea.NewProgram(model, tea.WithAltScreen())
	dispatcher.Bind(p)

	if u.Viper != nil {
		watching := config.Watch(u.Viper, func(cfg config.Config, err error) {
			dispatcher.Dispatch(func() { model.ApplyTimings(cfg.Timings(), err) })
		})
		if watching {
			logger.Info("watching config file", zap.String("file", u.Viper.ConfigFileUsed()))
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}
	}()

	logger.Info("diary ui starting", zap.String("server", u.Config.ServerURL))
	_, err = p.Run()

	// The update loop has stopped; nothing else touches the controller now.
	dispatcher.Drop()
	u.shutdown(ctrl, logger)
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// session is the part of diary.Controller torn down on exit.
type session interface {
	SaveOnUnload(ctx context.Context) error
	Close()
}

// shutdown flushes a pending autosave and stops s. A program stopped by a
// signal or by ctx never passes through the quit key, so this runs on every
// exit path; after a key quit there is nothing left to flush.
func (u *UI) shutdown(s session, logger *zap.Logger) {
	timeout := u.Config.UnloadTimeout
	if timeout <= 0 {
		timeout = defaultUnloadTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.SaveOnUnload(ctx); err != nil {
		logger.Warn("unsaved changes on exit", zap.Error(err))
	}
	s.Close()
}
