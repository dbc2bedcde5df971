package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"cems-client/internal/api"
	"cems-client/internal/app"
	"cems-client/internal/cache"
	"cems-client/internal/config"
	"cems-client/internal/logging"
	"cems-client/internal/notify"
	"cems-client/internal/session"
	"cems-client/internal/stream"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// A missing or partial credential pair just means nobody is signed
	// in; the login view handles that.
	sess, err := session.Load()
	if err != nil {
		logger.Info("no stored session, starting at login", zap.Error(err))
		sess = &session.Session{}
	}

	c, err := cache.Open(cfg.CachePath)
	if err != nil {
		logger.Warn("offline cache unavailable", zap.Error(err))
		c = nil
	} else {
		defer c.Close()
	}

	client := api.NewClient(cfg.ServerURL, sess, logger)

	streamCfg := stream.Config{
		ReconnectBase: time.Duration(cfg.Stream.ReconnectBaseSec) * time.Second,
		ReconnectMax:  time.Duration(cfg.Stream.ReconnectMaxSec) * time.Second,
		DegradedAfter: cfg.Stream.DegradedAfter,
	}

	factory := func(userID int, onDegraded func(bool)) notify.Transport {
		st := stream.New(cfg.ServerURL, sess, streamCfg, logger)
		st.OnStatus = func(status stream.Status) {
			onDegraded(status == stream.StatusDegraded)
		}
		return st
	}

	var hubCache notify.Cache
	if c != nil {
		hubCache = c
	}
	hub := notify.NewHub(client, factory, hubCache, logger)

	m := app.New(client, hub, c, sess, logger)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	return nil
}
