package cli

import (
	"fmt"

	"github.com/julianstephens/timetable/internal/logger"
	"github.com/julianstephens/timetable/internal/server"
)

type ServeCmd struct {
	ConfigFile string `name:"config-file" help:"Server YAML configuration file." type:"path"`
	Listen     string `help:"Override the listen address."`
	DSN        string `name:"dsn" help:"Override the storage DSN (SQLite path or PostgreSQL URL)."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	if err := logger.Init(logger.Config{Debug: ctx.Debug, ConfigDir: ctx.ConfigDir, Stderr: true}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := server.LoadConfig(c.ConfigFile)
	if err != nil {
		return err
	}
	if c.Listen != "" {
		cfg.ListenAddr = c.Listen
	}
	if c.DSN != "" {
		cfg.DSN = c.DSN
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := server.OpenStorage(ctx.Context(), cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	return server.New(cfg, store).Run(ctx.Context())
}
