package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-donut/internal/config"
	"github.com/vovakirdan/tui-donut/internal/storage"
)

// env is what every command needs: the merged config and a logger.
type env struct {
	cfg     config.Config
	logger  *log.Logger
	closers []io.Closer
}

// setup loads the config, applies global flag overrides and builds the
// logger. The caller must call close.
func setup() (*env, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, err
	}

	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
		cfg.Storage.Enabled = true
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}

	e := &env{cfg: cfg}
	if e.logger, err = e.newLogger(); err != nil {
		return nil, err
	}
	return e, nil
}

// newLogger writes to stderr unless a log file is configured. The spinning
// donut owns the screen, so anything below warn stays quiet by default.
func (e *env) newLogger() (*log.Logger, error) {
	var out io.Writer = os.Stderr
	if e.cfg.Log.File != "" {
		f, err := os.OpenFile(e.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		e.closers = append(e.closers, f)
		out = f
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "donut",
	})

	level, err := log.ParseLevel(e.cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", e.cfg.Log.Level, err)
	}
	logger.SetLevel(level)

	return logger, nil
}

// openStore opens the session database. History is optional: a disabled or
// broken store yields nil and a warning.
func (e *env) openStore() *storage.Store {
	if !e.cfg.Storage.Enabled {
		return nil
	}
	store, err := storage.Open(e.cfg.Storage.Path)
	if err != nil {
		e.logger.Warn("session history disabled", "path", e.cfg.Storage.Path, "error", err)
		return nil
	}
	e.closers = append(e.closers, store)
	return store
}

// close releases the store and log file, newest first.
func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close()
	}
}
