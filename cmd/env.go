package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/lessons"
	"github.com/abhishaiv/AI-Study-Master/internal/llm"
	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/quizgen"
	"github.com/abhishaiv/AI-Study-Master/internal/review"
	"github.com/abhishaiv/AI-Study-Master/internal/store"
)

// env is everything a command needs, built from flags and environment.
type env struct {
	logger   *logging.Logger
	store    *store.Store
	catalog  *catalog.Catalog
	progress *progress.Store
	provider llm.Provider

	closers []func() error
}

// envOptions tunes openEnv per command.
type envOptions struct {
	// provider requests an LLM provider. A missing configuration is an
	// error unless offlineOK is set.
	provider  bool
	offlineOK bool

	// stderrLog sends logs to stderr when no --log-file is given.
	stderrLog bool
}

func openEnv(cmd *cobra.Command, o envOptions) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	flags := cmd.Flags()
	e := &env{}

	logger, err := newLogger(cmd, o.stderrLog)
	if err != nil {
		return nil, err
	}
	e.logger = logger
	e.closers = append(e.closers, func() error { logger.Sync(); return nil })

	path, _ := flags.GetString("catalog")
	if path == "" {
		path = os.Getenv("STUDYMENTOR_CATALOG")
	}
	if path != "" {
		c, err := catalog.LoadFile(path)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		e.catalog = c
	} else {
		e.catalog = catalog.Default()
	}

	cfg, err := storeConfig(cmd)
	if err != nil {
		e.Close()
		return nil, err
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st.Close)

	slots := st.SlotRepo()
	ephemeral, _ := flags.GetBool("ephemeral")
	redisURL, _ := flags.GetString("redis")
	if redisURL == "" {
		redisURL = store.RedisURLFromEnv()
	}
	if redisURL != "" && !ephemeral {
		rs, err := store.NewRedisSlotRepo(ctx, redisURL)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		e.closers = append(e.closers, rs.Close)
		slots = rs
	}
	e.progress = progress.NewStore(slots, progress.WithLogger(logger))

	if o.provider {
		p, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), logger)
		switch {
		case err == nil:
			e.provider = p
		case o.offlineOK:
			logger.Warn("LLM provider not configured", "error", err)
			e.provider = llm.Offline(err)
		default:
			e.Close()
			return nil, fmt.Errorf("LLM provider not configured: %w", err)
		}
	}
	return e, nil
}

func (e *env) lessons() *lessons.Service {
	return lessons.NewService(e.provider, lessons.DefaultConfig())
}

func (e *env) quizzes() quizgen.Generator {
	return quizgen.New(e.provider, quizgen.DefaultConfig())
}

func (e *env) reviewer() *review.Reviewer {
	return review.NewReviewer(e.provider, review.DefaultConfig(),
		review.WithRecorder(e.progress), review.WithLogger(e.logger))
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// storeConfig resolves the database from flags, then environment, then
// the default sqlite file.
func storeConfig(cmd *cobra.Command) (store.Config, error) {
	flags := cmd.Flags()
	if eph, _ := flags.GetBool("ephemeral"); eph {
		return store.Config{Driver: store.DriverSQLite, DSN: ":memory:"}, nil
	}
	cfg := store.ConfigFromEnv()
	if d, _ := flags.GetString("driver"); d != "" {
		cfg.Driver = d
	}
	if dsn, _ := flags.GetString("db"); dsn != "" {
		cfg.DSN = dsn
		if cfg.Driver == store.DriverSQLite {
			if err := store.EnsureDir(dsn); err != nil {
				return cfg, fmt.Errorf("create database dir: %w", err)
			}
		}
	}
	if cfg.DSN == "" {
		if cfg.Driver != store.DriverSQLite {
			return cfg, fmt.Errorf("%s needs --db or STUDYMENTOR_DB_DSN", cfg.Driver)
		}
		p, err := store.DefaultDBPath()
		if err != nil {
			return cfg, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DSN = p
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, stderr bool) (*logging.Logger, error) {
	flags := cmd.Flags()
	level, _ := flags.GetString("log-level")
	path, _ := flags.GetString("log-file")
	if path == "" && (!stderr || os.Getenv("STUDYMENTOR_LOG_FILE") != "") {
		p, err := logging.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
		path = p
	}
	logger, err := logging.New(logging.Options{Level: level, Path: path})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
