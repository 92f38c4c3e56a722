package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhishaiv/AI-Study-Master/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the study API on a local address",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = os.Getenv("STUDYMENTOR_ADDR")
		}
		if addr == "" {
			addr = api.DefaultAddr
		}
		origins, _ := cmd.Flags().GetStringSlice("origin")

		e, err := openEnv(cmd, envOptions{provider: true, offlineOK: true, stderrLog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		srv := api.New(api.Deps{
			Catalog:        e.catalog,
			Progress:       e.progress,
			Lessons:        e.lessons(),
			Quizzes:        e.quizzes(),
			Reviewer:       e.reviewer(),
			Provider:       e.provider,
			Logger:         e.logger,
			AllowedOrigins: origins,
		})

		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			e.logger.Info("api listening", "addr", addr, "origins", strings.Join(origins, ","))
			errCh <- httpSrv.ListenAndServe()
		}()
		fmt.Printf("Serving on http://%s (Ctrl+C to stop)\n", addr)

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		e.logger.Info("api stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default "+api.DefaultAddr+", or STUDYMENTOR_ADDR)")
	serveCmd.Flags().StringSlice("origin", nil, "Allowed browser origin; repeatable")
}
