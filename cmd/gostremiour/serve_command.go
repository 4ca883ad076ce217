package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/amaumene/gostremiour/internal/constants"
	"github.com/amaumene/gostremiour/internal/handlers"
	"github.com/amaumene/gostremiour/internal/middleware"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var portFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Stremio add-on HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if portFlag != "" {
				cfg.Port = portFlag
			}
			log := ctx.logger

			a, err := newApp(cfg, log, appOptions{withDatabase: true})
			if err != nil {
				return err
			}
			defer a.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.container.Cleanup.Start(runCtx); err != nil {
				return err
			}
			if a.listingCache != nil {
				a.listingCache.StartCleanup(runCtx, constants.CleanupInterval)
			}

			gin.SetMode(gin.ReleaseMode)
			r := gin.New()
			r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log), middleware.Gzip(), middleware.CORS())
			handlers.New(a.container, cfg).RegisterRoutes(r)

			server := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Infof("[App] starting HTTP server on port %s", cfg.Port)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-runCtx.Done():
				log.Infof("[App] shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVarP(&portFlag, "port", "p", "", "Port to listen on (overrides PORT)")
	return cmd
}
