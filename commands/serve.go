package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IrakliAvdulaj/trek-fleet-apply/configs"
	"github.com/IrakliAvdulaj/trek-fleet-apply/middlewares"
	"github.com/IrakliAvdulaj/trek-fleet-apply/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := configs.SeedAdmin(a.db, a.cfg, a.log); err != nil {
				return err
			}

			if a.cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}
			r := gin.New()
			r.Use(gin.Recovery(), middlewares.RequestLogger(a.log))
			routes.RegisterRoutes(r, routes.Deps{
				Auth:            a.auth,
				Applications:    a.applications,
				Catalog:         a.catalog,
				DefaultLanguage: a.cfg.DefaultLanguage,
				AllowedOrigins:  a.cfg.AllowedOrigins(),
				Log:             a.log,
			})

			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.WithField("addr", srv.Addr).Info("🚀 Server running")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.log.Info("🛑 shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
