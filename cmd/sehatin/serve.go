package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RamaAlqdri/sehatin/logger"
	"github.com/RamaAlqdri/sehatin/routes"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.Admin.Email != "" {
			if created, err := a.auth.SeedAdmin(ctx, a.cfg.Admin.Email, a.cfg.Admin.Password); err != nil {
				logger.Warn("admin seed failed", zap.Error(err))
			} else if created {
				logger.Info("admin account created", zap.String("email", a.cfg.Admin.Email))
			}
		}

		if a.cfg.Env == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := routes.SetupRouter(a.handlers())

		origins := a.cfg.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		handler := cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		})(router)

		srv := &http.Server{
			Addr:              ":" + a.cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", zap.String("port", a.cfg.Port), zap.String("timezone", a.cfg.Timezone))
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

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
