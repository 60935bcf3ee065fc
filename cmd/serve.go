package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"homophone_dict/internal/api"
	"homophone_dict/internal/middleware"
	"homophone_dict/internal/ratelimit"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/service"
	"homophone_dict/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "啟動 HTTP 服務",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.close()
		cfg, logger := a.cfg, a.logger

		repos := repository.NewRepositories(a.db)
		services := service.NewServices(repos, service.Options{
			Logger:         logger,
			Tokens:         utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL),
			DeadlineHours:  cfg.Audit.DeadlineHours,
			ApprovalQuorum: cfg.Audit.ApprovalQuorum,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		deps := api.Deps{
			Logger:          logger,
			AllowedOrigins:  cfg.Server.CORSOrigins,
			RetentionMonths: cfg.History.RetentionMonths,
		}
		if cfg.RateLimit.Enabled {
			limiter, local, rdb := ratelimit.New(cfg.RateLimit, logger)
			local.Start(ctx)
			defer local.Stop()
			if rdb != nil {
				defer rdb.Close()
			}
			deps.Limiter = limiter
			deps.Presets = ratelimit.PresetsFromConfig(cfg.RateLimit)
		}

		if cfg.Server.Mode != "" {
			gin.SetMode(cfg.Server.Mode)
		}
		r := gin.New()
		r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(logger), middleware.CORS(cfg.Server.CORSOrigins))
		api.SetupRoutes(r, services, deps)

		srv := &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.WithField("address", cfg.Server.Address).Info("HTTP 服務啟動")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
			logger.Info("收到結束訊號，正在關閉服務")
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("HTTP 服務異常結束: %w", err)
			}
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
