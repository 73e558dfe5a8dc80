package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"project_lojabot/internal/infrastructure"
	httpapi "project_lojabot/internal/interfaces/http"
	"project_lojabot/internal/interfaces/telegram"
	"project_lojabot/internal/usecases"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and, when a bot token is configured, the Telegram bridge",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := bootstrap(ctx, st); err != nil {
			return err
		}

		cache, closeCache, err := initCache(ctx)
		if err != nil {
			return err
		}
		defer closeCache()

		chat, err := initChat(ctx, st.Repo, cache)
		if err != nil {
			return err
		}

		if cfg.Environment == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		r := gin.New()
		r.Use(gin.Recovery())
		httpapi.SetupRoutes(r,
			httpapi.NewHandler(chat, usecases.NewCatalogUsecase(st.Repo), initTokenStatus(), logger.Named("http")),
			httpapi.NewMiddleware(logger.Named("http")),
			cfg.Server.MaxBodyBytes)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if cfg.Telegram.Token != "" {
			bot, err := infrastructure.NewTelegramBot(cfg.Telegram.Token)
			if err != nil {
				logger.Warn("telegram disabled", zap.Error(err))
			} else {
				logger.Info("telegram bot connected", zap.String("username", bot.Self.UserName))
				client := infrastructure.NewTelegramClient(bot, cfg.Telegram.SendsPerSecond, cfg.Telegram.SendBurst, logger.Named("telegram"))
				bridge := telegram.NewBridge(client, chat, cfg.AI.AssistantName, logger.Named("telegram"))
				g.Go(func() error { return bridge.Run(gctx) })
			}
		} else {
			logger.Info("telegram disabled: no bot token configured")
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
