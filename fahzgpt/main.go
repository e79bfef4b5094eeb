package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appconfig "github.com/fahz-devoffc/fahzgpt/fahzgpt/config"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/controllers"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/routes"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/services/llm"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/psql/dao"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/sources/storage"
	appstore "github.com/fahz-devoffc/fahzgpt/fahzgpt/store"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg, err := appconfig.LoadConfig()
	if err != nil {
		logging.ErrorLogger.Error("config load error", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	storeDAO := dao.NewStoreDAO(db.DB)

	st := appstore.NewStore(storeDAO, types.AIConfig{
		SystemInstruction: appconfig.InitialSystemInstruction,
		Temperature:       0.7,
		Model:             cfg.TextModel,
		APIEndpoint:       appconfig.DefaultProxyEndpoint,
	}, appconfig.DefaultProxyEndpoint)

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		logging.ErrorLogger.Error("minio connection error", zap.Error(err))
		os.Exit(1)
	}

	templates, err := appconfig.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		logging.ErrorLogger.Error("template load error", zap.Error(err))
		os.Exit(1)
	}

	gateway := llm.NewGateway(cfg, minioClient)
	sessionCtrl := controllers.NewSessionController(st)
	authCtrl := controllers.NewAuthController(userDAO, sessionCtrl, cfg)
	userCtrl := controllers.NewUserController(userDAO)
	chatCtrl := controllers.NewChatController(gateway, sessionCtrl, st)
	settingsCtrl := controllers.NewSettingsController(st, templates)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Minute)) // video polling lives inside a request

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/auth", routes.AuthRoutes(authCtrl, cfg))
	r.Mount("/users", routes.UserRoutes(userCtrl, cfg))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, sessionCtrl, cfg))
	r.Mount("/config", routes.ConfigRoutes(settingsCtrl, cfg))
	r.Mount("/templates", routes.TemplateRoutes(settingsCtrl))
	r.Mount("/voice", routes.VoiceRoutes(st, cfg))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", cfg.Addr), zap.String("version", appconfig.Version))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
