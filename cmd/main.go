package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videotube/config"
	"videotube/config/server"
	"videotube/internal/handler"
	"videotube/internal/repository"
	"videotube/internal/security"
	"videotube/internal/service"
	"videotube/internal/storage"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("не удалось загрузить конфигурацию: %v", err)
	}

	accessTTL, err := config.ParseTTL(cfg.JWT.AccessTokenTTL)
	if err != nil {
		log.Fatalf("неверный access_token_ttl: %v", err)
	}
	refreshTTL, err := config.ParseTTL(cfg.JWT.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("неверный refresh_token_ttl: %v", err)
	}
	webhookTimeout, err := config.ParseTTL(cfg.Webhook.Timeout)
	if err != nil {
		log.Fatalf("неверный webhook timeout: %v", err)
	}
	if server.AccessTokenSecret == "" || server.RefreshTokenSecret == "" {
		log.Fatal("не заданы ACCESS_TOKEN_SECRET и REFRESH_TOKEN_SECRET")
	}

	database, err := server.SetupDatabase()
	if err != nil {
		log.Fatalf("не удалось подключиться к БД: %v", err)
	}
	defer database.Close()

	if err := database.RunMigrations(ctx); err != nil {
		log.Fatalf("не удалось применить миграции: %v", err)
	}

	mediaStorage, err := storage.NewMediaStorage(
		ctx,
		cfg.Storage.Endpoint,
		cfg.Storage.Region,
		cfg.Storage.Bucket,
		server.StorageAccessKey,
		server.StorageSecretKey,
	)
	if err != nil {
		log.Fatalf("не удалось подключиться к хранилищу медиа: %v", err)
	}

	httpServer, router := server.SetupServer()

	tokenCodec := security.NewTokenCodec(
		[]byte(server.AccessTokenSecret),
		[]byte(server.RefreshTokenSecret),
		accessTTL,
		refreshTTL,
		cfg.JWT.Issuer,
	)

	userRepository := repository.NewUserRepository(database)
	subscriptionRepository := repository.NewSubscriptionRepository(database)
	videoRepository := repository.NewVideoRepository(database)

	sessionService := service.NewSessionService(userRepository, tokenCodec, cfg.Webhook.URL, webhookTimeout)
	userService := service.NewUserService(userRepository, subscriptionRepository, videoRepository, mediaStorage)

	sessionHandler := handler.NewSessionHandler(sessionService)
	userHandler := handler.NewUserHandler(userService)

	router.Route(cfg.Server.BasePath, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", sessionHandler.Login)
			r.Post("/refresh-token", sessionHandler.Refresh)
		})
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(tokenCodec, userRepository))
			r.Post("/logout", sessionHandler.Logout)
			r.Post("/change-password", sessionHandler.ChangePassword)
			r.Get("/current-user", userHandler.CurrentUser)
			r.Patch("/update-account", userHandler.UpdateAccount)
			r.Patch("/update-avatar", userHandler.UpdateAvatar)
			r.Patch("/cover-image", userHandler.UpdateCoverImage)
			r.Get("/c/{username}", userHandler.ChannelProfile)
			r.Post("/c/{username}/subscribe", userHandler.ToggleSubscription)
			r.Get("/watch-history", userHandler.WatchHistory)
			r.Post("/watch-history/{videoId}", userHandler.RecordWatch)
		})
	})

	runServer(ctx, httpServer)
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
