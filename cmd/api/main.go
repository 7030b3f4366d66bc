package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"restyle-server/internal/http/handlers"
	"restyle-server/internal/http/httpapi"
	"restyle-server/internal/infra"
	"restyle-server/internal/providers/genai"
	"restyle-server/internal/providers/image"
	"restyle-server/internal/sample"
	"restyle-server/internal/studio"
)

func main() {
	// .env is optional; deployments use real environment variables.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	genaiClient, err := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: &http.Client{Timeout: cfg.GenerateTimeout},
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gemini client")
	}

	controller := studio.NewController(image.NewGeminiEditor(genaiClient), logger)

	// The default source image loads in the background; a failure degrades
	// to "no source image yet" and never blocks startup.
	holder := &sample.Holder{}
	loader := sample.NewLoader(cfg.SampleImageURL, nil, logger)
	sample.Preload(context.Background(), loader, holder, logger)

	app := handlers.NewApp(cfg, logger, controller, holder)
	router := httpapi.NewRouter(app, nil)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
