package main

import (
	"errors"
	"flag"
	"io"
	"io/fs"
	"log"
	"strconv"

	"github.com/alanmaizon/gt-translator/internal/api"
	"github.com/alanmaizon/gt-translator/internal/config"
	"github.com/alanmaizon/gt-translator/internal/llm"
	"github.com/alanmaizon/gt-translator/internal/middleware"
	"github.com/alanmaizon/gt-translator/internal/models"
	"github.com/alanmaizon/gt-translator/internal/settings"
	"github.com/alanmaizon/gt-translator/internal/translator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("component=server event=dotenv_load_failed error=%q", err.Error())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	kv, err := settings.OpenKV(cfg.StoreBackend, cfg.StorePath)
	if err != nil {
		log.Fatalf("failed to open settings store: %v", err)
	}
	store := settings.NewStore(kv)

	provider := llm.NewProvider(llm.Options{
		Provider: cfg.Provider,
		BaseURL:  cfg.GeminiBaseURL,
		Timeout:  cfg.LLMTimeout(),
	})
	log.Printf("component=server provider=%s store=%s port=%d", provider.Name(), cfg.StoreBackend, cfg.Port)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"X-Request-Id",
			"X-Gemini-Api-Key",
		},
		ExposeHeaders: []string{"X-Request-Id"},
	}))

	api.RegisterRoutes(router, api.Dependencies{
		Provider:           provider,
		RequestedProvider:  cfg.Provider,
		StoreBackend:       cfg.StoreBackend,
		Settings:           store,
		Translator:         translator.NewOrchestrator(provider, store),
		Models:             models.NewDirectory(provider),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		FallbackURL:        cfg.FallbackURL,
	})

	port := strconv.Itoa(cfg.Port)
	err = router.Run(":" + port)
	closeKV(kv)
	if err != nil {
		log.Fatalf("failed to start server on port %s: %v", port, err)
	}
}

// closeKV releases backends that hold a handle, such as the SQLite database.
func closeKV(kv settings.KV) {
	closer, ok := kv.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Printf("component=server event=settings_close_failed error=%q", err.Error())
	}
}
