package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/glowshop/backend/internal/catalog"
	"github.com/glowshop/backend/internal/config"
	"github.com/glowshop/backend/internal/es"
	"github.com/glowshop/backend/internal/handlers"
	"github.com/glowshop/backend/internal/logging"
	"github.com/glowshop/backend/internal/middleware/csrf"
	loggingmw "github.com/glowshop/backend/internal/middleware/logging"
	"github.com/glowshop/backend/internal/mykafka"
	"github.com/glowshop/backend/internal/service/checkout"
	"github.com/glowshop/backend/internal/service/token"
	"github.com/glowshop/backend/internal/storage"
	httpserver "github.com/glowshop/backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
	}

	store := storage.NewDiskStore(configuration.UPLOAD_DIR, configuration.PUBLIC_BASE_URL)
	picker := catalog.NewPicker(rand.New(rand.NewSource(time.Now().UnixNano())))

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(csrf.Middleware(csrf.Config{
		SkipPaths: []string{"/api/v1/register", "/api/v1/login", "/api/v1/contact"},
	}))
	e.Static("/uploads", configuration.UPLOAD_DIR)

	deps := httpserver.Deps{
		DB: db,
		AuthHandler: &handlers.AuthHandler{
			DB:            db,
			JWTSecret:     jwtSecret,
			RefreshSecret: refreshSecret,
			Producer:      prod,
		},
		ProductHandler: &handlers.ProductHandler{
			DB:       db,
			Producer: prod,
			Store:    store,
			Picker:   picker,
			ES:       esClient,
			Index:    "products",
		},
		OrderHandler: &handlers.OrderHandler{
			DB:       db,
			Checkout: checkout.NewService(db),
			Producer: prod,
		},
		HeroHandler:    &handlers.HeroHandler{DB: db, Store: store},
		ContactHandler: &handlers.ContactHandler{DB: db, Producer: prod},
		UserHandler:    &handlers.UserHandler{DB: db},
		SearchHandler:  &handlers.SearchHandler{ES: esClient, Index: "products"},
		ServiceHandler: &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
