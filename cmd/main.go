// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"ask_saturation/internal/config"
	"ask_saturation/internal/database"
	"ask_saturation/internal/dispatch"
	"ask_saturation/internal/handlers"
	"ask_saturation/internal/middleware"
	"ask_saturation/internal/repositories"
	"ask_saturation/internal/services"
	"ask_saturation/internal/tokens"
)

func main() {
	// Configuración
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	centers, closeCenters, err := openCenterSource(startCtx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	closers = append(closers, closeCenters)

	store, closeStore, err := openTokenStore(startCtx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	closers = append(closers, closeStore)

	var dispatcher dispatch.Dispatcher = dispatch.LogDispatcher{}
	if cfg.AMQPURL != "" {
		amqpDispatcher, err := dispatch.DialAMQP(cfg.AMQPURL, cfg.ShiftExchange)
		if err != nil {
			log.Fatal(err)
		}
		closers = append(closers, amqpDispatcher.Close)
		dispatcher = amqpDispatcher
		log.Printf("Shift orders published to exchange %s", cfg.ShiftExchange)
	}

	dashboard := services.NewDashboardService(centers, tokens.NewBooker(store), dispatcher)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	handlers.NewHandler(dashboard).Register(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin", handlers.SessionHeader},
		ExposedHeaders: []string{handlers.SessionHeader},
		MaxAge:         86400,
	})

	// Iniciar servidor
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %d (centers=%s, tokens=%s)", cfg.Port, cfg.CenterSource, cfg.TokenStore)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Manejar shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func openCenterSource(ctx context.Context, cfg *config.Config) (services.CenterSource, func(), error) {
	if cfg.CenterSource == config.CenterSourceStatic {
		repo, err := repositories.NewStaticCenterRepository(repositories.JabalpurCenters())
		return repo, func() {}, err
	}

	db, err := database.NewNeo4jDatabase(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		return nil, nil, err
	}

	// Cargar datos iniciales
	if err := db.ExecuteCypherFile(ctx, cfg.SeedFile); err != nil {
		log.Printf("Warning: could not seed centers: %v", err)
	} else {
		log.Println("Reference centers loaded")
	}

	closeDB := func() {
		if err := db.Close(context.Background()); err != nil {
			log.Printf("error closing neo4j driver: %v", err)
		}
	}
	return repositories.NewCenterRepository(db.Driver), closeDB, nil
}

func openTokenStore(ctx context.Context, cfg *config.Config) (tokens.Store, func(), error) {
	switch cfg.TokenStore {
	case config.TokenStoreRedis:
		store := tokens.NewRedisStore(cfg.RedisAddr, cfg.SessionTTL)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		return store, func() { store.Close() }, nil
	case config.TokenStorePostgres:
		store, err := tokens.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return tokens.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
}
