package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/saksham2694/drone-meds-express/internal/cart"
	"github.com/saksham2694/drone-meds-express/internal/cart/cache"
	"github.com/saksham2694/drone-meds-express/internal/catalog"
	"github.com/saksham2694/drone-meds-express/internal/events"
	h "github.com/saksham2694/drone-meds-express/internal/http"
	"github.com/saksham2694/drone-meds-express/internal/maps"
	"github.com/saksham2694/drone-meds-express/internal/order"
	"github.com/saksham2694/drone-meds-express/internal/order/repository"
	"github.com/saksham2694/drone-meds-express/internal/tracking"
)

type Config struct {
	HTTPPort string

	DBHost            string
	DBPort            int
	DBUser            string
	DBPassword        string
	DBName            string
	MigrationsDirPath string

	CatalogDBPath         string
	CatalogMigrationsPath string

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string

	MapsBaseURL     string
	MapsAccessToken string
	MapsLongitude   float64
	MapsLatitude    float64

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid DB_PORT: %v", err)
	}
	lon, err := strconv.ParseFloat(getEnv("MAPS_LONGITUDE", "-87.6298"), 64)
	if err != nil {
		log.Fatalf("invalid MAPS_LONGITUDE: %v", err)
	}
	lat, err := strconv.ParseFloat(getEnv("MAPS_LATITUDE", "41.8781"), 64)
	if err != nil {
		log.Fatalf("invalid MAPS_LATITUDE: %v", err)
	}

	return &Config{
		HTTPPort:              getEnv("HTTP_PORT", "8080"),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                dbPort,
		DBUser:                getEnv("DB_USER", "postgres"),
		DBPassword:            getEnv("DB_PASSWORD", "postgres"),
		DBName:                getEnv("DB_NAME", "orders"),
		MigrationsDirPath:     getEnv("MIGRATIONS_DIR", "internal/order/repository/migrations"),
		CatalogDBPath:         getEnv("CATALOG_DB_PATH", "catalog.db"),
		CatalogMigrationsPath: getEnv("CATALOG_MIGRATIONS_DIR", "internal/catalog/migrations"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:           getEnv("MONGO_DB_NAME", "cartdb"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:          strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		MapsBaseURL:           getEnv("MAPS_BASE_URL", "https://api.mapbox.com"),
		MapsAccessToken:       getEnv("MAPS_ACCESS_TOKEN", ""),
		MapsLongitude:         lon,
		MapsLatitude:          lat,
		RequestTimeout:        30 * time.Second,
		ShutdownTimeout:       10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Catalog (SQLite)
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Printf("Catalog ready at %s", cfg.CatalogDBPath)

	// Orders (Postgres)
	creds := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsDirPath,
	}
	orderRepo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to orders database: %v", err)
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run orders migrations: %v", err)
	}
	log.Printf("Connected to Postgres at %s:%d", cfg.DBHost, cfg.DBPort)

	// Cart (MongoDB)
	mongoDB, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cartRepo := cart.NewMongoRepository(mongoDB)
	if indexer, ok := cartRepo.(interface{ CreateIndexes(context.Context) error }); ok {
		if err := indexer.CreateIndexes(ctx); err != nil {
			log.Fatalf("Failed to create cart indexes: %v", err)
		}
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	// Cart cache (Redis)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	// Order events (Kafka)
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	// Services
	cartService := cart.NewService(cartRepo, cache.NewRedisCache(redisClient))
	orderService := order.NewService(orderRepo, publisher)
	tracker := tracking.NewTracker(maps.NewClient(maps.Config{
		BaseURL:     cfg.MapsBaseURL,
		AccessToken: cfg.MapsAccessToken,
		Longitude:   cfg.MapsLongitude,
		Latitude:    cfg.MapsLatitude,
	}))

	// Handlers
	productsHandler := h.NewProductsHandler(catalogRepo, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(cartService, catalogRepo, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(cartService, orderService, cfg.RequestTimeout)
	ordersHandler := h.NewOrdersHandler(orderService, tracker, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionAuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productsHandler.ListProducts)
		r.Get("/products/{product_id}", productsHandler.GetProduct)
		r.Get("/categories", productsHandler.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_id}", ordersHandler.GetOrder)
			r.Get("/{order_id}/tracking", ordersHandler.GetTracking)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "drone-meds-express"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
