/**
 * @description
 * This is the main entry point for the remittance service. It is responsible for
 * initializing all components: configuration, database connection pool, cache,
 * message broker producer, the provider API client, the core application
 * service, and the HTTP server. It wires everything together and starts the
 * service with graceful shutdown.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/redis/go-redis/v9: Redis client for the volatile cache.
 * - internal/api, internal/app, internal/auth, internal/cache, internal/config,
 *   internal/store: Internal packages for the service.
 * - pkg/machnetclient: Client for the remittance provider API.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/inyo-global/remittance-sample/internal/api"
	"github.com/inyo-global/remittance-sample/internal/app"
	"github.com/inyo-global/remittance-sample/internal/auth"
	"github.com/inyo-global/remittance-sample/internal/cache"
	"github.com/inyo-global/remittance-sample/internal/config"
	"github.com/inyo-global/remittance-sample/internal/store"
	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
	rmrabbit "github.com/inyo-global/remittance-sample/pkg/rabbitmq"
)

func main() {
	// Load an optional .env file for local development; environment wins.
	_ = godotenv.Load()

	// Load application configuration from environment variables.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url must be configured\" env=DATABASE_URL")
	}

	log.Printf("level=info component=bootstrap msg=\"starting remittance-service\" port=%s", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}

	// Pool sizing for a single-instance deployment behind pgbouncer-free Postgres.
	poolConfig.MaxConns = 100
	poolConfig.MinConns = 20
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Initialize the data access layer and make sure the schema exists.
	repository := store.NewPostgresRepository(dbpool)
	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.EnsureSchema(schemaCtx); err != nil {
		cancelSchema()
		log.Fatalf("level=fatal component=bootstrap msg=\"schema migration failed\" err=%v", err)
	}
	cancelSchema()
	log.Println("level=info component=bootstrap msg=\"schema ready\"")

	// Prefer Redis for the volatile cache; degrade to the in-process cache when
	// Redis is missing or unreachable so reference data still gets cached.
	var volatileCache cache.Cache = cache.NewMemoryCache()
	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; using in-process cache\" env=REDIS_URL")
	} else {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; using in-process cache\" err=%v", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := redisClient.Ping(pingCtx).Err()
			cancelPing()
			if pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; using in-process cache\" err=%v", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				volatileCache = cache.NewRedisCache(redisClient, cfg.RedisCachePrefix)
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
		}
	}

	// Initialize the RabbitMQ producer to publish lifecycle events. The broker
	// is optional; without it events are logged and dropped.
	var events rmrabbit.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"rabbitmq url missing; event publishing disabled\" env=RABBITMQ_URL")
	} else if producer, prodErr := rmrabbit.NewEventProducer(cfg.RabbitMQURL); prodErr != nil {
		log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; event publishing disabled\" err=%v", prodErr)
	} else {
		defer producer.Close()
		events = producer
		log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
	}

	// Initialize the client for the remittance provider API.
	providerClient := machnetclient.NewClient(
		cfg.MachnetAPIBaseURL,
		cfg.MachnetTenant,
		cfg.MachnetAPIKey,
		cfg.MachnetAgentID,
		cfg.MachnetAgentKey,
	)

	// Session token issuer for login and the auth middleware.
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, auth.DefaultSessionTTL)

	// Initialize the core application service with its dependencies.
	service := app.NewService(repository, providerClient, volatileCache, events, tokens, cfg.QuoteFeeUSD)

	// Initialize the API handlers and router.
	handlers := api.NewHandlers(service)
	router := api.NewRouter(handlers, tokens)

	// Start the HTTP server.
	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=warn component=http msg=\"graceful shutdown failed\" err=%v", err)
	}
	log.Println("level=info component=http msg=\"shutdown complete\"")
}
