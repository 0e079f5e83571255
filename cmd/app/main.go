package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"dispatch/cmd"
	dispatchhttp "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/amqp"
	"dispatch/internal/adapters/out/postgres/dealrepo"
	"dispatch/internal/adapters/out/postgres/earningrepo"
	"dispatch/internal/adapters/out/postgres/walletrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/bus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := openDatabase(configs)
	migrateDatabase(gormDB)

	eventBus := bus.New()

	if configs.AmqpURL != "" {
		publisher, err := amqp.NewPublisher(configs.AmqpURL, logger)
		if err != nil {
			log.Fatalf("Error connecting to message broker: %v", err)
		}
		defer publisher.Close()
		publisher.Attach(eventBus)
	}

	hub := ws.NewHub(logger)
	hub.Attach(eventBus)

	app := cmd.NewCompositionRoot(configs, gormDB, eventBus, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, hub, configs)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:                goDotEnvVariable("HTTP_PORT"),
		DBHost:                  goDotEnvVariable("DB_HOST"),
		DBPort:                  goDotEnvVariable("DB_PORT"),
		DBUser:                  goDotEnvVariable("DB_USER"),
		DBPassword:              goDotEnvVariable("DB_PASSWORD"),
		DBName:                  goDotEnvVariable("DB_NAME"),
		DBSslMode:               goDotEnvVariable("DB_SSLMODE"),
		AmqpURL:                 os.Getenv("AMQP_URL"),
		MarketplaceBaseURL:      goDotEnvVariable("MARKETPLACE_BASE_URL"),
		MarketplaceServiceToken: goDotEnvVariable("MARKETPLACE_SERVICE_TOKEN"),
		JWTSecret:               goDotEnvVariable("JWT_SECRET"),
		RateLimitPerSecond:      floatEnvVariable("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:          floatEnvVariable("RATE_LIMIT_BURST", 30),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func floatEnvVariable(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	// TranslateError maps driver duplicate-key failures to
	// gorm.ErrDuplicatedKey, which the deal repository relies on.
	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func migrateDatabase(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&dealrepo.DealDTO{},
		&walletrepo.WalletDTO{},
		&walletrepo.TransactionDTO{},
		&earningrepo.EarningDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, hub *ws.Hub, configs cmd.Config) {
	e := echo.New()

	server := dispatchhttp.NewServer(
		app.CreateCreateDealCommandHandler(),
		app.CreatePayDealCommandHandler(),
		app.CreateAcceptDealCommandHandler(),
		app.CreateDeclineDealCommandHandler(),
		app.CreateVerifyOtpCommandHandler(),
		app.CreateUpdateStatusCommandHandler(),
		app.CreatePushLocationCommandHandler(),
		app.CreateUploadProofPhotoCommandHandler(),
		app.CreateSetLocationSharingCommandHandler(),
		app.CreateCancelDealCommandHandler(),
		app.CreateGetAvailableDealsQueryHandler(),
		app.CreateGetTrackingSnapshotQueryHandler(),
	)

	auth := dispatchhttp.AuthMiddleware([]byte(configs.JWTSecret))
	limiter := dispatchhttp.NewRateLimiter(dispatchhttp.RateLimiterConfig{
		RatePerSecond: configs.RateLimitPerSecond,
		Burst:         configs.RateLimitBurst,
		TTL:           10 * time.Minute,
		MaxBuckets:    10000,
	})

	server.Register(e, auth, dispatchhttp.RateLimitMiddleware(limiter))

	trackingHandler := app.CreateGetTrackingSnapshotQueryHandler()
	authorizeWatch := func(ctx context.Context, dealID, actorID kernel.UUID) error {
		query, err := queries.NewGetTrackingSnapshotQuery(dealID, actorID)
		if err != nil {
			return err
		}
		_, err = trackingHandler.Handle(ctx, query)
		return err
	}
	e.GET("/api/v1/deals/:dealId/track", hub.EchoHandler(authorizeWatch, dispatchhttp.ActorFromContext), auth)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
