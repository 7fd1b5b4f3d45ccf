package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"eventsapi/config"
	_ "eventsapi/docs"
	delivery "eventsapi/internal/delivery/http"
	"eventsapi/internal/delivery/http/controllers"
	"eventsapi/internal/delivery/http/middleware"
	dynamorepo "eventsapi/internal/repository/dynamodb"
	"eventsapi/internal/services"
)

// @title Events API
// @description REST API for managing events with DynamoDB storage.
// @version 1.0
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := newDynamoClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}

	eventRepo := dynamorepo.NewEventRepository(client, cfg.TableName)
	eventService := services.NewEventService(eventRepo)
	eventController := controllers.NewEventController(logger, eventService)

	mux := delivery.NewRouter(eventController)
	handler := middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port, "table", cfg.TableName, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
}

// newDynamoClient builds the long-lived DynamoDB client. With
// DYNAMODB_ENDPOINT set (DynamoDB Local), static credentials are used and
// requests go to that endpoint; otherwise the default AWS credential chain
// applies.
func newDynamoClient(ctx context.Context, cfg *config.Config) (*dynamodb.Client, error) {
	if cfg.DynamoEndpoint != "" {
		awsCfg := aws.Config{
			Region: cfg.AWSRegion,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccess, ""),
			),
		}
		return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}), nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}
