package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imrishuroy/go-wardrobe-api/internal/aws"
	"github.com/imrishuroy/go-wardrobe-api/internal/config"
	"github.com/imrishuroy/go-wardrobe-api/internal/db"
	itemevents "github.com/imrishuroy/go-wardrobe-api/internal/events"
	"github.com/imrishuroy/go-wardrobe-api/internal/handlers"
	"github.com/imrishuroy/go-wardrobe-api/internal/items"
	"github.com/imrishuroy/go-wardrobe-api/internal/kafka"
	"github.com/imrishuroy/go-wardrobe-api/internal/logger"
	"github.com/imrishuroy/go-wardrobe-api/internal/metrics"
	"github.com/imrishuroy/go-wardrobe-api/internal/middleware"
)

type app struct {
	cfg       *config.Config
	log       *logger.Logger
	repo      items.Repository
	publisher itemevents.Publisher
	recorder  metrics.Recorder
	closers   []func() error
	runners   []func(ctx context.Context)
}

func setupRouter(a *app, svc *items.Service) *gin.Engine {
	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(handlers.Recovery(a.log))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(a.cfg.CORSOrigin))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Metrics(a.recorder))
	// rate limiting gets in the way of local development
	if !a.cfg.IsDevelopment() {
		r.Use(middleware.NewRateLimiter(a.cfg.RateLimit, int(a.cfg.RateLimit)).Handler())
	}

	handlers.RegisterAppRoutes(r, handlers.AppInfo{
		Name:        a.cfg.AppName,
		Version:     a.cfg.AppVersion,
		Environment: a.cfg.Environment,
	})
	handlers.RegisterItemsRoutes(r, svc)

	return r
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger.Initialize(logger.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())
	a := &app{
		cfg:       cfg,
		log:       logger.Default(),
		publisher: itemevents.Noop{},
		recorder:  metrics.Noop{},
	}

	var clients *aws.AWSClients
	if cfg.NeedsAWS() {
		var err error
		clients, err = aws.NewAWSClients(ctx)
		if err != nil {
			return nil, fmt.Errorf("init aws clients: %w", err)
		}
	}

	repo, err := a.openStore(ctx, clients)
	if err != nil {
		return nil, err
	}
	a.repo = repo

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		a.repo = items.NewCachedStore(a.repo, rdb, cfg.CacheTTL, a.log)
	}

	switch cfg.EventsBackend {
	case config.EventsSQS:
		a.publisher = aws.NewPublisher(clients.SQS, cfg.QueueURL)
	case config.EventsKafka:
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, producer.Close)
		a.publisher = producer
	}

	if cfg.MetricsBackend == config.MetricsCloudWatch {
		rec := aws.NewMetricsRecorder(clients.CloudWatch, cfg.MetricsNamespace, a.log)
		a.recorder = rec
		a.runners = append(a.runners, func(ctx context.Context) { rec.Run(ctx, time.Minute) })
	}

	return a, nil
}

func (a *app) openStore(ctx context.Context, clients *aws.AWSClients) (items.Repository, error) {
	switch a.cfg.StoreBackend {
	case config.StoreDynamoDB:
		return items.NewDynamoStore(clients.DynamoDB, a.cfg.ItemsTable), nil

	case config.StoreSQLite:
		database, err := db.Open(a.cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(database); err != nil {
			database.Close()
			return nil, err
		}
		a.closers = append(a.closers, database.Close)
		return items.NewSQLiteStore(database), nil

	case config.StoreMongoDB:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(a.cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			return nil, fmt.Errorf("ping mongodb: %w", err)
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
		store := items.NewMongoStore(client.Database(a.cfg.MongoDatabase).Collection("items"))
		if err := store.EnsureIndexes(connectCtx); err != nil {
			return nil, err
		}
		return store, nil

	default:
		return items.NewMemoryStore(), nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer a.close()

	for _, run := range a.runners {
		go run(ctx)
	}

	svc := items.NewService(a.repo, a.publisher, a.log)
	r := setupRouter(a, svc)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		a.log.Info("running local server", "addr", srv.Addr, "store", cfg.StoreBackend, "events", cfg.EventsBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
