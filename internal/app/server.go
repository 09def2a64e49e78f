// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"streambox-service/internal/config"
	"streambox-service/internal/db"
	orderHandler "streambox-service/internal/handlers/order"
	subscriptionHandler "streambox-service/internal/handlers/subscription"
	"streambox-service/internal/middleware"
	"streambox-service/internal/pkg/clock"
	"streambox-service/internal/pkg/ratelimit"
	"streambox-service/internal/repository/postgres"
	orderService "streambox-service/internal/service/order"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer  *http.Server
	pool        *pgxpool.Pool
	redisClient *redis.Client
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		engine: gin.New(),
		logger: logger,
	}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redisClient = redisClient

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	cancellationRepo := postgres.NewOrderCancellationRepository(pool)

	// ----- Services -----
	svc := orderService.NewOrderService(
		orderRepo,
		subscriptionRepo,
		cancellationRepo,
		dbWrapper,
		clock.System(),
		s.logger,
	)

	// ----- Handlers -----
	orderHandlerInst := orderHandler.NewOrderHandler(svc, s.logger)
	subscriptionHandlerInst := subscriptionHandler.NewSubscriptionHandler(svc, s.logger)

	// ----- Middlewares -----
	limiter := ratelimit.NewLimiter(redisClient)

	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(),
		middleware.RateLimitMiddleware(limiter, s.cfg.RateLimitRPM, s.logger),
	)

	// ----- Router -----
	handlers := &Handlers{
		OrderHandler:        orderHandlerInst,
		SubscriptionHandler: subscriptionHandlerInst,
	}
	SetupRouter(s.engine, pool, handlers)

	// ----- Start HTTP -----
	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPAddr(),
		Handler: s.engine,
	}

	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr()))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and closes the connection pools.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.redisClient != nil {
		if cerr := s.redisClient.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
