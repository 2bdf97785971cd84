package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"lotauctiongo/internal/config"
	"lotauctiongo/internal/database/db_client"
	"lotauctiongo/internal/events"
	"lotauctiongo/internal/http/http_server"
	"lotauctiongo/internal/notify"
	"lotauctiongo/internal/ratelimit"
	"lotauctiongo/internal/redis/redis_client"
	"lotauctiongo/internal/services/bid"
	"lotauctiongo/internal/services/comment"
	"lotauctiongo/internal/services/complaint"
	"lotauctiongo/internal/services/lot"
	"lotauctiongo/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis (comment rate limiting + live-feed fan-out)
	redisClient, err := redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()

	// 4. Postgres db client
	pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort,
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	// 5. Notification side-channel: Discord bot behind an HTTP endpoint.
	discord := notify.NewDiscordChannel(cfg.DiscordBotURL, cfg.NotifyTimeout)
	notifier := notify.NewService(cfg.NotifyTimeout, discord)
	defer notifier.Close()

	// 6. Domain services
	limiter := ratelimit.NewSlidingWindow(redisClient, "rl:comments:",
		cfg.CommentRateMax, cfg.CommentRateWindow)
	publisher := events.NewRedisPublisher(redisClient)

	lotSvc := lot.NewLotService(pgDb)
	bidSvc := bid.NewBidService(pgDb, notifier, publisher, limiter, cfg.BidMinIncrement)
	commentSvc := comment.NewCommentService(pgDb, limiter)
	complaintSvc := complaint.NewComplaintService(pgDb)

	// 7. WebSockets hub + Redis fan-out
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, redisClient, lotSvc)

	// 8. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, http_server.Services{
		Lots:       lotSvc,
		Bids:       bidSvc,
		Comments:   commentSvc,
		Complaints: complaintSvc,
	})
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
