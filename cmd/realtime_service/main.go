package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	accountapp "wayfare/internal/account/app"
	accountdomain "wayfare/internal/account/domain"
	accountrepo "wayfare/internal/account/repository"
	accountrouter "wayfare/internal/account/router"
	realtimeapp "wayfare/internal/realtime/app"
	realtimerouter "wayfare/internal/realtime/router"
	socialapp "wayfare/internal/social/app"
	socialrepo "wayfare/internal/social/repository"
	socialrouter "wayfare/internal/social/router"
	"wayfare/pkg/config"
	"wayfare/pkg/database"
	"wayfare/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.RealtimeService, config.EnvConfig.RealtimeServiceLogPath)
	cfg := config.LoadConfig[config.Realtime](config.EnvConfig.RealtimeService, config.EnvConfig.RealtimeServiceYAMLPath)

	ctx := context.Background()

	// Mongo holds conversations, messages and notifications
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    mongoURI,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", mongoURI)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// PostgreSQL holds accounts
	sqlParams := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    sqlParams,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", sqlParams)),
			zap.Error(err),
		)
	}
	defer pool.Close()

	// Redis holds login sessions
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}
	sessionRepo := database.NewRedisRepository[accountdomain.AccountSession](redisClient)

	// repositories
	accountRepo := accountrepo.NewAccountRepository(pool)
	convRepo := socialrepo.NewMongoConversationRepository(mongo.Database)
	notifRepo := socialrepo.NewMongoNotificationRepository(mongo.Database)

	// presence and fan-out
	registry := realtimeapp.NewPresenceRegistry()
	dispatcher := realtimeapp.NewEventDispatcher(registry)

	// usecases
	accountUC := accountapp.NewAccountUseCase(accountRepo, cfg.SessionTTL, sessionRepo)
	messageUC := socialapp.NewMessageUseCase(convRepo, dispatcher)
	notificationUC := socialapp.NewNotificationUseCase(notifRepo, accountUC, dispatcher)

	r := fiber.New()

	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.RealtimeServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	r.Get("/swagger/*", swagger.HandlerDefault)

	accountrouter.RegisterRoutes(r, accountapp.NewAccountHandler(accountUC))
	socialrouter.RegisterRoutes(r, socialapp.NewSocialHandler(messageUC, notificationUC))
	realtimerouter.RegisterRoutes(r, realtimeapp.NewRealtimeWebsocketHandler(registry, dispatcher, cfg.SendBuffer))

	port := ":" + cfg.Port
	log.Printf("Realtime Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
