package main

import (
	"context"
	"log"

	"purchase-service/config"
	"purchase-service/controllers"
	"purchase-service/database"
	"purchase-service/models"
	"purchase-service/pkg/awsx"
	"purchase-service/pkg/logger"
	"purchase-service/repository"
	"purchase-service/routes"
	"purchase-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[PurchaseService] Failed to load config:", err)
	}

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("[PurchaseService] Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	db, err := database.ConnectPostgres(cfg, zapLogger,
		&models.Purchase{},
		&models.PayoutAccount{},
	)
	if err != nil {
		zapLogger.Fatal("Failed to connect to DB", zap.Error(err))
	}

	purchaseRepo := repository.NewGormPurchaseRepo(db)
	scholarRepo := repository.NewGormScholarRepo(db)
	payoutRepo := repository.NewGormPayoutAccountRepo(db)

	catalogRepo := repository.NewGormCatalogRepo(db)
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(cfg.RedisURL, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		catalogRepo = repository.NewCachedCatalogRepo(catalogRepo, rdb, zapLogger)
	}

	var snsClient awsx.SNSPublisher
	if cfg.PurchaseSNSTopicARN != "" {
		awsCfg, err := awsx.LoadAWSConfig(context.Background())
		if err != nil {
			zapLogger.Fatal("Failed to load AWS config", zap.Error(err))
		}
		snsClient = awsx.NewSNSClient(awsCfg)
	} else {
		zapLogger.Warn("PURCHASE_SNS_TOPIC_ARN not set, purchase events disabled")
	}

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	purchaseSvc := services.NewPurchaseService(
		purchaseRepo,
		catalogRepo,
		scholarRepo,
		payoutRepo,
		stripeSvc,
		snsClient,
		services.Options{
			Currency:                cfg.Currency,
			PlatformFeePercent:      cfg.PlatformFeePercent,
			DefaultBundlePriceCents: cfg.DefaultBundlePriceCents,
			FrontendURL:             cfg.FrontendURL,
			PurchaseTopicARN:        cfg.PurchaseSNSTopicARN,
		},
		zapLogger,
	)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zapLogger))

	pc := &controllers.PurchaseController{
		Service: purchaseSvc,
		Stripe:  stripeSvc,
		Logger:  zapLogger,
	}
	cc := &controllers.ConnectController{
		Accounts: payoutRepo,
		Logger:   zapLogger,
	}
	routes.RegisterRoutes(r, pc, cc, cfg.JWTSecret)

	zapLogger.Info("PurchaseService running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Server failed", zap.Error(err))
	}
}
