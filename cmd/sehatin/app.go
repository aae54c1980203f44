package main

import (
	"context"

	"github.com/RamaAlqdri/sehatin/config"
	"github.com/RamaAlqdri/sehatin/controllers"
	"github.com/RamaAlqdri/sehatin/logger"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/routes"
	"github.com/RamaAlqdri/sehatin/services"
	"github.com/RamaAlqdri/sehatin/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired services for one process.
type app struct {
	cfg   *config.Config
	db    *gorm.DB
	store *repository.Store
	clock utils.Clock

	hub        *services.RealtimeHub
	push       *services.PushService
	auth       *services.AuthService
	google     *services.GoogleOAuth
	users      *services.UserService
	foods      *services.FoodService
	history    *services.HistoryService
	schedules  *services.ScheduleService
	water      *services.WaterService
	messages   *services.MessageService
	bot        *services.BotService
	nutrition  *services.NutritionAggregator
	hydration  *services.HydrationAggregator
	completion *services.CompletionScorer
	weight     *services.WeightProgressScorer

	closers []func() error
}

// newApp loads config, opens and migrates the database, and builds every
// service. Optional integrations are skipped with a warning when their
// configuration is missing.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := config.OpenDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: db, store: repository.NewStore(db), clock: cfg.Clock()}
	a.hub = services.NewRealtimeHub()

	var (
		mailer   services.Mailer = utils.LogMailer{}
		uploader services.ImageUploader
		labels   services.LabelDetector
		pusher   services.Pusher
	)
	if cfg.AWSEnabled() {
		awsCfg, err := config.LoadAWS(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		if cfg.AWS.SESEmail != "" {
			mailer = utils.NewSESMailer(awsCfg, cfg.AWS.SESEmail)
		}
		if cfg.AWS.S3Bucket != "" {
			uploader = utils.NewS3Uploader(awsCfg, cfg.AWS.S3Bucket, cfg.AWS.CloudFrontURL)
		}
		labels = utils.NewLabelDetector(awsCfg)
		if cfg.AWS.SNSFCMArn != "" {
			a.push = services.NewPushService(a.store.Devices, awsCfg, cfg.AWS.SNSFCMArn)
			pusher = a.push
		}
	} else {
		logger.Warn("AWS_REGION not set: mail is logged, image upload, recognition and push are disabled")
	}
	notifier := services.NewNotifier(a.hub, pusher)

	var gen services.Generator
	if cfg.Gemini.APIKey != "" {
		gemini, err := services.NewGeminiBot(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		gen = gemini
		a.closers = append(a.closers, gemini.Close)
	} else {
		logger.Warn("GEMINI_API_KEY not set: using canned bot replies")
	}

	if cfg.GoogleEnabled() {
		a.google = services.NewGoogleOAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL)
	}

	s := a.store
	a.auth = services.NewAuthService(s, mailer, services.TokenConfig{
		Secret:       cfg.Auth.JWTSecret,
		TTL:          cfg.Auth.JWTTTL,
		ForgotSecret: cfg.Auth.ForgotJWTSecret,
		ForgotTTL:    cfg.Auth.ForgotJWTTTL,
		OTPTTL:       cfg.Auth.OTPTTL,
	}, a.clock)
	a.users = services.NewUserService(s, a.clock)
	a.foods = services.NewFoodService(s.Foods, uploader, labels)
	a.history = services.NewHistoryService(s, a.clock, notifier)
	a.schedules = services.NewScheduleService(s, a.clock, notifier)
	a.water = services.NewWaterService(s.Water, s.Users, a.clock, notifier)
	a.bot = services.NewBotService(gen)
	a.messages = services.NewMessageService(s.Messages, s.Users, a.bot, notifier, a.clock)
	a.nutrition = services.NewNutritionAggregator(s.History, s.Schedules, a.clock, utils.LookupLocale(cfg.Locale))
	a.hydration = services.NewHydrationAggregator(s.Water, s.Schedules, a.clock)
	a.completion = services.NewCompletionScorer(s.Schedules)
	a.weight = services.NewWeightProgressScorer(s.Users, s.Users)
	return a, nil
}

func (a *app) handlers() routes.Handlers {
	return routes.Handlers{
		JWTSecret:       a.cfg.Auth.JWTSecret,
		ForgotJWTSecret: a.cfg.Auth.ForgotJWTSecret,

		Auth:    controllers.NewAuthController(a.auth, a.google),
		User:    controllers.NewUserController(a.users, a.clock),
		Food:    controllers.NewFoodController(a.foods),
		History: controllers.NewHistoryController(a.history, a.nutrition, a.clock),
		Schedule: &controllers.ScheduleController{
			Schedules:  a.schedules,
			Water:      a.water,
			History:    a.history,
			Nutrition:  a.nutrition,
			Hydration:  a.hydration,
			Completion: a.completion,
			Weight:     a.weight,
			Clock:      a.clock,
		},
		Message:  controllers.NewMessageController(a.messages, a.bot),
		Device:   controllers.NewDeviceController(a.push, a.store.Devices),
		Realtime: controllers.NewRealtimeController(a.hub, a.cfg.CORSOrigins),
	}
}

func (a *app) Close() {
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
