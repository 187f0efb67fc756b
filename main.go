package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memberportal/config"
	"memberportal/cron"
	"memberportal/database"
	applicationRepo "memberportal/database/repository/application"
	contentRepo "memberportal/database/repository/content"
	donationRepo "memberportal/database/repository/donation"
	settingsRepo "memberportal/database/repository/settings"
	userRepoPkg "memberportal/database/repository/user"
	"memberportal/handlers"
	"memberportal/middleware"
	"memberportal/models"
	"memberportal/routes"
	"memberportal/services/applications"
	"memberportal/services/content"
	"memberportal/services/donation"
	"memberportal/services/mail"
	"memberportal/services/media"
	"memberportal/services/notification"
	"memberportal/services/session"
	"memberportal/services/settings"
	"memberportal/services/social"
	"memberportal/services/storage"
	"memberportal/services/user"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.AppConfig.JWTSecret != "" {
		utils.SetJWTSecret(config.AppConfig.JWTSecret)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.InitDB(rootCtx)
	if err != nil {
		logger.Fatal("main: failed to initialize database", zap.Error(err))
	}
	utils.InitRedis()

	var fb *utils.FirebaseClients
	if config.FirebaseEnabled() {
		fb, err = utils.FirebaseInit(rootCtx)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase", zap.Error(err))
		}
	} else {
		logger.Info("Firebase not configured; hosted sign-in and pushes disabled")
	}

	// repositories.
	users, err := userRepoPkg.NewMongoUserRepo(rootCtx, db)
	if err != nil {
		logger.Fatal("main: failed to prepare users collection", zap.Error(err))
	}
	appRepos, err := applicationRepo.NewAll(rootCtx, db)
	if err != nil {
		logger.Fatal("main: failed to prepare application collections", zap.Error(err))
	}
	donations, err := donationRepo.NewMongoDonationRepo(rootCtx, db)
	if err != nil {
		logger.Fatal("main: failed to prepare donations collection", zap.Error(err))
	}
	socialPosts := contentRepo.NewMongoSocialStore(db)
	programs := contentRepo.NewMongoStore[models.Program](db, contentRepo.ProgramsCollection)
	events := contentRepo.NewMongoStore[models.Event](db, contentRepo.EventsCollection)
	opportunities := contentRepo.NewMongoStore[models.Opportunity](db, contentRepo.OpportunitiesCollection)
	gallery := contentRepo.NewMongoStore[models.GalleryImage](db, contentRepo.GalleryCollection)
	if err := contentRepo.PrepareAll(rootCtx, programs, events, opportunities, gallery, socialPosts); err != nil {
		logger.Fatal("main: failed to prepare content collections", zap.Error(err))
	}

	// sessions.
	broker := session.NewBroker(utils.GetCacheClient())
	go broker.Run(rootCtx)
	tokenAuth := session.NewTokenAuthContext(users, utils.GetAuthCacheClient(), broker)
	authContext := session.WithDemoAdmin(tokenAuth, config.DemoAdminAllowed())

	// services.
	settingsService := settings.NewService(settingsRepo.NewMongoSettingsRepo(db), utils.GetCacheClient())

	var mailSender mail.Sender
	if config.AppConfig.ResendAPIKey != "" {
		mailSender = mail.NewResendSender(config.AppConfig.ResendAPIKey, config.AppConfig.MailFrom)
	}
	mailService := mail.NewService(mailSender, func() string {
		return settingsService.Current(context.Background()).AppName
	})

	var pushSender notification.Sender
	if fb != nil {
		pushSender = fb.Messaging
	}
	notificationService := notification.NewService(pushSender)

	userService := &user.DefaultUserService{
		Repo:     users,
		Mailer:   mailService,
		Tokens:   tokenAuth,
		Broker:   broker,
		TokenTTL: config.AppConfig.SessionTTL,
		ResetURL: config.AppConfig.PublicBaseURL + session.PathSignIn,
	}
	if fb != nil {
		userService.Hosted = fb.Auth
	}

	contentService := content.NewService(content.Stores{
		Programs:      programs,
		Events:        events,
		Opportunities: opportunities,
		Gallery:       gallery,
		Social:        socialPosts,
		Applications:  appRepos,
	})

	applicationService := applications.NewService(appRepos)
	applicationService.Users = userService
	applicationService.Notifier = notificationService
	applicationService.Mailer = mailService

	var gateway donation.Gateway
	if config.AppConfig.StripeSecretKey != "" {
		gateway = donation.NewStripeGateway(config.AppConfig.StripeSecretKey, config.AppConfig.StripeWebhookSecret)
	} else {
		logger.Info("Stripe not configured; donations disabled")
	}
	donationService := donation.NewService(donations, gateway,
		config.AppConfig.DonationCurrency, config.AppConfig.StripePublishableKey, config.AppConfig.MaxDonationMinor)

	var uploader *media.Uploader
	blobs, err := storage.NewFromConfig(rootCtx)
	switch {
	case errors.Is(err, storage.ErrNoBackend):
		logger.Info("Image storage not configured; gallery uploads disabled")
	case err != nil:
		logger.Fatal("main: failed to initialize image storage", zap.Error(err))
	default:
		uploader = media.NewUploader(blobs, config.AppConfig.UploadConcurrency)
	}

	// background work.
	queue := cron.NewClient()
	defer queue.Close()
	socialService := social.NewService(socialPosts, contentService.Social, queue, social.NewHTTPFetcher())
	worker := cron.NewWorker(socialService)
	worker.Start(rootCtx)

	utils.StartHealthMonitor(rootCtx,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(handlers.Services{
		AuthContext:  authContext,
		Users:        userService,
		Content:      contentService,
		Applications: applicationService,
		Donations:    donationService,
		Settings:     settingsService,
		Social:       socialService,
		Uploader:     uploader,
		Blobs:        blobs,
	})
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", config.GetEnv()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	stop()
	utils.CloseRedis()
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
