package config

import (
	"FreshTrack/internal/api/handlers"
	"FreshTrack/internal/api/routes"
	"FreshTrack/internal/metrics"
	"FreshTrack/internal/middleware"
	"FreshTrack/internal/utils"
	"FreshTrack/internal/utils/mailing"
	"FreshTrack/internal/utils/storage"
	"FreshTrack/pkg/cache"
	"FreshTrack/pkg/food"
	"FreshTrack/pkg/jwt"
	"FreshTrack/pkg/reminder"
	"FreshTrack/pkg/user"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB, pageCache cache.Cache) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName:           "FreshTrack",
		EnablePrintRoutes: true,
		BodyLimit:         8 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))
	app.Use(metrics.Middleware())
	if err := metrics.RegisterCacheStats(pageCache); err != nil {
		return nil, err
	}

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics"
		},
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewMailer(mailing.LoadMailConfig())

	// Repository
	userRepository := user.NewUserRepository(db)
	foodRepository := food.NewFoodRepository(db)

	// Service
	jwtService, err := jwt.NewJWTService()
	if err != nil {
		return nil, err
	}
	userService := user.NewUserService(userRepository, jwtService)
	foodService := food.NewFoodService(foodRepository, s3, pageCache)
	reminderService := reminder.NewReminderService(foodRepository, mailer, utils.GetConfig("APP_URL"))

	// Handler
	secureCookie := strings.HasPrefix(utils.GetConfig("APP_URL"), "https://")
	userHandler := handlers.NewUserHandler(userService, validator, jwtService, secureCookie)
	foodHandler := handlers.NewFoodHandler(foodService, validator)
	reminderHandler := handlers.NewReminderHandler(reminderService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		FoodHandler:     foodHandler,
		ReminderHandler: reminderHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
