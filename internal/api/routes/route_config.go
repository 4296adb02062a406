package routes

import (
	"FreshTrack/internal/api/handlers"
	"FreshTrack/internal/metrics"
	"FreshTrack/internal/middleware"
	"FreshTrack/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	FoodHandler     handlers.FoodHandler
	ReminderHandler handlers.ReminderHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.FoodItems()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/signup", c.UserHandler.SignUp)
		user.Post("/signin", c.UserHandler.SignIn)
		user.Get("/signout", c.UserHandler.SignOut)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong, its works. test"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func (c *Config) FoodItems() {
	foods := c.App.Group("/api/v1/foods")
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	// shared inventory, readable by everyone
	foods.Get("/get-all-foods", c.FoodHandler.GetFoodItems)
	foods.Get("/get-single-food/:id", c.FoodHandler.GetFoodItemDetails)

	// owner operations
	foods.Get("/my-food-items", auth, c.FoodHandler.GetMyFoodItems)
	foods.Get("/stats", auth, c.FoodHandler.GetInventoryStats)
	foods.Post("/create-food", auth, c.FoodHandler.CreateFoodItem)
	foods.Put("/update-food/:id", auth, c.FoodHandler.UpdateFoodItem)
	foods.Delete("/delete-food/:id", auth, c.FoodHandler.DeleteFoodItem)
	foods.Patch("/add-note/:id", auth, c.FoodHandler.AddNote)
	foods.Post("/upload-image/:id", auth, c.FoodHandler.UploadFoodImage)
	foods.Post("/reminders", auth, c.ReminderHandler.SendExpiryReminder)
}
