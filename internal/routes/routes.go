package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Accounts *handlers.AccountHandler
	Users    *handlers.UserHandler
	Orders   *handlers.OrderHandler
	Products *handlers.ProductHandler
	Contacts *handlers.ContactHandler
	Sliders  *handlers.SliderHandler
	Uploads  *handlers.UploadHandler
}

// rateLimit counts per IP under its own scope so limiters sharing a storage
// never read each other's counters.
func rateLimit(scope string, max int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return scope + ":" + c.IP() },
		Storage:           storage,
	})
}

// Setup registers every route. limitStore may be nil for in-memory rate limiting.
func Setup(app *fiber.App, cfg *config.Config, h Handlers, limitStore fiber.Storage) {
	if cfg.UsesLocalStorage() {
		app.Static(cfg.UploadURLPrefix, cfg.UploadDir)
	}

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(rateLimit("api", 60, limitStore))

	// Stricter limit for credential and OTP endpoints: 10 req/min per IP
	strict := rateLimit("auth", 10, limitStore)

	protected := middleware.JWTProtected(cfg)
	admin := middleware.AdminRequired()

	api.Get("/health", h.Health.Check)

	api.Post("/admin/login", strict, h.Accounts.AdminLogin)

	users := api.Group("/users")
	users.Post("/register", strict, h.Accounts.Register)
	users.Post("/verify-otp", strict, h.Accounts.VerifyOTP)
	users.Post("/resend-otp", strict, h.Accounts.ResendOTP)
	users.Post("/forgot-password", strict, h.Accounts.ForgotPassword)
	users.Post("/reset-password", strict, h.Accounts.ResetPassword)
	users.Post("/login", strict, h.Accounts.Login)
	users.Post("/change-password", protected, h.Accounts.ChangePassword)
	users.Get("/me", protected, h.Accounts.Me)
	users.Get("/", protected, admin, h.Users.List)
	users.Get("/stats", protected, admin, h.Users.Stats)
	users.Get("/:id", protected, h.Users.Get)
	users.Put("/:id", protected, h.Users.Update)
	users.Delete("/:id", protected, admin, h.Users.Delete)
	users.Patch("/:id/toggle-status", protected, admin, h.Users.ToggleStatus)

	contact := api.Group("/contact")
	contact.Post("/", h.Contacts.Submit)
	contact.Get("/", protected, admin, h.Contacts.List)
	contact.Get("/stats", protected, admin, h.Contacts.Stats)
	contact.Get("/:id", protected, admin, h.Contacts.Get)
	contact.Patch("/:id/status", protected, admin, h.Contacts.UpdateStatus)
	contact.Patch("/:id/reply", protected, admin, h.Contacts.Reply)
	contact.Patch("/:id/notes", protected, admin, h.Contacts.UpdateNotes)
	contact.Delete("/:id", protected, admin, h.Contacts.Delete)

	orders := api.Group("/orders", protected)
	orders.Post("/", h.Orders.Create)
	orders.Get("/", admin, h.Orders.List)
	orders.Get("/stats", admin, h.Orders.Stats)
	orders.Get("/my-orders", h.Orders.MyOrders)
	orders.Get("/user/:userId", h.Orders.UserOrders)
	orders.Get("/:id", h.Orders.Get)
	orders.Patch("/:id/status", admin, h.Orders.UpdateStatus)
	orders.Patch("/:id/payment", admin, h.Orders.UpdatePayment)
	orders.Delete("/:id", admin, h.Orders.Delete)

	products := api.Group("/products")
	products.Get("/", h.Products.List)
	products.Get("/:id", h.Products.Get)
	products.Post("/", protected, admin, h.Products.Create)
	products.Post("/admin", protected, admin, h.Products.Create)
	products.Post("/bulk", protected, admin, h.Products.CreateBulk)
	products.Put("/:id", protected, admin, h.Products.Update)
	products.Delete("/:id", protected, admin, h.Products.Delete)

	sliders := api.Group("/sliders")
	sliders.Get("/", h.Sliders.List)
	sliders.Get("/:id", h.Sliders.Get)
	sliders.Post("/", protected, admin, h.Sliders.Create)
	sliders.Put("/:id", protected, admin, h.Sliders.Update)
	sliders.Delete("/:id", protected, admin, h.Sliders.Delete)

	upload := api.Group("/upload", protected, admin)
	upload.Post("/image", h.Uploads.Image)
	upload.Post("/images", h.Uploads.Images)
}
