package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/middleware"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/realtime"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/account"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/lifecycle"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/wallet"
)

type Deps struct {
	Gate      *auth.Gate
	Accounts  *account.Service
	Lifecycle *lifecycle.Controller
	Wallet    *wallet.WalletService
	Hub       *realtime.Hub
	Google    *GoogleOAuthHandler

	// comma separated
	CORSOrigins string
}

func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "taskmarket",
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(d.CORSOrigins),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	authH := NewAuthHandler(d.Accounts, d.Gate)
	taskH := NewTaskHandler(d.Gate, d.Lifecycle)
	proposalH := NewProposalHandler(d.Gate, d.Lifecycle)
	reviewH := NewReviewHandler(d.Gate, d.Lifecycle)
	walletH := NewWalletHandler(d.Gate, d.Wallet)
	locationH := NewLocationHandler(d.Lifecycle)
	googleH := d.Google
	if googleH == nil {
		googleH = &GoogleOAuthHandler{Accounts: d.Accounts}
	}

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return ok(c, fiber.StatusOK, "ok", nil)
	})

	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Get("/auth/me", authH.Me)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	api.Get("/tasks", taskH.List)
	api.Post("/tasks", taskH.Create)
	api.Get("/tasks/:id", taskH.Get)
	api.Put("/tasks/:id", taskH.Update)
	api.Delete("/tasks/:id", taskH.Delete)
	api.Put("/tasks/:id/start", taskH.Start)
	api.Put("/tasks/:id/cancel", taskH.Cancel)

	api.Post("/proposals", proposalH.Create)
	api.Get("/proposals/my", proposalH.ListMine)
	api.Get("/proposals/task/:taskId", proposalH.ListForTask)
	api.Put("/proposals/:id/accept", proposalH.Accept())
	api.Put("/proposals/:id/reject", proposalH.Reject())
	api.Put("/proposals/:id/cancel", proposalH.Cancel())

	api.Post("/reviews", reviewH.Create)
	api.Put("/reviews/task/:taskId/complete", reviewH.CompleteTask)
	api.Get("/reviews/user/:userId", reviewH.ListForUser)

	api.Get("/wallet/transactions", walletH.Transactions)
	api.Get("/locations/cities", locationH.GetCities)

	if d.Hub != nil {
		notifH := NewNotificationHandler(d.Gate, d.Hub)
		api.Get("/ws/notifications", notifH.Upgrade, notifH.Stream())
	}

	return app
}

func normalizeOrigins(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}
