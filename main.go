package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/auth"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/config"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/directory"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/handlers/api"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/handlers/web"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/letter"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/middleware"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/search"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/storage"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// Helper function to determine if request is an API request
func isAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}

	if c.Get("HX-Request") != "" {
		return true
	}

	path := c.Path()
	return len(path) >= 4 && path[:4] == "/api"
}

func main() {
	utils.Log.Info("Initializing appointment letter service...")

	// Load configuration; missing identity provider parameters are fatal
	cfg, err := config.LoadConfig("config.toml")
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Initialize i18n system
	if err := utils.InitI18n(); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
	}

	// Browser session storage
	sessionStorage, err := storage.NewFileStorage("./sessions")
	if err != nil {
		utils.Log.Error("Failed to initialize session storage: %v", err)
		os.Exit(1)
	}

	store := session.New(session.Config{
		Storage:        sessionStorage,
		Expiration:     24 * time.Hour,
		CookieSecure:   false, // Set to true in production with HTTPS
		CookieHTTPOnly: true,
	})

	// External collaborators
	directoryClient := directory.NewClient(cfg)
	identityClient := directory.NewIdentityClient(cfg)
	listing := directory.NewCache(directoryClient, cfg.ListingTTL(), cfg.Cache.Folder)

	// Session controller and search engine
	controller := auth.NewController(identityClient, directoryClient, cfg.Server.DataDir)
	engine := search.NewEngine()

	// Letter pipeline
	resolver := letter.NewResolver(&letter.FileFetcher{Dir: cfg.Assets.Dir}, cfg.Assets)
	pipeline := letter.NewPipeline(resolver, cfg.Letter.Tenure, cfg.SettleDelay())

	// Restore any persisted session off the hot path; subscribers see the
	// state settle when it completes
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		controller.Restore(ctx)
	}()

	// Warm the member listing
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := listing.Members(ctx); err != nil {
			utils.Log.Warn("Initial member listing fetch failed: %v", err)
		}
	}()

	// Initialize template engine with custom functions
	engineHTML := html.New("./templates", ".html")
	engineHTML.AddFunc("lower", strings.ToLower)
	engineHTML.AddFunc("upper", strings.ToUpper)
	engineHTML.AddFunc("trim", strings.TrimSpace)
	engineHTML.AddFunc("t", func(messageID string) string {
		return utils.T(utils.Localizer, messageID)
	})
	engineHTML.AddFunc("formatDate", func(t time.Time) string {
		return t.Format("January 2, 2006")
	})

	// Initialize Fiber with template engine
	app := fiber.New(fiber.Config{
		Views:       engineHTML,
		ViewsLayout: "layouts/main",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			if appErr, ok := err.(*utils.AppError); ok {
				code = appErr.Code
				utils.Log.Error("Application error: %v", appErr)
			} else if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			if isAPIRequest(c) {
				return c.Status(code).JSON(fiber.Map{
					"error": err.Error(),
				})
			}

			return c.Status(code).Render("error", fiber.Map{
				"Error": err.Error(),
				"Code":  code,
			})
		},
	})

	// Add global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "no-referrer",
	}))
	app.Use(middleware.LocaleMiddleware())
	app.Use(middleware.CSRFProtection(middleware.CSRFConfig{
		TokenLength:  32,
		CookieName:   "csrf_token",
		HeaderName:   "X-CSRF-Token",
		FormField:    "csrf_token",
		ContextKey:   "csrf",
		CookieMaxAge: 3600,
		Skipper: func(c *fiber.Ctx) bool {
			// The websocket upgrade has no form or header to carry a token
			return c.Path() == "/events"
		},
	}))

	// Rate limiting (100 requests per minute per IP)
	app.Use(middleware.RateLimiter(100, time.Minute))

	// Serve static assets (logos, signatures)
	app.Static("/assets", cfg.Assets.Dir, fiber.Static{
		Compress:      true,
		CacheDuration: 24 * time.Hour,
	})

	// Initialize handlers
	webAuthHandler := web.NewAuthHandler(store, cfg, controller)
	homeHandler := web.NewHomeHandler(store, cfg, listing, controller)
	letterHandler := web.NewLetterHandler(cfg, controller, engine, pipeline, webAuthHandler)
	searchHandler := api.NewSearchHandler(engine, listing, controller)
	eventsHandler := api.NewEventsHandler(controller)
	i18nHandler := &api.I18nHandler{}

	// Public routes
	app.Get("/", homeHandler.HandleHome)
	app.Get("/login", webAuthHandler.ShowLogin)
	app.Post("/login", webAuthHandler.HandleLogin)
	app.Get("/logout", webAuthHandler.HandleLogout)

	// API routes
	apiRoutes := app.Group("/api")
	{
		apiRoutes.Post("/search", searchHandler.HandleSearch)
		apiRoutes.Post("/select", searchHandler.HandleSelect)
		apiRoutes.Get("/member", searchHandler.HandleMember)
		apiRoutes.Get("/session", searchHandler.HandleSession)
		apiRoutes.Get("/i18n/:lang", i18nHandler.GetTranslations)
	}

	// Letter routes require a signed-in browser; the authorization gate is
	// then applied per request inside the handlers
	letterRoutes := app.Group("/letter", api.SessionMiddleware(store))
	{
		letterRoutes.Get("/preview", letterHandler.HandlePreview)
		letterRoutes.Get("/download", letterHandler.HandleDownload)
	}

	// Identity events pushed to open pages
	app.Get("/events", eventsHandler.Upgrade, eventsHandler.HandleEvents())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		localizer := c.Locals("localizer").(*i18n.Localizer)

		if isAPIRequest(c) {
			return c.Status(404).JSON(fiber.Map{
				"error": utils.T(localizer, "error_404"),
			})
		}
		return c.Status(404).Render("error", fiber.Map{
			"Error": utils.T(localizer, "error_404"),
			"Code":  404,
		})
	})

	// Start server
	utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		utils.Log.Error("Error starting server: %v", err)
	}
}
