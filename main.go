package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cyberquest-backend/ai"
	"cyberquest-backend/handlers"
	"cyberquest-backend/middleware"
	"cyberquest-backend/models"
	"cyberquest-backend/services"
	"cyberquest-backend/utils"
	"cyberquest-backend/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // multipart icon/artwork uploads
	})

	// 🔐 GLOBAL: only Gateway requests allowed, webhook + public verify excepted
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles, svix-id, svix-timestamp, svix-signature",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Level{},
		&models.Activity{},
		&models.UserProgress{},
		&models.ActivityProgress{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Certificate{},
		&models.IndustryInsight{},
		&models.CareerDocument{},
		&models.InterviewSession{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedDefaultAchievements(db); err != nil {
		log.Fatal("failed to seed achievements:", err)
	}

	r2Enabled, err := utils.InitR2()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}
	if !r2Enabled {
		log.Println("⚠️  R2 not configured — admin icon/artwork uploads disabled")
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	} else {
		log.Println("⚠️  REDIS_ADDR not set — leaderboard served from the database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}
	aiClient, err := ai.NewClient(ctx, geminiAPIKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Fatal("failed to initialize AI client:", err)
	}

	achievementService := services.NewAchievementService(db)
	leaderboardService := services.NewLeaderboardService(db, rdb)
	userService := services.NewUserService(db, achievementService, leaderboardService)
	catalogService := services.NewCatalogService(db)
	progressService := services.NewProgressService(db, achievementService, leaderboardService)
	certificateService := services.NewCertificateService(db)
	careerService := services.NewCareerService(db, aiClient)
	interviewService := services.NewInterviewService(db, aiClient)

	if rdb != nil {
		rebuildWorker := workers.NewLeaderboardRebuildWorker(leaderboardService, 5*time.Minute)
		rebuildWorker.Start(ctx)
	}

	services.StartMaintenanceScheduler(progressService, careerService)

	// Public surface: webhook + certificate verification
	handlers.SetupWebhookRoutes(app, userService)
	public := app.Group("/api")
	handlers.SetupPublicCertificateRoutes(public, certificateService)

	// Authenticated surface
	api := app.Group("/api", middleware.UserContextMiddleware(userService))
	handlers.SetupUserRoutes(api, userService)
	handlers.SetupCatalogRoutes(api, catalogService)
	handlers.SetupProgressRoutes(api, progressService)
	handlers.SetupAchievementRoutes(api, achievementService)
	handlers.SetupCertificateRoutes(api, certificateService)
	handlers.SetupLeaderboardRoutes(api, leaderboardService)
	handlers.SetupCareerRoutes(api, careerService)
	handlers.SetupInterviewRoutes(api, interviewService)

	admin := api.Group("/admin", middleware.RequireRole("admin"))
	handlers.SetupAdminRoutes(admin, catalogService, achievementService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Maintenance scheduler running (progress repair + insight refresh)")
	log.Println("✅ GatewayAuthMiddleware enforced — webhook and certificate verification public")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
