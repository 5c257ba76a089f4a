package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hoodie-academy-service/cache"
	"hoodie-academy-service/handlers"
	"hoodie-academy-service/middleware"
	"hoodie-academy-service/models"
	"hoodie-academy-service/services"
	"hoodie-academy-service/utils"
	"hoodie-academy-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // submission images
	})

	// 🔐 GLOBAL: only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Wallet-Address",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Squad{},
		&models.Course{},
		&models.CourseProgress{},
		&models.CourseCompletion{},
		&models.Bounty{},
		&models.BountySubmission{},
		&models.Exam{},
		&models.ExamSubmission{},
		&models.XPEvent{},
		&models.ActivityLog{},
		&models.DailyClaim{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Redis is optional: the leaderboard and progress cache fall back to
	// Postgres when it is unreachable.
	var redisClient *cache.Client
	redisClient, err = cache.NewClient(cache.LoadConfigFromEnv())
	if err != nil {
		log.Printf("⚠️  Redis unavailable, running without cache: %v", err)
		redisClient = nil
	}

	userService := services.NewUserService(db)
	xpService := services.NewXPService(db, redisClient)
	squadService := services.NewSquadService(db)
	courseService := services.NewCourseService(db)
	progressService := services.NewProgressService(db, redisClient)
	examService := services.NewExamService(db, redisClient)
	bountyService := services.NewBountyService(db, redisClient)
	leaderboardService := services.NewLeaderboardService(db, redisClient)
	activityService := services.NewActivityService(db)

	if err := squadService.SeedSquads(); err != nil {
		log.Fatal("failed to seed squads:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if redisClient != nil {
		go workers.PollLeaderboard(ctx, leaderboardService, 5*time.Minute)
	}

	courseService.StartPublishScheduler()

	handlers.SetupSquadRoutes(app, squadService, userService)
	handlers.SetupUserRoutes(app, userService, xpService, courseService)
	handlers.SetupCourseRoutes(app, courseService, progressService, userService)
	handlers.SetupExamRoutes(app, examService, userService)
	handlers.SetupBountyRoutes(app, bountyService, userService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService, userService)
	handlers.SetupAdminRoutes(app, handlers.AdminServices{
		Users:    userService,
		XP:       xpService,
		Squads:   squadService,
		Courses:  courseService,
		Progress: progressService,
		Exams:    examService,
		Bounties: bountyService,
		Activity: activityService,
	})

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Content publish scheduler running (every 1m)")
	if redisClient != nil {
		log.Println("✅ Leaderboard cache rebuild running (every 5m)")
	}
	log.Println("✅ GatewayAuthMiddleware enforced globally, all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
