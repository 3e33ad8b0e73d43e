package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"

	"prepstage/interview-api/internal/config"
	"prepstage/interview-api/internal/handlers"
	"prepstage/interview-api/internal/repositories"
	"prepstage/interview-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize media staging
	stagingService := services.NewStagingService(cfg.Media.WorkDir)
	if err := stagingService.EnsureWorkDir(); err != nil {
		log.Fatalf("❌ Failed to create media work directory: %v", err)
	}

	mediaService := services.NewMediaService(cfg.Media.FFmpegPath, cfg.Media.FrameRate)
	pdfParser := services.NewPDFParserService()
	log.Println("✅ Media services initialized successfully")

	// Initialize Gemini AI. The client is created once here and shared by
	// every request.
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize candidate index
	candidateIndex, err := services.NewCandidateIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := candidateIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize scoring services
	resumeMatcher := services.NewResumeMatcher(geminiService)
	questionGenerator := services.NewQuestionGenerator(geminiService)
	emotionScorer := services.NewEmotionScorer(
		stagingService,
		mediaService,
		services.NewHTTPEmotionClassifier(cfg.Emotion.URL),
	)
	transcriber := services.NewTranscriber(
		stagingService,
		mediaService,
		services.NewHTTPSpeechRecognizer(cfg.Speech.URL, cfg.Speech.APIKey),
	)
	similarityScorer := services.NewSimilarityScorer()

	evaluator := services.NewEvaluatorService(
		interviewRepo,
		emotionScorer,
		transcriber,
		similarityScorer,
	)
	log.Println("✅ Scoring pipeline initialized")

	// Session store for the GitHub login
	store := session.New(session.Config{
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
	})

	oauthService := services.NewGitHubOAuthService(
		cfg.GitHub.ClientID,
		cfg.GitHub.ClientSecret,
		cfg.GitHub.RedirectURL,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, oauthService, store)
	interviewHandler := handlers.NewInterviewHandler(
		interviewRepo,
		userRepo,
		pdfParser,
		resumeMatcher,
		questionGenerator,
		candidateIndex,
		geminiService,
		cfg.Storage.MaxResumeSize,
	)
	answerHandler := handlers.NewAnswerHandler(evaluator)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Mock Interview API",
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Media.MaxVideoSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Health check
	app.Get("/api/v1/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/home", fiber.StatusFound)
	})

	// Login exchange
	app.Get("/login/github", authHandler.HandleLogin)
	app.Get("/login/callback", authHandler.HandleCallback)

	// Authenticated routes
	app.Get("/home", authHandler.RequireAuth, interviewHandler.HandleHome)
	app.Post("/home", authHandler.RequireAuth, interviewHandler.HandleScreen)
	app.Get("/questions/:interview_id", authHandler.RequireAuth, interviewHandler.HandleQuestions)
	app.Post("/record_answer/:interview_id", authHandler.RequireAuth, answerHandler.HandleRecordAnswer)
	app.Get("/interviews/:interview_id/similar", authHandler.RequireAuth, interviewHandler.HandleSimilar)
	app.Get("/logout", authHandler.RequireAuth, authHandler.HandleLogout)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
