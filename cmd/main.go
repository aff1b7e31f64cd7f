package main

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Dunnarts/config"
	"github.com/lshigami/Dunnarts/database"
	_ "github.com/lshigami/Dunnarts/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lshigami/Dunnarts/internal/controller/admin"
	userctrl "github.com/lshigami/Dunnarts/internal/controller/user"
	"github.com/lshigami/Dunnarts/internal/logger"
	"github.com/lshigami/Dunnarts/internal/model"
	"github.com/lshigami/Dunnarts/internal/repository"
	"github.com/lshigami/Dunnarts/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Module Assessment API
// @version 1.0
// @description Assessment engine for LMS modules: attempt lifecycle, difficulty-balanced question selection, scoring with a configurable pass threshold, and question authoring.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewRandSource,
		),

		// Repositories layer
		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
		),

		// Services layer
		fx.Provide(
			service.NewSelectorService,
			service.NewScorerService,
			service.NewAttemptService,
			service.NewQuestionGenService,
			service.NewQuestionService,
		),

		// API controllers layer
		fx.Provide(
			userctrl.NewAssessmentController,
			adminctrl.NewAdminQuestionController,
		),

		fx.Invoke(MigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

// NewRandSource seeds the selector's randomness. Tests construct their own
// source with a fixed seed instead.
func NewRandSource() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	assessmentCtrl *userctrl.AssessmentController,
	adminQuestionCtrl *adminctrl.AdminQuestionController,
) {
	// Admin routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/modules/:module_id/questions", adminQuestionCtrl.CreateQuestions)
		adminAPIGroup.POST("/modules/:module_id/questions/generate", adminQuestionCtrl.GenerateQuestions)
		adminAPIGroup.GET("/modules/:module_id/questions", adminQuestionCtrl.ListQuestions)
		adminAPIGroup.DELETE("/questions/:question_id", adminQuestionCtrl.DeleteQuestion)
	}

	// User routes (prefixed with /api/v1)
	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/modules/:module_id/assessment/availability", assessmentCtrl.GetAvailability)
		userAPIGroup.POST("/modules/:module_id/attempts", assessmentCtrl.StartAttempt)
		userAPIGroup.POST("/modules/:module_id/attempts/retake", assessmentCtrl.RetakeAttempt)
		userAPIGroup.GET("/modules/:module_id/my-attempts", assessmentCtrl.GetMyAttempts)
		userAPIGroup.PUT("/attempts/:attempt_id/answers", assessmentCtrl.RecordAnswer)
		userAPIGroup.POST("/attempts/:attempt_id/submit", assessmentCtrl.SubmitAttempt)
		userAPIGroup.GET("/attempts/:attempt_id", assessmentCtrl.GetAttemptDetails)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Module Assessment API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func MigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Question{},
		&model.Attempt{},
		&model.AttemptQuestion{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}

	// Serializes concurrent starts: at most one in_progress attempt per
	// (module_id, user_id). AutoMigrate cannot express a partial index.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_attempts_one_active
		ON attempts (module_id, user_id)
		WHERE status = 'in_progress' AND deleted_at IS NULL`).Error
	if err != nil {
		log.Error().Err(err).Msg("Failed to create active-attempt unique index")
		return err
	}

	log.Info().Msg("Database migration completed successfully.")
	return nil
}
