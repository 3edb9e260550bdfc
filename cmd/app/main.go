package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"locate918/cmd/fx/assistant_fx"
	"locate918/internal/api/controllers"
	"locate918/pkg/middleware"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(zap.NewProduction),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),

		assistant_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, logger *zap.Logger) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("port", port))
				if err := engine.Run(":" + port); err != nil {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(assistantController *controllers.AssistantController) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, assistantController)

	return r
}

func RegisterRoutes(r *gin.Engine, assistantController *controllers.AssistantController) {
	r.GET("/", assistantController.RootHandler)
	r.GET("/health", assistantController.HealthHandler)

	api := r.Group("/api")
	api.POST("/chat", assistantController.ChatHandler)
	api.POST("/search", assistantController.ParseIntentHandler)
	// Alias kept until the consuming backend settles on one path.
	api.POST("/parse-intent", assistantController.ParseIntentHandler)
	api.POST("/normalize", assistantController.NormalizeHandler)
}
