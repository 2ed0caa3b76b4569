package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/config"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/handlers"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/middleware"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/repository"
	"github.com/lhs0609a-cpu/expert-synergy-platform/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	expertProfileRepo := repository.NewExpertProfileRepository(db)
	sessionRepo := repository.NewMentoringSessionRepository(db)

	authHandler := handlers.NewAuthHandler(db, userRepo, expertProfileRepo, cfg.JWTSecret)
	mentoringService := services.NewMentoringService(sessionRepo, userRepo, expertProfileRepo)
	mentoringHandler := handlers.NewMentoringHandler(mentoringService)
	expertHandler := handlers.NewExpertHandler(expertProfileRepo)
	userHandler := handlers.NewUserHandler(userRepo, expertProfileRepo)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	experts := api.Group("/experts")
	experts.Get("", expertHandler.ListExperts)
	experts.Get("/:id", expertHandler.GetExpert)

	mentoring := api.Group("/mentoring", middleware.AuthRequired(cfg.JWTSecret))
	mentoring.Get("", mentoringHandler.ListSessions)
	mentoring.Post("", mentoringHandler.RequestSession)
	mentoring.Get("/:id", mentoringHandler.GetSession)
	mentoring.Put("/:id/status", mentoringHandler.UpdateStatus)

	users := api.Group("/users", middleware.AuthRequired(cfg.JWTSecret))
	users.Get("", userHandler.GetCurrentUser)
	users.Patch("", userHandler.UpdateCurrentUser)
}
