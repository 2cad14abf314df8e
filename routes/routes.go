package routes

import (
	"net/http"

	"github.com/Davidshtp/chess-tournaments/handlers"
	"github.com/Davidshtp/chess-tournaments/middleware"
	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Tournament *handlers.TournamentHandler
	Instance   *handlers.InstanceHandler
	Enrollment *handlers.EnrollmentHandler
	Payment    *handlers.PaymentHandler
}

func SetupRoutes(h Handlers, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	organizerOnly := middleware.RequireRole(models.RoleOrganizer)
	playerOnly := middleware.RequireRole(models.RolePlayer)

	router.Post("/auth/players/signup", h.Auth.RegisterPlayer)
	router.Post("/auth/organizers/signup", h.Auth.RegisterOrganizer)
	router.Post("/auth/login", h.Auth.Login)

	router.Route("/users/me", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", h.User.GetMe)
		r.Post("/photo", h.User.UploadPhoto)
		r.Delete("/photo", h.User.DeletePhoto)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/{tournamentID}", h.Tournament.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Post("/", h.Tournament.Create)
		})
	})

	router.Route("/tournament-instances", func(r chi.Router) {
		// Просмотр афиши открыт всем
		r.Get("/", h.Instance.List)
		r.Get("/{instanceID}", h.Instance.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Post("/", h.Instance.Create)
			r.Patch("/{instanceID}", h.Instance.Update)
			r.Delete("/{instanceID}", h.Instance.Delete)
			r.Get("/{instanceID}/roster", h.Instance.Roster)
		})
	})

	router.Route("/players/{playerID}/enrollments", func(r chi.Router) {
		r.Use(authenticate, playerOnly)
		r.Post("/", h.Enrollment.Register)
		r.Get("/", h.Enrollment.List)
	})

	router.Route("/enrollments/{enrollmentID}", func(r chi.Router) {
		r.Use(authenticate)
		r.Group(func(r chi.Router) {
			r.Use(playerOnly)
			r.Delete("/", h.Enrollment.Cancel)
		})
		r.Get("/payment", h.Payment.GetByEnrollment)
	})

	router.Route("/payments", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/{paymentID}", h.Payment.GetByID)
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return router
}
