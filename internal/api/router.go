package api

import (
	"net/http"
	"time"

	"message_board/internal/api/handler"
	"message_board/internal/api/middleware"
	"message_board/internal/app/service"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(
	userService *service.UserService,
	messageService *service.MessageService,
	superUser string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// API docs and health check
	r.Get("/", handler.Docs)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	userHandler := handler.NewUserHandler(userService)
	messageHandler := handler.NewMessageHandler(messageService, superUser)

	// Public routes: registration and the full feed
	userHandler.RegisterRoutes(r)
	messageHandler.RegisterPublicRoutes(r)

	// Protected routes: credentials are re-validated on every request
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator(userService))
		messageHandler.RegisterProtectedRoutes(protected)
	})

	return r
}
