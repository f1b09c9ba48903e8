package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/config"
	"github.com/bus-eta-service/internal/delivery/http/handler"
	"github.com/bus-eta-service/internal/delivery/http/middleware"
	"github.com/bus-eta-service/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	routeHandler    *handler.RouteHandler
	stopHandler     *handler.StopHandler
	favoriteHandler *handler.FavoriteHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	routeHandler *handler.RouteHandler,
	stopHandler *handler.StopHandler,
	favoriteHandler *handler.FavoriteHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Bus ETA Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		routeHandler:    routeHandler,
		stopHandler:     stopHandler,
		favoriteHandler: favoriteHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Routes
	api.Get("/routes", s.routeHandler.ListRoutes)
	api.Get("/routes/:route_id/eta", s.routeHandler.RouteEta)
	api.Get("/routes/:route_id/:direction/:service_type/stops", s.routeHandler.ListStops)

	// Stops
	api.Get("/stops/:stop_id", s.stopHandler.GetStop)
	api.Get("/stops/:stop_id/eta", s.stopHandler.StopEta)

	// Favorites
	api.Get("/favorites", s.favoriteHandler.List)
	api.Post("/favorites", s.favoriteHandler.Add)
	api.Delete("/favorites", s.favoriteHandler.Remove)
	api.Post("/favorites/toggle", s.favoriteHandler.Toggle)
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, дошедшие до fiber, в формате utils.ErrorResponse
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !stderrors.As(err, &fe) {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return utils.SendError(c, err)
	}
}
