package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	appmw "adriarent/internal/middleware"
	httprouters "adriarent/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
	secret  string
}

func New(log *slog.Logger, secret string, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
		secret:  secret,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.e.Group("/api/v1")
	{
		api.POST("/register", s.routers.Register)
		api.POST("/login", s.routers.Login)
		api.POST("/refresh", s.routers.Refresh)
		api.GET("/me", s.routers.Me, appmw.Auth(s.secret, true))

		listings := api.Group("/listings")
		{
			// The public list accepts an optional token so admins can widen
			// the status filter.
			listings.GET("", s.routers.ListListings, appmw.Auth(s.secret, false))
			listings.GET("/my", s.routers.MyListings, appmw.Auth(s.secret, true))
			listings.GET("/admin", s.routers.AdminListings, appmw.Auth(s.secret, true), appmw.RequireAdmin)
			listings.GET("/:slug", s.routers.GetListing)

			listings.POST("", s.routers.CreateListing, appmw.Auth(s.secret, true))
			listings.PUT("/:id", s.routers.UpdateListing, appmw.Auth(s.secret, true))
			listings.DELETE("/:id", s.routers.DeleteListing, appmw.Auth(s.secret, true))
			listings.PATCH("/:id/status", s.routers.UpdateListingStatus, appmw.Auth(s.secret, true), appmw.RequireAdmin)

			listings.POST("/:id/favorite", s.routers.FavoriteListing, appmw.Auth(s.secret, true))
			listings.DELETE("/:id/favorite", s.routers.UnfavoriteListing, appmw.Auth(s.secret, true))
		}

		categories := api.Group("/categories")
		{
			categories.GET("", s.routers.ListCategories)
			categories.POST("", s.routers.CreateCategory, appmw.Auth(s.secret, true), appmw.RequireAdmin)
			categories.PUT("/:id", s.routers.UpdateCategory, appmw.Auth(s.secret, true), appmw.RequireAdmin)
			categories.DELETE("/:id", s.routers.DeleteCategory, appmw.Auth(s.secret, true), appmw.RequireAdmin)
		}
	}
}
