package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"slideshow/internal/config"
	appmiddleware "slideshow/internal/middleware"
	httprouters "slideshow/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
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
	static  map[string]string
}

func New(log *slog.Logger, cfg *config.Config, routers *httprouters.Routers) (*Server, error) {
	const op = "http.Server.New"

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	renderer, err := httprouters.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.Renderer = renderer

	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options.HttpOnly = true
	store.Options.Path = "/"
	e.Use(session.Middleware(store))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	if cfg.HTTP.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.HTTP.BodyLimit))
	}
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	static := map[string]string{
		cfg.FileStorage.BaseURL: cfg.FileStorage.BaseDir,
	}
	if cfg.Songs.BaseURL != "" && cfg.Songs.Dir != "" {
		static[cfg.Songs.BaseURL] = cfg.Songs.Dir
	}

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		host:    cfg.HTTP.Host,
		port:    cfg.HTTP.Port,
		static:  static,
	}, nil
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"), slog.String("addr", s.addr()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.addr()); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.host, s.port)
}

func (s *Server) BuildRouters() {
	for prefix, dir := range s.static {
		s.e.Static(prefix, dir)
	}

	s.e.GET("/", s.routers.Index)
	s.e.GET("/upload", s.routers.UploadPage)
	s.e.POST("/upload", s.routers.Upload)
	s.e.GET("/view/:id", s.routers.View)
	s.e.GET("/creations", s.routers.Creations)
	s.e.POST("/delete/:id", s.routers.Delete)

	s.e.GET("/healthz", s.routers.Health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	swagger := s.e.Group("/swagger")
	{
		swagger.GET("/*", echoSwagger.WrapHandler)
	}

	api := s.e.Group("/api/v1")
	{
		creations := api.Group("/creations")
		{
			creations.GET("", s.routers.ListCreations)
			creations.POST("", s.routers.CreateCreation)
			creations.GET("/:id", s.routers.GetCreation)
			creations.DELETE("/:id", s.routers.DeleteCreation)
		}

		api.GET("/songs", s.routers.ListSongs)
	}
}
