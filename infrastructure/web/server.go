// Package web serves the HTTP API with gin.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	exampleUseCase "pair-programming-backend/domains/example/application/usecase"
	userUseCase "pair-programming-backend/domains/user/application/usecase"
	"pair-programming-backend/infrastructure/httpmetrics"
	"pair-programming-backend/shared/common/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	defaultHeader     = "x-cdp-request-id"
)

type Dependencies struct {
	Users         userUseCase.UserUseCase
	Pairing       userUseCase.PairingUseCase
	Example       exampleUseCase.ExampleUseCase
	Metrics       *httpmetrics.Metrics
	TracingHeader string
}

type Server struct {
	deps       Dependencies
	router     *gin.Engine
	httpServer *http.Server
	openAPI    []byte
}

func NewServer(addr string, deps Dependencies) (*Server, error) {
	openAPI, err := OpenAPIJSON()
	if err != nil {
		return nil, err
	}
	if deps.TracingHeader == "" {
		deps.TracingHeader = defaultHeader
	}

	router := gin.New()
	s := &Server{
		deps:    deps,
		router:  router,
		openAPI: openAPI,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}

	router.Use(RequestID(deps.TracingHeader), RequestLogger(), Recovery())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	router.GET("/health", s.handleHealth)
	router.GET("/docs", s.handleDocs)
	router.GET("/openapi.json", s.handleOpenAPI)

	users := router.Group("/users")
	{
		users.POST("/register", s.handleRegisterUser)
		users.GET("", s.handleListUsers)
	}
	router.POST("/pair", s.handlePair)

	example := router.Group("/example")
	{
		example.GET("/test", s.handleExampleTest)
		example.GET("/db", s.handleExampleDB)
		example.GET("/http", s.handleExampleHTTP)
	}

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil on a clean shutdown.
func (s *Server) Start() error {
	logger.Info("HTTP server listening", logger.WithString("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
