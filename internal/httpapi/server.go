// Package httpapi exposes owners' public event types and free slots over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/model"
	"github.com/Freeeeeet/availability_bot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OwnerFinder interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type EventLister interface {
	ListPublicEvents(ctx context.Context, ownerID int64) ([]*model.Event, error)
}

type SlotFinder interface {
	GetSlots(ctx context.Context, ownerID int64, eventID uuid.UUID, from, to time.Time) (*service.SlotsResult, error)
}

type Server struct {
	owners OwnerFinder
	events EventLister
	slots  SlotFinder
	logger *zap.Logger
	engine *gin.Engine
	http   *http.Server
}

func NewServer(addr string, owners OwnerFinder, events EventLister, slots SlotFinder, logger *zap.Logger) *Server {
	s := &Server{
		owners: owners,
		events: events,
		slots:  slots,
		logger: logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	s.registerRoutes(r)
	s.engine = r

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api/v1/owners/:ownerID")
	{
		api.GET("/events", s.listEvents)
		api.GET("/events/:eventID/slots", s.getSlots)
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("HTTP API listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
