// Package httpapi exposes the conversion pipeline over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/validation"
	"github.com/bnema/ico256/internal/logging"
)

const (
	shutdownTimeout = 5 * time.Second
	// multipartOverhead is allowed on top of the source ceiling for headers and form fields.
	multipartOverhead = 1 << 20
)

// Options configures request defaults and server timeouts.
type Options struct {
	Background     entity.Background
	Sizes          []entity.IconSize
	Layout         bundle.Layout
	MaxSourceBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Server serves the conversion API.
type Server struct {
	convert *usecase.ConvertImageUseCase
	history *usecase.ManageHistoryUseCase
	zipper  port.BundleWriter
	opts    Options
}

// NewServer creates a Server. history may be nil, in which case conversions
// are not recorded and the history endpoint returns an empty list.
func NewServer(
	convert *usecase.ConvertImageUseCase,
	history *usecase.ManageHistoryUseCase,
	zipper port.BundleWriter,
	opts Options,
) *Server {
	opts.MaxSourceBytes = validation.EffectiveLimit(opts.MaxSourceBytes)
	if opts.Layout == "" {
		opts.Layout = bundle.LayoutBundle
	}
	return &Server{convert: convert, history: history, zipper: zipper, opts: opts}
}

// Handler builds the gin engine. Request contexts carry the logger of ctx.
func (s *Server) Handler(ctx context.Context) http.Handler {
	router := gin.New()
	router.MaxMultipartMemory = s.opts.MaxSourceBytes + multipartOverhead
	router.Use(gin.Recovery(), requestLogger(ctx))

	router.GET("/health", healthHandler)

	v1 := router.Group("/api/v1")
	v1.POST("/convert", s.convertHandler)
	v1.GET("/conversions", s.listConversionsHandler)

	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("http api stopped")
	return nil
}

func requestLogger(ctx context.Context) gin.HandlerFunc {
	base := logging.WithComponent(ctx, "httpapi")
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), *logging.FromContext(base)))

		c.Next()

		log := logging.FromContext(base)
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
