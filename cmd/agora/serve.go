package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"Agora/internal/api/handlers"
	"Agora/internal/api/handlers/mediafile"
	"Agora/internal/api/middleware"
	"Agora/internal/api/routes"
	"Agora/internal/config"
	"Agora/internal/core/pagination"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, cfg)
	},
}

func runServer(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	r := chi.NewRouter()

	publicURL, err := cfg.ParsedPublicURL()
	if err != nil {
		return err
	}
	var renderOpts []handlers.RendererOption
	if publicURL != nil {
		renderOpts = append(renderOpts, handlers.WithPublicURL(publicURL))
	}

	r.Use(chiMiddleware.RequestID)
	if cfg.TrustProxy {
		// RemoteAddr is rewritten from the proxy's X-Real-IP / X-Forwarded-For
		r.Use(chiMiddleware.RealIP)
		renderOpts = append(renderOpts, handlers.WithTrustedProxy())
	}
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	go rateLimiter.Run(ctx)
	r.Use(rateLimiter.Middleware)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Uploads are served from disk only when the media URL is local to this server
	if prefix := cfg.Media.BaseURL; strings.HasPrefix(prefix, "/") {
		prefix = strings.TrimSuffix(prefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", mediafile.NewHandler(a.files)))
	}

	maxUpload := int64(cfg.Media.MaxUploadMB) << 20
	routes.RegisterAPIRoutes(r, routes.Services{
		Users:      a.users,
		Tokens:     a.tokens,
		Posts:      a.posts,
		Comments:   a.comments,
		Likes:      a.likes,
		Feeds:      a.feeds,
		Scheduling: a.scheduling,
	}, routes.Options{
		Renderer:       handlers.NewRenderer(a.media.URL, renderOpts...),
		MaxUploadBytes: maxUpload,
		PostPages:      pagination.Settings{PageSize: cfg.Pagination.PostsPageSize, MaxPageSize: cfg.Pagination.MaxPageSize},
		CommentPages:   pagination.Settings{PageSize: cfg.Pagination.CommentsPageSize, MaxPageSize: cfg.Pagination.MaxPageSize},
		UserPages:      pagination.Settings{PageSize: cfg.Pagination.UsersPageSize, MaxPageSize: cfg.Pagination.MaxPageSize},
	}, middleware.NewAuthMiddleware(a.tokens))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
