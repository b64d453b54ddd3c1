package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"Agora/internal/auth"
	"Agora/internal/config"
	"Agora/internal/core/comments"
	"Agora/internal/core/editwindow"
	"Agora/internal/core/feeds"
	"Agora/internal/core/likes"
	"Agora/internal/core/media"
	"Agora/internal/core/posts"
	"Agora/internal/core/scheduling"
	"Agora/internal/core/users"
	postgresRepo "Agora/internal/db/postgres"
)

// app holds the wired dependencies shared by the serve and worker commands
type app struct {
	db       *sql.DB
	media    media.Service
	files    *media.FileStore
	tokens   *auth.Tokens
	revoked  auth.RevocationRepository
	jobs     *postgresRepo.JobRepository
	userRepo users.UserRepository
	postRepo posts.Repository

	users      users.UserService
	posts      posts.Service
	comments   comments.Service
	likes      likes.Service
	feeds      feeds.Service
	scheduling scheduling.Service
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("connected to database")

	store, err := media.NewFileStore(cfg.Media.Root, cfg.Media.BaseURL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	mediaService := media.NewService(store, int64(cfg.Media.MaxUploadMB)<<20, cfg.Media.ProfilePictureMaxPx)

	a := &app{
		db:       db,
		media:    mediaService,
		files:    store,
		revoked:  postgresRepo.NewRevokedTokenRepository(db),
		jobs:     postgresRepo.NewJobRepository(db),
		userRepo: postgresRepo.NewUserRepository(db),
		postRepo: postgresRepo.NewPostRepository(db),
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, nil)
	a.tokens = auth.NewTokens(issuer, auth.NewRevocationList(a.revoked, cfg.Auth.RevokedCacheSize))

	logger := slog.Default()
	policy := editwindow.New(cfg.EditWindow)

	a.users = users.NewUserService(a.userRepo, postgresRepo.NewSubscriptionRepository(db), auth.NewBcryptHasher(0), mediaService, logger)
	a.posts = posts.NewPostService(a.postRepo, a.userRepo, mediaService, policy, logger)
	a.comments = comments.NewCommentService(postgresRepo.NewCommentRepository(db), a.userRepo, mediaService, policy, logger)
	a.likes = likes.NewService(postgresRepo.NewLikeRepository(db), postgresRepo.NewLikeTargetValidator(db), logger)
	a.feeds = feeds.NewFeedService(postgresRepo.NewFeedRepository(db))
	a.scheduling = scheduling.NewSchedulingService(a.jobs, mediaService, logger, nil)

	return a, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Warn("failed to close database", slog.String("error", err.Error()))
	}
}
