package main

import (
	"context"
	"errors"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/config"
	"github.com/pageza/cooking-assistant/backend/internal/logging"
	"github.com/pageza/cooking-assistant/backend/internal/server"
	"github.com/pageza/cooking-assistant/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	deps, err := server.Bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	hasher, err := service.NewPasswordHasher(cfg.PasswordHash, cfg.PasswordPepper)
	if err != nil {
		logger.Fatal("invalid password hashing configuration", zap.Error(err))
	}
	auth := service.NewAuthService(deps.Users, hasher, cfg.JWTSecret)

	// Test users for local development
	password := "testpassword123"
	testUsers := []struct {
		name  string
		email string
	}{
		{name: "John Doe", email: "john.doe@example.com"},
		{name: "Jane Smith", email: "jane.smith@example.com"},
		{name: "Bob Wilson", email: "bob.wilson@example.com"},
	}

	for _, u := range testUsers {
		_, err := auth.Register(ctx, u.name, u.email, password, password)
		switch {
		case err == nil:
			logger.Info("created test user", zap.String("email", u.email))
		case errors.Is(err, service.ErrUserExists):
			logger.Info("test user already exists", zap.String("email", u.email))
		default:
			logger.Fatal("failed to create test user", zap.String("email", u.email), zap.Error(err))
		}
	}

	logger.Info("test users ready", zap.String("password", password))
}
