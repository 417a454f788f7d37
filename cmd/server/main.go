// Package main is the entry point for the login system server.
//
// main's job is to read configuration from the environment, build the
// logger, and hand everything to internal/server. All real logic lives
// in the imported packages.
//
// Required environment:
//
//	JWT_SECRET    HMAC signing key, at least 16 characters
//	              (e.g. JWT_SECRET=$(openssl rand -hex 32))
//	JWT_ISSUER    "iss" claim stamped on and required of every token
//	JWT_AUDIENCE  "aud" claim stamped on and required of every token
//
// All three are required: a missing value is a fatal startup condition,
// not something to degrade around — a server that silently starts
// without a signing key cannot issue or verify anything.
//
// Optional: PORT (default 8080), DB_PATH (default data/login.db).
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/brunocm/login-system/internal/auth"
	"github.com/brunocm/login-system/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/login.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// Ensure the data directory exists before SQLite tries to create the
	// file inside it.
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	tokenCfg := auth.TokenConfig{
		Secret:   os.Getenv("JWT_SECRET"),
		Issuer:   os.Getenv("JWT_ISSUER"),
		Audience: os.Getenv("JWT_AUDIENCE"),
	}
	for name, value := range map[string]string{
		"JWT_SECRET":   tokenCfg.Secret,
		"JWT_ISSUER":   tokenCfg.Issuer,
		"JWT_AUDIENCE": tokenCfg.Audience,
	} {
		if value == "" {
			logger.Error("missing required environment variable", slog.String("name", name))
			os.Exit(1)
		}
	}

	cfg := server.Config{
		Port:   port,
		DBPath: dbPath,
		Token:  tokenCfg,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
