// Package main is the entry point for the snippet manager server.
//
// Configuration is read from the environment:
//
//	PORT           HTTP port (default 8080)
//	DB_PATH        SQLite database file (default data/snippets.db)
//	JWT_SECRET     HMAC secret for bearer-token verification (required)
//	BLOB_BACKEND   "fs" (default) or "s3"
//	BLOB_DIR       fs backend: directory for code bodies (default data/blobs)
//	S3_BUCKET      s3 backend: bucket name (required)
//	S3_REGION      s3 backend: region
//	S3_ENDPOINT    s3 backend: custom endpoint for MinIO-style servers
//	S3_ACCESS_KEY  s3 backend: static access key (with S3_ENDPOINT)
//	S3_SECRET_KEY  s3 backend: static secret key (with S3_ENDPOINT)
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/printscript/snippet-manager/internal/blob"
	"github.com/printscript/snippet-manager/internal/server"
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

	dbPath := "data/snippets.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required — every operation needs a verified identity")
		os.Exit(1)
	}

	blobs, err := newBlobStore(logger)
	if err != nil {
		logger.Error("failed to create blob store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
	}

	srv, err := server.New(cfg, blobs, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newBlobStore selects the code-body backend from the environment.
func newBlobStore(logger *slog.Logger) (blob.Store, error) {
	switch backend := os.Getenv("BLOB_BACKEND"); backend {
	case "", "fs":
		dir := os.Getenv("BLOB_DIR")
		if dir == "" {
			dir = "data/blobs"
		}
		logger.Info("using filesystem blob store", slog.String("dir", dir))
		return blob.NewFSStore(dir)

	case "s3":
		cfg := blob.S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		}
		logger.Info("using S3 blob store",
			slog.String("bucket", cfg.Bucket),
			slog.String("endpoint", cfg.Endpoint),
		)
		return blob.NewS3Store(context.Background(), cfg)

	default:
		logger.Error("unknown BLOB_BACKEND", slog.String("value", backend))
		os.Exit(1)
		return nil, nil
	}
}
