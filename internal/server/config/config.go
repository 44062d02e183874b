// Package config handles configuration for the server. All values are
// environment-sourced, optionally overlaid from a .env file, and fixed for
// the process lifetime.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the DriveBox server.
//
// Fields:
//   - HTTPAddr: bind address for the public HTTP endpoint.
//   - MongoURI / MongoDatabase: document store holding users and file nodes.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Rotating it
//     invalidates all outstanding tokens. Do not use the default in prod.
//   - TokenTTL: bearer token lifetime.
//   - StoreTimeout: upper bound for a single blob/metadata store call.
//   - S3AccessKey / S3SecretKey / S3Bucket / S3Region / S3Endpoint: object
//     storage settings (MinIO or any S3-compatible backend).
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	MongoURI        string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase   string        `env:"MONGO_DB" envDefault:"drive"`
	SecretKey       string        `env:"AUTH_SECRET_KEY" envDefault:"changeme"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	S3AccessKey     string        `env:"MINIO_ACCESS_KEY" envDefault:"admin"`
	S3SecretKey     string        `env:"MINIO_SECRET_KEY" envDefault:"secretpassword"`
	S3Bucket        string        `env:"S3_BUCKET" envDefault:"uploads"`
	S3Region        string        `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string        `env:"MINIO_ENDPOINT" envDefault:"http://127.0.0.1:9000"`
}

// Load builds a Config from the environment. A .env file in the working
// directory is applied first when present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
