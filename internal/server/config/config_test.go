package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.NotNil(t, c, "Load must not return nil")

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "mongodb://localhost:27017", c.MongoURI)
	assert.Equal(t, "drive", c.MongoDatabase)
	assert.Equal(t, "changeme", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
	assert.Equal(t, 10*time.Second, c.StoreTimeout)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "admin", c.S3AccessKey)
	assert.Equal(t, "secretpassword", c.S3SecretKey)
	assert.Equal(t, "uploads", c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "http://127.0.0.1:9000", c.S3Endpoint)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("AUTH_SECRET_KEY", "s3cr3t")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("S3_BUCKET", "blobs")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, "mongodb://mongo:27017", c.MongoURI)
	assert.Equal(t, "s3cr3t", c.SecretKey)
	assert.Equal(t, time.Hour, c.TokenTTL)
	assert.Equal(t, 250*time.Millisecond, c.StoreTimeout)
	assert.Equal(t, "blobs", c.S3Bucket)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
}
