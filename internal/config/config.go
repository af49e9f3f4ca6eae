// Package config collects runtime settings. Environment variables provide the
// defaults; command-line flags override them.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/erazemk/campuscare/internal/upload"
)

// Storage backends for uploaded photos.
const (
	StorageDisk  = "disk"
	StorageMinio = "minio"
)

// Config holds all service configuration.
type Config struct {
	DBPath        string
	Addr          string
	UploadDir     string
	LogPath       string
	RequireLogin  bool
	SecureCookies bool
	Storage       string
	Minio         upload.MinioConfig
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		DBPath:        getenv("CAMPUSCARE_DB", "campuscare.sqlite3"),
		Addr:          getenv("CAMPUSCARE_ADDR", ":8080"),
		UploadDir:     getenv("CAMPUSCARE_UPLOADS", "uploads"),
		LogPath:       getenv("CAMPUSCARE_LOG", ""),
		RequireLogin:  getbool("CAMPUSCARE_REQUIRE_LOGIN", false),
		SecureCookies: getbool("CAMPUSCARE_SECURE_COOKIES", false),
		Storage:       getenv("CAMPUSCARE_STORAGE", StorageDisk),
		Minio: upload.MinioConfig{
			Endpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getenv("MINIO_ACCESS_KEY", ""),
			SecretKey: getenv("MINIO_SECRET_KEY", ""),
			Bucket:    getenv("MINIO_BUCKET", "campuscare-uploads"),
			UseSSL:    getbool("MINIO_USE_SSL", false),
		},
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageDisk:
		if c.UploadDir == "" {
			return fmt.Errorf("upload directory must not be empty")
		}
	case StorageMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return fmt.Errorf("minio storage needs MINIO_ENDPOINT and MINIO_BUCKET")
		}
	default:
		return fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageDisk, StorageMinio)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
