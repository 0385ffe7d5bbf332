package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ListenAddr string
	StreamAddr string

	RedisURL    string
	DatabaseURL string

	LibraryTTLSec   int
	LibraryMaxGames int
	UploadMaxBytes  int

	TimingFile    string
	ThumbnailSize int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:      ":8480",
		StreamAddr:      ":8481",
		LibraryTTLSec:   7 * 24 * 3600,
		LibraryMaxGames: 500,
		UploadMaxBytes:  1 << 20,
		ThumbnailSize:   48,
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("STREAM_ADDR")); v != "" {
		cfg.StreamAddr = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("LIBRARY_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LibraryTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("LIBRARY_MAX_GAMES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LibraryMaxGames = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("UPLOAD_MAX_BYTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UploadMaxBytes = n
		}
	}
	cfg.TimingFile = strings.TrimSpace(os.Getenv("ANIM_TIMING_FILE"))
	if v := strings.TrimSpace(os.Getenv("THUMBNAIL_SQUARE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 16 && n <= 128 {
			cfg.ThumbnailSize = n
		}
	}

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	return cfg, nil
}
