package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultOriginalsSubDir  = "originals"
	DefaultThumbnailsSubDir = "thumbnails"
	DefaultAvatarsSubDir    = "avatars"
)

const (
	defaultThumbnailQueueSize  = 200
	defaultNumThumbnailWorkers = 4
	defaultThumbnailMaxSize    = 400
	defaultJWTExpirationHours  = 24
)

type Config struct {
	// http server
	ListenAddr    string
	AllowedOrigin string

	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for stored assets (originals, thumbs, avatars)
	OriginalsPath    string // full-calculated path for uploaded originals
	ThumbnailsPath   string // full-calculated path for thumbnails
	AvatarsPath      string // full-calculated path for avatars

	// thumbnail generation settings
	ThumbnailMaxSize int

	// worker settings
	ThumbnailQueueSize  int
	NumThumbnailWorkers int

	// authentication
	JWTSecret          string
	JWTExpirationHours int

	// the group whose galleries are visible to everyone, guests included
	PublicGroupName string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	listenAddr := getEnvOrDefault("LISTEN_ADDR", ":8080")
	allowedOrigin := getEnvOrDefault("ALLOWED_ORIGIN", "http://localhost:5173")

	dbPath := getEnvOrDefault("DATABASE_PATH", "galeria.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	originalsSubDir := getEnvOrDefault("ORIGINALS_SUBDIR", DefaultOriginalsSubDir)
	absOriginalsPath := filepath.Join(absMediaStorage, originalsSubDir)

	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	absThumbnailsPath := filepath.Join(absMediaStorage, thumbSubDir)

	avatarSubDir := getEnvOrDefault("AVATARS_SUBDIR", DefaultAvatarsSubDir)
	absAvatarsPath := filepath.Join(absMediaStorage, avatarSubDir)

	thumbMaxSize := getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize)

	queueSize := getEnvIntOrDefault("THUMBNAIL_QUEUE_SIZE", defaultThumbnailQueueSize)
	numWorkers := getEnvIntOrDefault("NUM_THUMBNAIL_WORKERS", defaultNumThumbnailWorkers)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	jwtExpiration := getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours)

	publicGroupName := getEnvOrDefault("PUBLIC_GROUP_NAME", "free")

	cfg := Config{
		ListenAddr:          listenAddr,
		AllowedOrigin:       allowedOrigin,
		DatabasePath:        dbPath,
		MediaStoragePath:    absMediaStorage,
		OriginalsPath:       absOriginalsPath,
		ThumbnailsPath:      absThumbnailsPath,
		AvatarsPath:         absAvatarsPath,
		ThumbnailMaxSize:    thumbMaxSize,
		ThumbnailQueueSize:  queueSize,
		NumThumbnailWorkers: numWorkers,
		JWTSecret:           jwtSecret,
		JWTExpirationHours:  jwtExpiration,
		PublicGroupName:     publicGroupName,
	}

	return cfg, nil
}
