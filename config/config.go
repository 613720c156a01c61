package config

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/dates"
	"github.com/linesmerrill/case-tracker-api/models"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	Environment  string
	JWTSecret    string

	CloudinaryURL          string
	CloudinaryFolder       string
	CloudinaryUploadPreset string
	CloudinaryAPISecret    string

	SendgridAPIKey string
	AlertFromEmail string
	AlertCron      string
	Timezone       string
}

// New sets up all config related services
func New() *Config {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	conf := &Config{
		URL:                    os.Getenv("DB_URI"),
		DatabaseName:           os.Getenv("DB_NAME"),
		BaseURL:                os.Getenv("BASE_URL"),
		Port:                   getEnv("PORT", "8080"),
		Environment:            getEnv("ENVIRONMENT", "local"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		CloudinaryURL:          os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder:       getEnv("CLOUDINARY_FOLDER", "case-tracker"),
		CloudinaryUploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		SendgridAPIKey:         os.Getenv("SENDGRID_API_KEY"),
		AlertFromEmail:         getEnv("ALERT_FROM_EMAIL", "alerts@case-tracker.local"),
		AlertCron:              getEnv("ALERT_CRON", "0 6 * * *"),
		Timezone:               getEnv("TIMEZONE", "Asia/Kolkata"),
	}

	//setup zap logger and replace default logger
	logger, err := setLogger(conf.Environment)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return conf
}

// Location is the timezone used for day arithmetic and display
func (c Config) Location() *time.Location {
	return dates.LoadLocation(c.Timezone)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With("error", err).Error(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(models.Response{Success: false, Error: message})
}

// WriteData writes a successful response envelope around data
func WriteData(w http.ResponseWriter, httpStatusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	if err := json.NewEncoder(w).Encode(models.Response{Success: true, Data: data}); err != nil {
		zap.S().With("error", err).Error("failed to encode response")
	}
}
