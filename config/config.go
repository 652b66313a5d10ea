package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/logging"
	"github.com/cybermitra/guardian-api/models"
)

// Config holds the project config values
type Config struct {
	Env              string
	URL              string
	DatabaseName     string
	BaseURL          string
	PublicWebBaseURL string
	Port             string
	JWTSecret        string
	RequestTimeout   time.Duration
	CaseNumberPrefix string
	StaleCaseDays    int

	SendGridAPIKey string
	MailFrom       string

	StorageBackend      string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	MinioEndpoint       string
	MinioAccessKey      string
	MinioSecretKey      string
	MinioBucket         string
	MinioUseSSL         bool

	AMQPURL   string
	AMQPQueue string
}

// New sets up all config related services
func New() *Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	env := getEnv("ENV", "local")
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		Env:              env,
		URL:              os.Getenv("DB_URI"),
		DatabaseName:     getEnv("DB_NAME", "guardian"),
		BaseURL:          os.Getenv("BASE_URL"),
		PublicWebBaseURL: os.Getenv("PUBLIC_WEB_BASE_URL"),
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 30*time.Second),
		CaseNumberPrefix: getEnv("CASE_NUMBER_PREFIX", "CAS-"),
		StaleCaseDays:    getInt("STALE_CASE_DAYS", 3),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@cybermitra.in"),

		StorageBackend:      getEnv("STORAGE_BACKEND", "cloudinary"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		MinioEndpoint:       os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:      os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:      os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:         getEnv("MINIO_BUCKET", "evidence"),
		MinioUseSSL:         getBool("MINIO_USE_SSL", true),

		AMQPURL:   os.Getenv("AMQP_URL"),
		AMQPQueue: getEnv("AMQP_QUEUE", "case_events"),
	}
}

// ErrMissingJWTSecret is returned by Validate when JWT_SECRET is unset
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Validate reports settings the service cannot start without
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return logging.NewProduction()
	case "development":
		return logging.NewDevelopment()
	default:
		return logging.NewExample(), nil
	}
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: errText},
	})
	w.WriteHeader(httpStatusCode)
	_, _ = w.Write(b)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
