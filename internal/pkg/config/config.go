package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// envFiles are loaded, when present, before the environment is read.
// Real environment variables always win over file values.
var envFiles = []string{".env", "config/config.env"}

type Config struct {
	Port      string `env:"PORT,      default=5000"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	// PublicURL is the base of password reset links. It is required when mail is delivered
	// and defaults to http://localhost:<PORT> otherwise.
	PublicURL string `env:"PUBLIC_URL"`

	JWT        JWTConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Geocoder   GeocoderConfig
	Mail       MailConfig
	Storage    StorageConfig
	Aggregates AggregatesConfig
}

type JWTConfig struct {
	Secret           string        `env:"JWT_SECRET, required"`
	Expire           time.Duration `env:"JWT_EXPIRE, default=720h"`
	CookieExpireDays int           `env:"JWT_COOKIE_EXPIRE, default=30"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=devcamper"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	GeoTTL   time.Duration `env:"GEOCODE_CACHE_TTL, default=168h"`
}

type GeocoderConfig struct {
	APIKey  string `env:"GEOCODER_API_KEY"`
	// BaseURL overrides the MapQuest open endpoint; empty uses the provider default.
	BaseURL string `env:"GEOCODER_BASE_URL"`
}

type MailConfig struct {
	// Driver is "mailgun" or "log". The log driver only writes the message to the logger.
	Driver        string `env:"MAIL_DRIVER,    default=log"`
	FromEmail     string `env:"FROM_EMAIL,     default=noreply@devcamper.io"`
	FromName      string `env:"FROM_NAME,      default=DevCamper"`
	MailgunDomain string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey string `env:"MAILGUN_API_KEY"`
}

type StorageConfig struct {
	// Driver selects the photo backend: minio, cloudinary or gcs.
	Driver         string `env:"STORAGE_DRIVER,  default=minio"`
	MaxUploadBytes int64  `env:"MAX_FILE_UPLOAD, default=1000000"`

	Minio      MinioConfig
	Cloudinary CloudinaryConfig
	GCS        GCSConfig
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT,   default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET,     default=bootcamp-photos"`
	UseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
}

type CloudinaryConfig struct {
	URL    string `env:"CLOUDINARY_URL"`
	Folder string `env:"CLOUDINARY_FOLDER, default=bootcamps"`
}

type GCSConfig struct {
	Bucket          string `env:"GCS_BUCKET"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type AggregatesConfig struct {
	// Workers is the number of recompute workers; 0 recomputes inline on the request path.
	Workers int `env:"AGGREGATE_WORKERS, default=4"`
}

// IsProduction reports whether cookies should be marked Secure and logs emitted as JSON.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CookieTTL is the lifetime of the auth cookie.
func (c *Config) CookieTTL() time.Duration {
	return time.Duration(c.JWT.CookieExpireDays) * 24 * time.Hour
}

// Load reads configuration from env files and environment variables.
func Load() *Config {
	cfg, err := LoadContext(context.Background())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadContext is Load without the panic.
func LoadContext(ctx context.Context) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.resolvePublicURL(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolvePublicURL() error {
	if c.PublicURL == "" {
		if c.Mail.Driver == "mailgun" {
			return errors.New("PUBLIC_URL is required when MAIL_DRIVER=mailgun")
		}
		c.PublicURL = "http://localhost:" + c.Port
		return nil
	}
	u, err := url.Parse(c.PublicURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("PUBLIC_URL must be an absolute http(s) URL, got %q", c.PublicURL)
	}
	return nil
}
