package config

import (
	"log"
	"os"
	"strconv"
)

var cfg *Config

type Config struct {
	Port        string
	Debug       bool
	JWTSecret   string
	CORSOrigins string
	BodyLimitMB int

	// scylla | postgres | sqlite
	StoreDriver string
	DatabaseURL string

	ScyllaHost     string
	ScyllaPort     string
	ScyllaUser     string
	ScyllaPass     string
	ScyllaKeyspace string

	RedisHost string
	RedisPass string
	RedisDB   string

	SmtpHost         string
	SmtpPort         string
	SmtpUser         string
	SmtpPass         string
	ErrorReportEmail string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioURL       string
	MinioUseSSL    bool

	UploadDir             string
	BlockDisposableEmails bool
	RollbackUploads       bool
	WelcomeMail           bool
}

func LoadConfig() *Config {
	if cfg != nil {
		return cfg
	}

	cfg = &Config{
		Port:                  getEnv("PORT", "3000"),
		Debug:                 os.Getenv("APP_DEBUG") == "true",
		JWTSecret:             os.Getenv("JWT_SECRET"),
		CORSOrigins:           getEnv("CORS_ORIGINS", "*"),
		BodyLimitMB:           getInt("BODY_LIMIT_MB", 10),
		StoreDriver:           getEnv("STORE_DRIVER", "scylla"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		ScyllaHost:            os.Getenv("SCYLLA_HOST"),
		ScyllaPort:            getEnv("SCYLLA_PORT", "9042"),
		ScyllaUser:            os.Getenv("SCYLLA_USER"),
		ScyllaPass:            os.Getenv("SCYLLA_PASSWORD"),
		ScyllaKeyspace:        os.Getenv("SCYLLA_KEYSPACE"),
		RedisHost:             os.Getenv("REDIS_HOST"),
		RedisPass:             os.Getenv("REDIS_PASSWORD"),
		RedisDB:               os.Getenv("REDIS_DB"),
		SmtpHost:              os.Getenv("SMTP_HOST"),
		SmtpPort:              os.Getenv("SMTP_PORT"),
		SmtpUser:              os.Getenv("SMTP_USER"),
		SmtpPass:              os.Getenv("SMTP_PASS"),
		ErrorReportEmail:      os.Getenv("ERROR_REPORT_EMAIL"),
		MinioEndpoint:         os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:        os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:        os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:           getEnv("MINIO_BUCKET", "media"),
		MinioURL:              os.Getenv("MINIO_URL"),
		MinioUseSSL:           os.Getenv("MINIO_USE_SSL") == "true",
		UploadDir:             getEnv("UPLOAD_DIR", os.TempDir()),
		BlockDisposableEmails: os.Getenv("BLOCK_DISPOSABLE_EMAILS") == "true",
		RollbackUploads:       getEnv("ROLLBACK_UPLOADS", "true") == "true",
		WelcomeMail:           os.Getenv("WELCOME_MAIL") == "true",
	}
	return cfg
}

func GetConfig() *Config {
	if cfg == nil {
		log.Fatal("Config not loaded — call LoadConfig() first")
	}
	return cfg
}

// MailEnabled reports whether an SMTP relay is configured.
func (c *Config) MailEnabled() bool {
	return c.SmtpHost != "" && c.SmtpPort != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
