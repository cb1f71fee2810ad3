package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GoogleRefreshToken string
	TemplateSheetID    string
	TemplateTitle      string
	DriveFolderID      string
	CompanySheetID     string

	OpenAIKey   string
	OpenAIModel string

	GmailUserEmail string

	OutboundRPS    int
	MaxConcurrent  int           // concurrent processing runs
	RecordInterval time.Duration // pacing between records in the loop
	VerdictTTL     time.Duration
	MaxUploadBytes int64
}

func Load() Config {
	// Local dev keeps credentials in .env; absence is fine.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", ""),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),

		GoogleClientID:     env("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  env("GOOGLE_REDIRECT_URI", ""),
		GoogleRefreshToken: env("GOOGLE_REFRESH_TOKEN", ""),
		TemplateSheetID:    env("GOOGLE_TEMPLATE_SHEET_ID", "1w14JwdHm5RXM66XdvkRZHO1Wb2494_FtHAE1buEIwgo"),
		TemplateTitle:      env("TEMPLATE_SHEET_TITLE", "TurnKey Review Removal Template"),
		DriveFolderID:      env("GOOGLE_DRIVE_FOLDER_ID", ""),
		CompanySheetID:     env("COMPANY_SHEET_ID", ""),

		OpenAIKey:   env("OPENAI_API_KEY", ""),
		OpenAIModel: env("OPENAI_MODEL", "gpt-3.5-turbo"),

		GmailUserEmail: env("GMAIL_USER_EMAIL", "cases@turnkeyproductmanagement.com"),

		OutboundRPS:    atoi("OUTBOUND_RPS", 5),
		MaxConcurrent:  atoi("MAX_CONCURRENT_RUNS", 4),
		RecordInterval: time.Duration(atoi("RECORD_INTERVAL_MS", 500)) * time.Millisecond,
		VerdictTTL:     time.Duration(atoi("VERDICT_TTL_SECONDS", 86400)) * time.Second,
		MaxUploadBytes: int64(atoi("MAX_UPLOAD_MB", 50)) * 1 << 20,
	}
	for _, k := range []string{"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REFRESH_TOKEN", "OPENAI_API_KEY"} {
		if os.Getenv(k) == "" {
			log.Warn().Str("key", k).Msg("required credential is empty")
		}
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
