package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	JWTSecret   string        `env:"JWT_SECRET,   required"`
	JWTTTL      time.Duration `env:"JWT_TTL,      default=24h"`
	FrontendURL string        `env:"FRONTEND_URL, default=http://localhost:3000"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Mail    MailConfig
	SMTP    SMTPConfig
	S3      S3Config
	Company CompanyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=clinic_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MailConfig struct {
	From          string        `env:"MAIL_FROM,       default=no-reply@msk-clinic.local"`
	AppName       string        `env:"MAIL_APP_NAME,   default=MSK Clinic"`
	Workers       int           `env:"MAIL_WORKERS,    default=4"`
	Buffer        int           `env:"MAIL_BUFFER,     default=256"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=60m"`
}

// SMTPConfig is optional: with an empty host, mails are written to the log.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT,     default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
}

type S3Config struct {
	Bucket       string `env:"S3_BUCKET,         default=clinic-documents"`
	Region       string `env:"S3_REGION,         default=us-east-1"`
	BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE, default=true"`
}

// CompanyConfig is the letterhead printed on quote documents. Address lines
// are separated by "|".
type CompanyConfig struct {
	Name          string   `env:"COMPANY_NAME,          default=MSK Clinic"`
	AddressLines  []string `env:"COMPANY_ADDRESS,       delimiter=|"`
	Phone         string   `env:"COMPANY_PHONE"`
	Email         string   `env:"COMPANY_EMAIL"`
	Website       string   `env:"COMPANY_WEBSITE"`
	LogoURL       string   `env:"COMPANY_LOGO_URL"`
	BankName      string   `env:"COMPANY_BANK_NAME"`
	AccountHolder string   `env:"COMPANY_ACCOUNT_HOLDER"`
	IBAN          string   `env:"COMPANY_IBAN"`
	SWIFT         string   `env:"COMPANY_SWIFT"`
	Currency      string   `env:"COMPANY_CURRENCY,      default=€"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
