package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string `env:"APP_ENV,default=development"`
	Port   string `env:"PORT,default=8000"`

	DBDriver string `env:"DB_DRIVER,default=sqlite"`
	DBSource string `env:"DB_SOURCE,default=courier.db"`

	JWTSecret         string        `env:"JWT_SECRET,default=changeme"`
	JWTTTL            time.Duration `env:"JWT_TTL,default=24h"`
	MinPasswordLength int           `env:"AUTH_MIN_PASSWORD_LENGTH,default=6"`

	// ว่าง = ใช้ hub ในโปรเซสเดียว + revocation ในหน่วยความจำ
	RedisURL     string `env:"REDIS_URL"`
	RedisChannel string `env:"REDIS_CHANNEL,default=courier:applications"`

	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS,default=*"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	DefaultLanguage string `env:"DEFAULT_LANGUAGE,default=en"`
	SessionFile     string `env:"SESSION_FILE"`
}

// LoadConfig อ่าน .env (ถ้ามี) แล้ว decode env ลง Config
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 6
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".courier-session.json"
	}
	return filepath.Join(dir, "courier", "session.json")
}
