package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	devJWTSecret = "rogerbox-dev-secret-change-me"
)

// Config est assemblée une seule fois au démarrage puis passée explicitement aux composants.
type Config struct {
	Env  string `env:"ROGERBOX_ENV" envDefault:"development"`
	Addr string `env:"ROGERBOX_ADDR" envDefault:"127.0.0.1:8080"`

	DB struct {
		Driver string `env:"ROGERBOX_DB_DRIVER" envDefault:"sqlite"`
		DSN    string `env:"ROGERBOX_DB_DSN" envDefault:"rogerbox.db"`
	}

	Auth struct {
		JWTSecret string        `env:"ROGERBOX_JWT_SECRET"`
		TokenTTL  time.Duration `env:"ROGERBOX_TOKEN_TTL" envDefault:"720h"`
		// Comptes existants promus admin (rôle stocké) au démarrage de serve.
		AdminEmails []string `env:"ROGERBOX_ADMIN_EMAILS" envSeparator:","`
		// Ids admin en plus du rôle stocké.
		AdminUserIDs []string `env:"ROGERBOX_ADMIN_USER_IDS" envSeparator:","`
		// Nombre de hachages bcrypt simultanés.
		HashConcurrency int `env:"ROGERBOX_AUTH_HASH_CONCURRENCY" envDefault:"4"`
	}

	Content struct {
		// Fuseau de référence pour "aujourd'hui".
		Timezone        string        `env:"ROGERBOX_CONTENT_TIMEZONE" envDefault:"UTC"`
		PublishInterval time.Duration `env:"ROGERBOX_PUBLISH_INTERVAL" envDefault:"1m"`
	}

	Redis struct {
		// Vide = cache catalogue désactivé.
		Addr       string        `env:"ROGERBOX_REDIS_ADDR"`
		Password   string        `env:"ROGERBOX_REDIS_PASSWORD"`
		DB         int           `env:"ROGERBOX_REDIS_DB" envDefault:"0"`
		CatalogTTL time.Duration `env:"ROGERBOX_CATALOG_TTL" envDefault:"5m"`
	}

	S3 struct {
		// Vide = uploads désactivés.
		Bucket          string        `env:"ROGERBOX_S3_BUCKET"`
		Region          string        `env:"ROGERBOX_S3_REGION" envDefault:"us-east-1"`
		Endpoint        string        `env:"ROGERBOX_S3_ENDPOINT"`
		AccessKeyID     string        `env:"ROGERBOX_S3_ACCESS_KEY_ID"`
		SecretAccessKey string        `env:"ROGERBOX_S3_SECRET_ACCESS_KEY"`
		UsePathStyle    bool          `env:"ROGERBOX_S3_USE_PATH_STYLE" envDefault:"false"`
		PublicBaseURL   string        `env:"ROGERBOX_S3_PUBLIC_BASE_URL"`
		UploadTTL       time.Duration `env:"ROGERBOX_S3_UPLOAD_TTL" envDefault:"15m"`
	}

	// Warnings collectés au chargement (loggués par l'appelant).
	Warnings []string
}

// Load lit un éventuel fichier .env, puis l'environnement, applique les défauts et valide.
func Load(dotenvFiles ...string) (Config, error) {
	// .env optionnel : absent en prod.
	_ = godotenv.Load(dotenvFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = EnvDevelopment
	}

	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver: %q", c.DB.Driver)
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		return errors.New("ROGERBOX_DB_DSN is required")
	}

	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("ROGERBOX_JWT_SECRET is required outside development")
		}
		c.Auth.JWTSecret = devJWTSecret
		c.Warnings = append(c.Warnings, "ROGERBOX_JWT_SECRET not set, using development secret")
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 720 * time.Hour
	}
	if c.Auth.HashConcurrency <= 0 {
		c.Auth.HashConcurrency = 1
	}
	c.Auth.AdminEmails = cleanList(c.Auth.AdminEmails, true)
	c.Auth.AdminUserIDs = cleanList(c.Auth.AdminUserIDs, false)

	if _, err := time.LoadLocation(c.Content.Timezone); err != nil {
		return fmt.Errorf("invalid ROGERBOX_CONTENT_TIMEZONE %q: %w", c.Content.Timezone, err)
	}
	if c.Content.PublishInterval <= 0 {
		c.Content.PublishInterval = time.Minute
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Location renvoie le fuseau de référence du contenu (UTC si invalide).
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Content.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func cleanList(in []string, lower bool) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if lower {
			v = strings.ToLower(v)
		}
		out = append(out, v)
	}
	return out
}
