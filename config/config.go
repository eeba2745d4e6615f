package config

import (
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port string `env:"PORT,default=8080"`

	DBDriver  string        `env:"DB_DRIVER,default=postgres" description:"postgres or sqlite"`
	DBURL     string        `env:"DB_URL,required" description:"postgres DSN or sqlite file path"`
	DBTimeout time.Duration `env:"DB_TIMEOUT,default=5s" description:"upper bound for every store operation"`

	JWTSecret     string        `env:"JWT_SECRET,required"`
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME,default=24h"`

	CORSOrigin string `env:"CORS_ORIGIN,default=*"`
	LogLevel   string `env:"LOG_LEVEL,default=info" description:"debug, info, warning or error"`
	I18nDir    string `env:"I18N_DIR,default=i18n" description:"translation files as <lng>/<ns>.json"`

	SteamAPIURL   string        `env:"STEAM_API_URL,default=https://store.steampowered.com/api/appdetails"`
	SteamCountry  string        `env:"STEAM_COUNTRY,default=th"`
	SteamLanguage string        `env:"STEAM_LANGUAGE,default=th"`
	SteamCacheTTL time.Duration `env:"STEAM_CACHE_TTL,default=10m"`

	RedisAddr     string `env:"REDIS_ADDR" description:"when set, steam prices are cached in redis"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	GoogleClientID         string `env:"GOOGLE_CLIENT_ID" description:"enables google sign-in when set"`
	GoogleClientSecret     string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL      string `env:"GOOGLE_REDIRECT_URL"`
	GoogleFrontendRedirect string `env:"GOOGLE_FRONTEND_REDIRECT"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found. Using system environment variables.")
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}
