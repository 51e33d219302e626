package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	CSRF struct {
		Header string
		Cookie string
	}
	Log struct {
		Level  string
		Pretty bool
	}
	SessionLifetime time.Duration
	InsecureCookies bool
}

// ClientConfig configures the command-line request client.
type ClientConfig struct {
	BaseURL     string
	Encoding    string // "form" or "json"
	TokenSource string // "meta" or "cookie"
	CSRFHeader  string
	CSRFCookie  string
	Timeout     time.Duration
	Log         struct {
		Level  string
		Pretty bool
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("sara")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("csrf.header", "X-CSRFToken")
	v.SetDefault("csrf.cookie", "csrftoken")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	return v
}

// Load reads server config from environment (SARA_ prefix) and optional sara.yaml.
func Load() (*Config, error) {
	v := newViper()
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("insecure_cookies", false)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.CSRF.Header = v.GetString("csrf.header")
	cfg.CSRF.Cookie = v.GetString("csrf.cookie")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Pretty = v.GetBool("log.pretty")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid SARA_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("SARA_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("SARA_DB_DSN is required")
	}

	return cfg, nil
}

// LoadClient reads the request client config. Flags may override BaseURL
// afterwards, so an empty base URL is not an error here.
func LoadClient() (*ClientConfig, error) {
	v := newViper()
	v.SetDefault("client.encoding", "form")
	v.SetDefault("client.token_source", "meta")
	v.SetDefault("client.timeout", "30s")

	cfg := &ClientConfig{}
	cfg.BaseURL = v.GetString("client.base_url")
	cfg.Encoding = strings.ToLower(v.GetString("client.encoding"))
	cfg.TokenSource = strings.ToLower(v.GetString("client.token_source"))
	cfg.CSRFHeader = v.GetString("csrf.header")
	cfg.CSRFCookie = v.GetString("csrf.cookie")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Pretty = v.GetBool("log.pretty")

	timeout, err := time.ParseDuration(v.GetString("client.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid SARA_CLIENT_TIMEOUT: %w", err)
	}
	cfg.Timeout = timeout

	switch cfg.Encoding {
	case "form", "json":
	default:
		return nil, fmt.Errorf("SARA_CLIENT_ENCODING must be form or json, got %q", cfg.Encoding)
	}
	switch cfg.TokenSource {
	case "meta", "cookie":
	default:
		return nil, fmt.Errorf("SARA_CLIENT_TOKEN_SOURCE must be meta or cookie, got %q", cfg.TokenSource)
	}

	return cfg, nil
}
