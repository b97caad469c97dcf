package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda "dev".
	App struct {
		// dev | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
		// Un solo origin permitido, con credenciales (cookies).
		CORSAllowedOrigin string `yaml:"cors_allowed_origin"`
		// Addr del mux operacional (/metrics, /readyz). Vacío = deshabilitado.
		MetricsAddr  string `yaml:"metrics_addr"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`

	// Identity provider externo (GoTrue-style REST).
	Provider struct {
		BaseURL string `yaml:"base_url"`
		// Key pública/anónima: signup, login, refresh, recover.
		AnonKey string `yaml:"anon_key"`
		// Key privilegiada (service role): borrado admin de identidades.
		ServiceKey string `yaml:"service_key"`
		Timeout    string `yaml:"timeout"`
	} `yaml:"provider"`

	// Frontend que recibe el redirect del email de reset.
	Client struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"client"`

	// Tabla profiles (Postgres).
	Storage struct {
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	// Cookie del refresh token.
	Cookie struct {
		Name     string `yaml:"name"`
		Domain   string `yaml:"domain"`
		SameSite string `yaml:"samesite"`
		TTL      string `yaml:"ttl"`
	} `yaml:"cookie"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		// memory | redis
		Backend string `yaml:"backend"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`

		Login struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`

		Forgot struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"forgot"`
	} `yaml:"rate"`
}

// Load lee la configuración desde un YAML opcional y la pisa con variables de
// entorno. Con path vacío (o archivo inexistente) queda defaults + env, porque
// el deploy típico de este servicio es solo-env.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
			// seguir con defaults + env
		default:
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.CORSAllowedOrigin == "" {
		c.Server.CORSAllowedOrigin = "http://localhost:3000"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Provider.Timeout == "" {
		c.Provider.Timeout = "10s"
	}
	if c.Cookie.Name == "" {
		c.Cookie.Name = "refreshToken"
	}
	if c.Cookie.SameSite == "" {
		c.Cookie.SameSite = "strict"
	}
	if c.Cookie.TTL == "" {
		c.Cookie.TTL = "168h" // 7d
	}
	if c.Rate.Backend == "" {
		c.Rate.Backend = "memory"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Rate.Forgot.Limit == 0 {
		c.Rate.Forgot.Limit = 5
	}
	if c.Rate.Forgot.Window == "" {
		c.Rate.Forgot.Window = "10m"
	}
	if c.Storage.Postgres.MaxOpenConns == 0 {
		c.Storage.Postgres.MaxOpenConns = 10
	}
	if c.Storage.Postgres.ConnMaxLifetime == "" {
		c.Storage.Postgres.ConnMaxLifetime = "30m"
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// IsProd indica si corremos en producción (afecta cookie Secure y stack traces).
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.App.Env, "prod")
}

// ProviderTimeout parsea Provider.Timeout (ya validado en Load).
func (c *Config) ProviderTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Provider.Timeout)
	return d
}

// CookieTTL parsea Cookie.TTL (ya validado en Load).
func (c *Config) CookieTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cookie.TTL)
	return d
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

// applyEnvOverrides: pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("PORT"); ok {
		// compat con el deploy original, que solo exporta PORT
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v, ok := getEnvStr("CLIENT_URL"); ok {
		c.Server.CORSAllowedOrigin = v
		c.Client.BaseURL = v
	}
	if v, ok := getEnvStr("SERVER_METRICS_ADDR"); ok {
		c.Server.MetricsAddr = v
	}

	// PROVIDER
	if v, ok := getEnvStr("SUPABASE_URL"); ok {
		c.Provider.BaseURL = v
	}
	if v, ok := getEnvStr("SUPABASE_ANON_KEY"); ok {
		c.Provider.AnonKey = v
	}
	if v, ok := getEnvStr("SUPABASE_SERVICE_ROLE_KEY"); ok {
		c.Provider.ServiceKey = v
	}
	if v, ok := getEnvStr("PROVIDER_TIMEOUT"); ok {
		c.Provider.Timeout = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}

	// COOKIE
	if v, ok := getEnvStr("COOKIE_NAME"); ok {
		c.Cookie.Name = v
	}
	if v, ok := getEnvStr("COOKIE_DOMAIN"); ok {
		c.Cookie.Domain = v
	}
	if v, ok := getEnvStr("COOKIE_SAMESITE"); ok {
		c.Cookie.SameSite = v
	}
	if v, ok := getEnvStr("COOKIE_TTL"); ok {
		c.Cookie.TTL = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("RATE_BACKEND"); ok {
		c.Rate.Backend = v
	}
	if v, ok := getEnvStr("RATE_REDIS_ADDR"); ok {
		c.Rate.Redis.Addr = v
	}
	if v, ok := getEnvStr("RATE_REDIS_PASSWORD"); ok {
		c.Rate.Redis.Password = v
	}
	if v, ok := getEnvInt("RATE_REDIS_DB"); ok {
		c.Rate.Redis.DB = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvStr("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}
	if v, ok := getEnvInt("RATE_FORGOT_LIMIT"); ok {
		c.Rate.Forgot.Limit = v
	}
	if v, ok := getEnvStr("RATE_FORGOT_WINDOW"); ok {
		c.Rate.Forgot.Window = v
	}
}

// Validate verifica lo mínimo para poder arrancar.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider.BaseURL) == "" {
		return errors.New("config: provider.base_url (SUPABASE_URL) es obligatorio")
	}
	if strings.TrimSpace(c.Provider.AnonKey) == "" {
		return errors.New("config: provider.anon_key (SUPABASE_ANON_KEY) es obligatorio")
	}
	if strings.TrimSpace(c.Provider.ServiceKey) == "" {
		return errors.New("config: provider.service_key (SUPABASE_SERVICE_ROLE_KEY) es obligatorio")
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		return errors.New("config: storage.dsn (STORAGE_DSN) es obligatorio")
	}
	for _, d := range []string{
		c.Provider.Timeout, c.Cookie.TTL,
		c.Server.ReadTimeout, c.Server.WriteTimeout,
		c.Rate.Login.Window, c.Rate.Forgot.Window,
		c.Storage.Postgres.ConnMaxLifetime,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return errors.New("config: duración inválida: " + d)
		}
	}
	if c.Rate.Enabled && c.Rate.Backend == "redis" && strings.TrimSpace(c.Rate.Redis.Addr) == "" {
		return errors.New("config: rate.redis.addr es obligatorio con backend redis")
	}
	return nil
}
