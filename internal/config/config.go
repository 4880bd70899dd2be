package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	API struct {
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"api"`

	Session struct {
		// Archivo donde se persiste la cookie de sesión entre invocaciones.
		// "-" = sesión sólo en memoria.
		File string `yaml:"file"`
	} `yaml:"session"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	UI struct {
		Out       string        `yaml:"out"`    // text | json
		Locale    string        `yaml:"locale"` // BCP 47, ej. "es", "en", "zh"
		NoColor   bool          `yaml:"no_color"`
		NotifyTTL time.Duration `yaml:"notify_ttl"`
		LogLines  int           `yaml:"log_lines"`
		LogLevel  string        `yaml:"log_level"` // filtro de logs del monitor
	} `yaml:"ui"`

	Metrics struct {
		Addr string `yaml:"addr"` // vacío = sin /metrics
	} `yaml:"metrics"`

	DevBackend struct {
		Addr         string        `yaml:"addr"`
		InitUser     string        `yaml:"init_user"`
		InitPassword string        `yaml:"init_password"`
		SessionTTL   time.Duration `yaml:"session_ttl"`
		CookieName   string        `yaml:"cookie_name"`
		// Límite de intentos de login por usuario+IP.
		LoginAttempts int           `yaml:"login_attempts"`
		LoginWindow   time.Duration `yaml:"login_window"`
		// Firma la cookie de sesión y cifra la contraseña SMTP guardada.
		SecretKey string `yaml:"secret_key"`
		// Líneas de log que se guardan para GET /monitor/logs.
		LogBuffer int `yaml:"log_buffer"`

		Sessions struct {
			Driver        string `yaml:"driver"` // memory | redis
			RedisAddr     string `yaml:"redis_addr"`
			RedisPassword string `yaml:"redis_password"`
			RedisDB       int    `yaml:"redis_db"`
		} `yaml:"sessions"`
	} `yaml:"dev_backend"`
}

// Default devuelve la configuración sin archivo ni entorno.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// Load lee el YAML (si path no está vacío y existe), aplica defaults,
// overrides por entorno y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// sin archivo: defaults + env
		default:
			return nil, err
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:5000/api"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = "quicknotify-cli"
	}
	if c.Session.File == "" {
		c.Session.File = DefaultSessionFile()
	}
	if c.Session.File == "-" {
		c.Session.File = ""
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.UI.Out == "" {
		c.UI.Out = "text"
	}
	if c.UI.Locale == "" {
		c.UI.Locale = "es"
	}
	if c.UI.NotifyTTL == 0 {
		c.UI.NotifyTTL = 3 * time.Second
	}
	if c.UI.LogLines == 0 {
		c.UI.LogLines = 50
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = "ALL"
	}
	if c.DevBackend.Addr == "" {
		c.DevBackend.Addr = ":5000"
	}
	if c.DevBackend.InitUser == "" {
		c.DevBackend.InitUser = "admin"
	}
	if c.DevBackend.InitPassword == "" {
		c.DevBackend.InitPassword = "123456"
	}
	if c.DevBackend.SessionTTL == 0 {
		c.DevBackend.SessionTTL = 30 * time.Minute
	}
	if c.DevBackend.CookieName == "" {
		c.DevBackend.CookieName = "session"
	}
	if c.DevBackend.LoginAttempts == 0 {
		c.DevBackend.LoginAttempts = 10
	}
	if c.DevBackend.LoginWindow == 0 {
		c.DevBackend.LoginWindow = time.Minute
	}
	if c.DevBackend.SecretKey == "" {
		c.DevBackend.SecretKey = "quicknotify-default-key"
	}
	if c.DevBackend.LogBuffer == 0 {
		c.DevBackend.LogBuffer = 1000
	}
	if c.DevBackend.Sessions.Driver == "" {
		c.DevBackend.Sessions.Driver = "memory"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d, true
		}
	}
	return 0, false
}

// applyEnvOverrides: pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}

	// API
	if v, ok := getEnvStr("QUICKNOTIFY_API_URL"); ok {
		c.API.BaseURL = v
	}
	if v, ok := getEnvDur("QUICKNOTIFY_TIMEOUT"); ok {
		c.API.Timeout = v
	}
	if v, ok := getEnvStr("QUICKNOTIFY_SESSION_FILE"); ok {
		c.Session.File = v
		if v == "-" {
			c.Session.File = ""
		}
	}

	// LOG / UI
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("QUICKNOTIFY_OUT"); ok {
		c.UI.Out = strings.ToLower(v)
	}
	if v, ok := getEnvStr("QUICKNOTIFY_LOCALE"); ok {
		c.UI.Locale = v
	}
	if _, ok := getEnvStr("NO_COLOR"); ok {
		c.UI.NoColor = true
	}
	if v, ok := getEnvBool("QUICKNOTIFY_NO_COLOR"); ok {
		c.UI.NoColor = v
	}
	if v, ok := getEnvInt("QUICKNOTIFY_LOG_LINES"); ok {
		c.UI.LogLines = v
	}
	if v, ok := getEnvStr("METRICS_ADDR"); ok {
		c.Metrics.Addr = v
	}

	// DEV BACKEND
	if v, ok := getEnvStr("DEVBACKEND_ADDR"); ok {
		c.DevBackend.Addr = v
	}
	if v, ok := getEnvStr("INIT_USER"); ok {
		c.DevBackend.InitUser = v
	}
	if v, ok := getEnvStr("INIT_PWD"); ok {
		c.DevBackend.InitPassword = v
	}
	if v, ok := getEnvDur("SESSION_TTL"); ok {
		c.DevBackend.SessionTTL = v
	}
	if v, ok := getEnvInt("LOGIN_MAX_ATTEMPTS"); ok {
		c.DevBackend.LoginAttempts = v
	}
	if v, ok := getEnvStr("SECRET_KEY"); ok {
		c.DevBackend.SecretKey = v
	}
	if v, ok := getEnvStr("SESSION_DRIVER"); ok {
		c.DevBackend.Sessions.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.DevBackend.Sessions.RedisAddr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.DevBackend.Sessions.RedisPassword = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.DevBackend.Sessions.RedisDB = v
	}
}

// Validate revisa los valores críticos.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url inválida: %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout negativo: %s", c.API.Timeout)
	}
	switch c.UI.Out {
	case "text", "json":
	default:
		return fmt.Errorf("ui.out debe ser text|json, no %q", c.UI.Out)
	}
	if c.UI.LogLines < 0 {
		return fmt.Errorf("ui.log_lines negativo: %d", c.UI.LogLines)
	}
	switch c.DevBackend.Sessions.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("dev_backend.sessions.driver debe ser memory|redis, no %q", c.DevBackend.Sessions.Driver)
	}
	return nil
}

// DefaultSessionFile devuelve ~/.quicknotify/session.json (o "" si no hay HOME).
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".quicknotify", "session.json")
}
