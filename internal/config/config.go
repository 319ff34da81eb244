// Пакет config — загрузка и валидация конфигурации user-manager
// из переменных окружения (префикс UM_).
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Режимы аутентификации.
const (
	// AuthModeStatic — один общий bearer-токен (UM_API_KEY).
	AuthModeStatic = "static"
	// AuthModeJWT — JWT, подписанные ключами из JWKS.
	AuthModeJWT = "jwt"
)

// Config содержит все параметры конфигурации сервиса.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Аутентификация ---

	// Режим: static или jwt
	AuthMode string
	// Общий bearer-токен (режим static)
	APIKey string
	// Issuer JWT (режим jwt)
	JWTIssuer string
	// URL JWKS endpoint (режим jwt)
	JWTJWKSURL string
	// Claim для групп в JWT
	JWTGroupsClaim string
	// Период обновления JWKS
	JWKSRefreshInterval time.Duration
	// Допуск расхождения часов при проверке exp/nbf
	JWTLeeway time.Duration
	// Размер кэша проверенных токенов
	AuthCacheSize int
	// Время жизни записи в кэше проверенных токенов
	AuthCacheTTL time.Duration

	// --- Маппинг групп → ролей ---

	// Группы, дающие роль admin (через запятую)
	RoleAdminGroups []string
	// Группы, дающие роль readonly (через запятую)
	RoleReadonlyGroups []string

	// --- Ключи ---

	// fernet-ключ для шифрования секретов в БД (пусто — временный ключ)
	SecretsKey string
	// Число одновременных генераций RSA-ключей
	KeygenWorkers int

	// --- topologymetrics ---

	DephealthGroup         string
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// UM_PORT — порт HTTP-сервера (по умолчанию 3000)
	cfg.Port, err = getEnvInt("UM_PORT", 3000)
	if err != nil {
		return nil, fmt.Errorf("UM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("UM_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// UM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("UM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("UM_LOG_LEVEL: %w", err)
	}

	// UM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("UM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("UM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	cfg.DBHost, err = getEnvRequired("UM_DB_HOST")
	if err != nil {
		return nil, err
	}

	cfg.DBPort, err = getEnvInt("UM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("UM_DB_PORT: %w", err)
	}

	cfg.DBName, err = getEnvRequired("UM_DB_NAME")
	if err != nil {
		return nil, err
	}

	cfg.DBUser, err = getEnvRequired("UM_DB_USER")
	if err != nil {
		return nil, err
	}

	cfg.DBPassword, err = getEnvRequired("UM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// UM_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("UM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("UM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Аутентификация ---

	// UM_AUTH_MODE — static (по умолчанию) или jwt
	cfg.AuthMode = getEnvDefault("UM_AUTH_MODE", AuthModeStatic)
	switch cfg.AuthMode {
	case AuthModeStatic:
		cfg.APIKey, err = getEnvRequired("UM_API_KEY")
		if err != nil {
			return nil, err
		}
	case AuthModeJWT:
		cfg.JWTIssuer, err = getEnvRequired("UM_JWT_ISSUER")
		if err != nil {
			return nil, err
		}
		cfg.JWTJWKSURL, err = getEnvRequired("UM_JWT_JWKS_URL")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("UM_AUTH_MODE: недопустимое значение %q, допустимые: static, jwt", cfg.AuthMode)
	}

	// UM_JWT_GROUPS_CLAIM — claim для групп (по умолчанию groups)
	cfg.JWTGroupsClaim = getEnvDefault("UM_JWT_GROUPS_CLAIM", "groups")

	cfg.JWKSRefreshInterval, err = getEnvDuration("UM_JWKS_REFRESH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("UM_JWKS_REFRESH_INTERVAL: %w", err)
	}

	cfg.JWTLeeway, err = getEnvDuration("UM_JWT_LEEWAY", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("UM_JWT_LEEWAY: %w", err)
	}

	// UM_AUTH_CACHE_SIZE — 0 отключает кэш
	cfg.AuthCacheSize, err = getEnvInt("UM_AUTH_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("UM_AUTH_CACHE_SIZE: %w", err)
	}
	if cfg.AuthCacheSize < 0 {
		return nil, fmt.Errorf("UM_AUTH_CACHE_SIZE: значение %d не может быть отрицательным", cfg.AuthCacheSize)
	}

	cfg.AuthCacheTTL, err = getEnvDuration("UM_AUTH_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("UM_AUTH_CACHE_TTL: %w", err)
	}

	// --- Маппинг групп → ролей ---

	cfg.RoleAdminGroups = parseCSV(getEnvDefault("UM_ROLE_ADMIN_GROUPS", "onboarding-admins"))
	cfg.RoleReadonlyGroups = parseCSV(getEnvDefault("UM_ROLE_READONLY_GROUPS", "onboarding-viewers"))

	// --- Ключи ---

	cfg.SecretsKey = getEnvDefault("UM_SECRETS_KEY", "")

	// UM_KEYGEN_WORKERS — по умолчанию число CPU
	cfg.KeygenWorkers, err = getEnvInt("UM_KEYGEN_WORKERS", min(runtime.NumCPU(), 64))
	if err != nil {
		return nil, fmt.Errorf("UM_KEYGEN_WORKERS: %w", err)
	}
	if cfg.KeygenWorkers < 1 || cfg.KeygenWorkers > 64 {
		return nil, fmt.Errorf("UM_KEYGEN_WORKERS: значение %d вне допустимого диапазона 1-64", cfg.KeygenWorkers)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("UM_DEPHEALTH_GROUP", "onboarding")

	cfg.DephealthCheckInterval, err = getEnvDuration("UM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("UM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("UM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("UM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате key=value.
// Значения берутся в одинарные кавычки: пароль может содержать пробелы.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		dsnQuote(c.DBHost), c.DBPort, dsnQuote(c.DBName), dsnQuote(c.DBUser),
		dsnQuote(c.DBPassword), dsnQuote(c.DBSSLMode),
	)
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func dsnQuote(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// DatabaseURL возвращает URL подключения в формате postgres://.
// Используется golang-migrate (со схемой pgx5) и dephealth.
func (c *Config) DatabaseURL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// PublicConfig — безопасное представление конфигурации для GET /api/v1/config.
type PublicConfig struct {
	Version         string   `json:"version"`
	Port            int      `json:"port"`
	LogLevel        string   `json:"log_level"`
	LogFormat       string   `json:"log_format"`
	DBHost          string   `json:"db_host"`
	DBPort          int      `json:"db_port"`
	DBName          string   `json:"db_name"`
	DBUser          string   `json:"db_user"`
	DBSSLMode       string   `json:"db_ssl_mode"`
	AuthMode        string   `json:"auth_mode"`
	APIKey          string   `json:"api_key,omitempty"`
	JWTIssuer       string   `json:"jwt_issuer,omitempty"`
	JWTJWKSURL      string   `json:"jwt_jwks_url,omitempty"`
	AdminGroups     []string `json:"role_admin_groups"`
	ReadonlyGroups  []string `json:"role_readonly_groups"`
	KeygenWorkers   int      `json:"keygen_workers"`
	SecretsKeySet   bool     `json:"secrets_key_set"`
	ShutdownTimeout string   `json:"shutdown_timeout"`
}

// Public возвращает конфигурацию без паролей; API-ключ маскируется.
// mask — функция маскирования (secrets.Mask).
func (c *Config) Public(mask func(string) string) PublicConfig {
	return PublicConfig{
		Version:         Version,
		Port:            c.Port,
		LogLevel:        strings.ToLower(c.LogLevel.String()),
		LogFormat:       c.LogFormat,
		DBHost:          c.DBHost,
		DBPort:          c.DBPort,
		DBName:          c.DBName,
		DBUser:          c.DBUser,
		DBSSLMode:       c.DBSSLMode,
		AuthMode:        c.AuthMode,
		APIKey:          mask(c.APIKey),
		JWTIssuer:       c.JWTIssuer,
		JWTJWKSURL:      c.JWTJWKSURL,
		AdminGroups:     c.RoleAdminGroups,
		ReadonlyGroups:  c.RoleReadonlyGroups,
		KeygenWorkers:   c.KeygenWorkers,
		SecretsKeySet:   c.SecretsKey != "",
		ShutdownTimeout: c.ShutdownTimeout.String(),
	}
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
