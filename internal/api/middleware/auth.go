// auth.go — аутентификация и авторизация запросов по Bearer-токену.
// Проверка токена вынесена в интерфейс TokenValidator: статический общий ключ
// (UM_AUTH_MODE=static) или JWT с ключами из JWKS (UM_AUTH_MODE=jwt).
// Роль субъекта: admin (чтение и запись) или readonly (только чтение).
package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apierrors "github.com/nicflores/user-manager-api/internal/api/errors"
	"github.com/nicflores/user-manager-api/internal/domain/rbac"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyPrincipal — аутентифицированный субъект в контексте запроса.
	ContextKeyPrincipal contextKey = "principal"
)

// ErrInvalidToken — токен не прошёл проверку.
var ErrInvalidToken = errors.New("невалидный токен")

// Principal — аутентифицированный субъект запроса.
type Principal struct {
	// Subject — sub из JWT или "api-key" для статического ключа.
	Subject string
	// Role — admin, readonly или "" (аутентифицирован, но без роли).
	Role string
	// Groups — группы из JWT.
	Groups []string
	// ExpiresAt — exp токена. Нулевое значение — без срока.
	ExpiresAt time.Time
}

// TokenValidator проверяет Bearer-токен и возвращает субъекта.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Principal, error)
}

// --- статический ключ ---

// StaticTokenValidator сверяет токен с общим ключом UM_API_KEY.
// Обладатель ключа получает роль admin.
type StaticTokenValidator struct {
	key []byte
}

// NewStaticTokenValidator создаёт валидатор общего ключа.
func NewStaticTokenValidator(key string) *StaticTokenValidator {
	return &StaticTokenValidator{key: []byte(key)}
}

// Validate сравнивает токен с ключом за постоянное время.
func (v *StaticTokenValidator) Validate(_ context.Context, token string) (*Principal, error) {
	if len(v.key) == 0 || subtle.ConstantTimeCompare([]byte(token), v.key) != 1 {
		return nil, ErrInvalidToken
	}
	return &Principal{Subject: "api-key", Role: rbac.RoleAdmin}, nil
}

// --- JWT ---

// JWTValidator проверяет JWT (RS256) по ключам из JWKS.
type JWTValidator struct {
	jwks           keyfunc.Keyfunc
	issuer         string
	groupsClaim    string
	adminGroups    []string
	readonlyGroups []string
	leeway         time.Duration
	logger         *slog.Logger
}

// JWTOptions — параметры JWTValidator.
type JWTOptions struct {
	Issuer         string
	GroupsClaim    string
	AdminGroups    []string
	ReadonlyGroups []string
	Leeway         time.Duration
}

// NewJWTValidator создаёт валидатор с JWKS, обновляемым в фоне.
// Стартует, даже если JWKS endpoint ещё недоступен.
func NewJWTValidator(jwksURL string, refreshInterval time.Duration, opts JWTOptions, logger *slog.Logger) (*JWTValidator, error) {
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("Ошибка обновления JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("создание JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{
		Storage: storage,
	})
	if err != nil {
		return nil, fmt.Errorf("создание keyfunc: %w", err)
	}

	return NewJWTValidatorWithKeyfunc(k, opts, logger), nil
}

// NewJWTValidatorWithKeyfunc создаёт валидатор с готовой keyfunc.
// Используется в тестах для подстановки JWKS.
func NewJWTValidatorWithKeyfunc(kf keyfunc.Keyfunc, opts JWTOptions, logger *slog.Logger) *JWTValidator {
	groupsClaim := opts.GroupsClaim
	if groupsClaim == "" {
		groupsClaim = "groups"
	}
	return &JWTValidator{
		jwks:           kf,
		issuer:         opts.Issuer,
		groupsClaim:    groupsClaim,
		adminGroups:    opts.AdminGroups,
		readonlyGroups: opts.ReadonlyGroups,
		leeway:         opts.Leeway,
		logger:         logger.With(slog.String("component", "jwt_validator")),
	}
}

// Validate проверяет подпись, exp и issuer, затем маппит группы в роль.
func (v *JWTValidator) Validate(ctx context.Context, token string) (*Principal, error) {
	claims := jwt.MapClaims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, v.jwks.KeyfuncCtx(ctx), parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: отсутствует sub", ErrInvalidToken)
	}

	p := &Principal{
		Subject: subject,
		Groups:  stringsClaim(claims[v.groupsClaim]),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Time
	}
	p.Role = rbac.MapGroupsToRole(p.Groups, v.adminGroups, v.readonlyGroups)
	return p, nil
}

// stringsClaim приводит claim-массив к []string; прочие типы игнорируются.
func stringsClaim(raw any) []string {
	switch val := raw.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	case string:
		return strings.Fields(val)
	default:
		return nil
	}
}

// --- кэш проверенных токенов ---

var (
	authCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "um_auth_cache_hits_total",
		Help: "Общее количество попаданий в кэш проверенных токенов.",
	})
	authCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "um_auth_cache_misses_total",
		Help: "Общее количество промахов кэша проверенных токенов.",
	})
)

// CachingValidator кэширует успешные проверки в LRU с TTL.
// Ключ кэша — SHA-256 токена, сами токены в памяти не хранятся.
// Запись не переживает exp токена.
type CachingValidator struct {
	next  TokenValidator
	cache *expirable.LRU[string, *Principal]
	now   func() time.Time
}

// NewCachingValidator оборачивает next кэшем. size == 0 отключает кэш.
func NewCachingValidator(next TokenValidator, size int, ttl time.Duration) TokenValidator {
	if size <= 0 {
		return next
	}
	return &CachingValidator{
		next:  next,
		cache: expirable.NewLRU[string, *Principal](size, nil, ttl),
		now:   time.Now,
	}
}

// Validate возвращает субъекта из кэша или проверяет токен через next.
func (c *CachingValidator) Validate(ctx context.Context, token string) (*Principal, error) {
	sum := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(sum[:])

	if p, ok := c.cache.Get(key); ok {
		if p.ExpiresAt.IsZero() || c.now().Before(p.ExpiresAt) {
			authCacheHitsTotal.Inc()
			return p, nil
		}
		c.cache.Remove(key)
	}
	authCacheMissesTotal.Inc()

	p, err := c.next.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, p)
	return p, nil
}

// --- middleware ---

// BearerAuth возвращает middleware, проверяющий заголовок Authorization.
// Отсутствующий или невалидный токен — 401.
func BearerAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "auth"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "Неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			token := strings.TrimSpace(parts[1])
			if token == "" {
				apierrors.Unauthorized(w, "Пустой Bearer token")
				return
			}

			principal, err := validator.Validate(r.Context(), token)
			if err != nil {
				logger.Debug("Токен не прошёл проверку",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, "Невалидный или просроченный токен")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole возвращает middleware, проверяющий роль субъекта:
// GET и HEAD требуют роль read, остальные методы — роль write.
// Должен использоваться ПОСЛЕ BearerAuth.
func RequireRole(read, write string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				apierrors.Unauthorized(w, "Отсутствует субъект в контексте")
				return
			}

			required := write
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				required = read
			}
			if !rbac.Allows(principal.Role, required) {
				apierrors.Forbidden(w, "Недостаточно прав: требуется роль "+required)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext извлекает субъекта из контекста запроса.
// Возвращает nil, если запрос не прошёл BearerAuth.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ContextKeyPrincipal).(*Principal)
	return p
}
