package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const msgRateLimited = "слишком много запросов, попробуйте позже"

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimiter ограничение частоты запросов фиксированным окном в Redis
// Ключ окна: организация + IP клиента, поэтому счётчики общие для всех экземпляров сервиса
type RateLimiter struct {
	rdb     redis.Scripter
	limit   int
	window  time.Duration
	prefix  string
	proxies []*net.IPNet
	logger  Logger
}

// NewRateLimiter создает ограничитель
func NewRateLimiter(rdb redis.Scripter, limit int, window time.Duration, logger Logger) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{rdb: rdb, limit: limit, window: window, prefix: "scheduling:rl", logger: logger}
}

// WithTrustedProxies задаёт подсети прокси, которым доверяется заголовок X-Forwarded-For
// Без них ключом служит адрес TCP соединения
func (rl *RateLimiter) WithTrustedProxies(cidrs []string) (*RateLimiter, error) {
	proxies := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", cidr, err)
		}
		proxies = append(proxies, ipNet)
	}
	rl.proxies = proxies
	return rl, nil
}

// Middleware отклоняет запросы сверх лимита с 429
// При недоступности Redis запросы пропускаются
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.prefix + ":" + rl.clientKey(r)

		count, err := rl.incr(r.Context(), key)
		if err != nil {
			rl.logger.Warn("%s %s - Rate limiter unavailable: %v", r.Method, r.URL.Path, err)
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(rl.limit) {
			rl.logger.Warn("%s %s - Rate limit exceeded: key=%s, count=%d", r.Method, r.URL.Path, key, count)
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			handlers.RespondTooManyRequests(w, msgRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) clientKey(r *http.Request) string {
	org := "-"
	if tenant, ok := GetTenant(r.Context()); ok {
		org = tenant.Slug
	}
	return org + ":" + rl.clientIP(r)
}

func (rl *RateLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// clientIP адрес соединения; если оно пришло от доверенного прокси, X-Forwarded-For
// разбирается справа налево до первого адреса не из доверенных подсетей
func (rl *RateLimiter) clientIP(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !rl.trusted(remote) {
		return remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" || net.ParseIP(hop) == nil {
			break
		}
		if !rl.trusted(hop) {
			return hop
		}
		remote = hop
	}
	return remote
}

func (rl *RateLimiter) trusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, ipNet := range rl.proxies {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}
