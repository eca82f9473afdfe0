package security

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"homework_backend/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 未配置时的默认放行列表，覆盖作业前端用到的头和方法
var (
	defaultAllowedHeaders = []string{
		"Content-Type", "Content-Length", "Accept", "Origin",
		"Cache-Control", "Authorization", "X-Requested-With",
	}
	defaultAllowedMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions,
	}
)

// CORS 仅回显白名单中的Origin；允许的头和方法列表可在配置中覆盖
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	originSet := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		originSet[o] = struct{}{}
	}

	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultAllowedHeaders
	}
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultAllowedMethods
	}
	allowHeaders := strings.Join(headers, ", ")
	allowMethods := strings.Join(methods, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if _, ok := originSet[origin]; ok && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Header("Access-Control-Allow-Methods", allowMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Secure 基础安全响应头
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// client 单个来源IP的限流状态
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按来源IP限流。过期条目在请求路径上顺手清理，
// 不开后台协程。
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
		lastGC  = time.Now()
	)
	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	limit := rate.Every(window / time.Duration(maxRequests))

	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()

		mu.Lock()
		if now.Sub(lastGC) > expiry {
			for k, v := range clients {
				if now.Sub(v.lastSeen) > expiry {
					delete(clients, k)
				}
			}
			lastGC = now
		}
		cl, ok := clients[ip]
		if !ok {
			cl = &client{limiter: rate.NewLimiter(limit, maxRequests)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		mu.Unlock()

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
