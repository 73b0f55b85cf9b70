package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey holds the resolved client IP for the rate limiter and logs.
const CtxRealIPKey = "real_ip"

// RealIP resolves the client address once per request, preferring proxy
// headers over the socket peer: X-Real-IP, then the left-most entry of
// X-Forwarded-For, then gin's ClientIP.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ip := headerIP(c.GetHeader("X-Real-IP")); ip != "" {
			c.Set(CtxRealIPKey, ip)
			c.Next()
			return
		}
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := headerIP(first); ip != "" {
				c.Set(CtxRealIPKey, ip)
				c.Next()
				return
			}
		}
		c.Set(CtxRealIPKey, c.ClientIP())
		c.Next()
	}
}

// headerIP validates a header value as an IP; spoofed garbage is discarded.
func headerIP(v string) string {
	ip := net.ParseIP(strings.TrimSpace(v))
	if ip == nil {
		return ""
	}
	return ip.String()
}
