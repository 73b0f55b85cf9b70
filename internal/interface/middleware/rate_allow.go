package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses rate limiting for loopback and RFC 1918 addresses,
// so health checks and internal monitoring never burn the public quota.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		if ip == nil {
			return false
		}
		return ip.IsLoopback() || ip.IsPrivate()
	}
}
