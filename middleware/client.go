package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP returns the first valid address from X-Forwarded-For, then
// X-Real-IP, then the connection's remote address.
func getClientIP(c *gin.Context) string {
	for _, candidate := range strings.Split(c.GetHeader("X-Forwarded-For"), ",") {
		if ip := strings.TrimSpace(candidate); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}

// limiterKey buckets gate scanners by lot and everyone else by IP.
func limiterKey(c *gin.Context) string {
	if lotID := c.GetHeader("X-Lot-ID"); lotID != "" && c.GetHeader("X-Scanner-Key") != "" {
		return "lot:" + lotID
	}
	return "ip:" + getClientIP(c)
}
