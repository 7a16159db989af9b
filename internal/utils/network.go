package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealIP extracts the real client IP from the request, preferring
// X-Real-IP, then the first public address in X-Forwarded-For, then Gin's
// ClientIP fallback.
func GetRealIP(c *gin.Context) string {
	realIP := strings.TrimSpace(c.Request.Header.Get("X-Real-IP"))
	if realIP != "" && net.ParseIP(realIP) != nil && !isPrivateIP(net.ParseIP(realIP)) {
		return realIP
	}

	forwarded := c.Request.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		for _, ipStr := range ips {
			candidate := strings.TrimSpace(ipStr)
			ip := net.ParseIP(candidate)
			if ip != nil && !isPrivateIP(ip) && !isLocalhost(candidate) {
				return candidate
			}
		}
		first := strings.TrimSpace(ips[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	return c.ClientIP()
}

func isLocalhost(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1"
}

func isPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, cidr := range []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"} {
		_, subnet, _ := net.ParseCIDR(cidr)
		if subnet.Contains(ip) {
			return true
		}
	}
	return false
}
