package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// clientIPHeaders are consulted in order; X-Forwarded-For contributes its
// left-most entry (the original client).
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP stores the client address under "real_ip". It is used for rate-limit
// keys and recorded in the verification email. Forwarding headers are only
// read when the peer is one of trustedProxies (IPs or CIDRs); otherwise the
// peer address itself is used. Invalid entries are skipped.
func RealIP(trustedProxies ...string) gin.HandlerFunc {
	trusted := parseNets(trustedProxies)
	return func(c *gin.Context) {
		peer := c.RemoteIP()
		ip := ""
		if fromTrusted(trusted, peer) {
			ip = headerIP(c)
		}
		if ip == "" {
			ip = peer
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}

func parseNets(entries []string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if !strings.Contains(e, "/") {
			if ip := net.ParseIP(e); ip != nil {
				bits := 8 * len(ip.To16())
				if ip.To4() != nil {
					ip, bits = ip.To4(), 32
				}
				nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			}
			continue
		}
		if _, n, err := net.ParseCIDR(e); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}

func fromTrusted(nets []*net.IPNet, peer string) bool {
	ip := net.ParseIP(peer)
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func headerIP(c *gin.Context) string {
	for _, h := range clientIPHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
	}
	return ""
}
