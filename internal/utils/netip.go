package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP returns the address a request is attributed to by the access
// list and the findings quota. Proxy headers count only when trustProxy
// is set: the left-most X-Forwarded-For hop first, then X-Real-IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, v := range []string{firstHop(r.Header.Get("X-Forwarded-For")), r.Header.Get("X-Real-IP")} {
			if ip := hostOnly(strings.TrimSpace(v)); ip != "" {
				return ip
			}
		}
	}
	return hostOnly(r.RemoteAddr)
}

func firstHop(xff string) string {
	hop, _, _ := strings.Cut(xff, ",")
	return hop
}

// hostOnly strips the port from "ip:port" and "[v6]:port".
func hostOnly(s string) string {
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// AllowList holds the client addresses allowed to reach the API.
// IPv4-mapped IPv6 addresses match their IPv4 form.
type AllowList struct {
	prefixes []netip.Prefix
}

// ParseAllowList builds an allow list from single IPs and CIDRs.
// Entries that are neither are returned in rejected and skipped.
func ParseAllowList(entries []string) (list *AllowList, rejected []string) {
	list = &AllowList{}
	for _, raw := range entries {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			list.prefixes = append(list.prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			rejected = append(rejected, s)
			continue
		}
		addr = addr.Unmap()
		list.prefixes = append(list.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return list, rejected
}

// Empty reports whether the list filters nothing.
func (a *AllowList) Empty() bool {
	return len(a.prefixes) == 0
}

// Contains reports whether ip is allowed. Unparsable input never is.
func (a *AllowList) Contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range a.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
