// Package identity implements identity binding: deriving the caller's
// network address from proxy headers and maintaining the append-only
// address-to-user link log.
package identity

import (
	"net/http"
	"net/netip"
	"strings"
)

// ObservedAddress derives the caller's network address from proxy headers.
// An explicit X-Forwarded-For value (first entry) is preferred over
// X-Real-IP, and an IPv4-mapped IPv6 representation is unwrapped to its IPv4
// form. Returns the empty string when no usable header is present.
func ObservedAddress(h http.Header) string {
	raw := ""
	if fwd := h.Get("X-Forwarded-For"); fwd != "" {
		raw = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	} else if real := h.Get("X-Real-Ip"); real != "" {
		raw = strings.TrimSpace(real)
	}
	if raw == "" {
		return ""
	}

	if addr, err := netip.ParseAddr(raw); err == nil {
		return addr.Unmap().String()
	}
	return raw
}
