package support

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type clientOriginKey struct{}

// ResolveClientOrigin returns the address the request originally came from.
// X-Forwarded-For wins (first hop of the chain), then X-Real-IP, then the
// transport peer. The second return value is false when nothing is known.
func ResolveClientOrigin(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}

	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first, true
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP, true
	}

	return peerAddress(r.RemoteAddr)
}

func peerAddress(remoteAddr string) (string, bool) {
	remoteAddr = strings.TrimSpace(remoteAddr)
	if remoteAddr == "" {
		return "", false
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		if host == "" {
			return "", false
		}
		return host, true
	}
	return remoteAddr, true
}

// WithClientOrigin stores a resolved origin on the context.
func WithClientOrigin(ctx context.Context, origin string) context.Context {
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, clientOriginKey{}, origin)
}

// ClientOriginFrom reads the origin stored by WithClientOrigin.
func ClientOriginFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	origin, ok := ctx.Value(clientOriginKey{}).(string)
	return origin, ok && origin != ""
}
