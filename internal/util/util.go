package util

import (
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
)

// RandomSlug draws n characters independently and uniformly (with
// replacement) from the alphabet.
func RandomSlug(alphabet string, n int) string {
	chars := []rune(alphabet)
	b := make([]rune, n)
	for i := range b {
		b[i] = chars[rand.IntN(len(chars))]
	}
	return string(b)
}

// ClientIP extracts the originating address, preferring X-Forwarded-For
// when the service sits behind a proxy.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
