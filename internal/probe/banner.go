package probe

import (
	"net"
	"strings"
	"time"

	"github.com/soclabs/lookout/pkg/ports"
)

const (
	// bannerReadSize bounds a single banner read.
	bannerReadSize = 1024
	// bannerMaxLen bounds the stored banner text.
	bannerMaxLen = 100
	// httpProbeRequest is the minimal request written to HTTP-labeled ports
	// to elicit a response. Not a protocol-correct client: an error response
	// counts as a banner just as well as a real one.
	httpProbeRequest = "HEAD / HTTP/1.0\r\n\r\n"
)

// BannerReader grabs a short identification banner from an open connection.
// Returns BannerUnavailable on timeout, empty payload, or undecodable bytes;
// it never fails the probe. The caller still owns closing the connection.
type BannerReader interface {
	Read(conn net.Conn, spec ports.Spec) string
}

// DeadlineReader is the production BannerReader: a single bounded read,
// preceded by a minimal HTTP request for request/response-style services.
type DeadlineReader struct {
	Timeout time.Duration
}

// Read attempts the banner grab. Passive services get a bare read; services
// flagged SendRequest are prompted first.
func (r *DeadlineReader) Read(conn net.Conn, spec ports.Spec) string {
	deadline := time.Now().Add(r.Timeout)

	if spec.Strategy == ports.SendRequest {
		conn.SetWriteDeadline(deadline)
		if _, err := conn.Write([]byte(httpProbeRequest)); err != nil {
			return BannerUnavailable
		}
	}

	conn.SetReadDeadline(deadline)
	buf := make([]byte, bannerReadSize)
	n, _ := conn.Read(buf)
	if n == 0 {
		return BannerUnavailable
	}

	return sanitizeBanner(string(buf[:n]))
}

// sanitizeBanner makes raw service output safe to store: invalid UTF-8 is
// dropped rather than failing the probe, and the text is trimmed and
// truncated to bannerMaxLen runes.
func sanitizeBanner(raw string) string {
	s := strings.ToValidUTF8(raw, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return BannerUnavailable
	}

	runes := []rune(s)
	if len(runes) > bannerMaxLen {
		s = string(runes[:bannerMaxLen])
	}
	return s
}
