package recon

import (
	"context"

	"github.com/soclabs/lookout/internal/engine"
	"github.com/soclabs/lookout/internal/probe"
)

// Whois implements engine.WhoisClient.
type Whois struct{}

// Lookup queries and parses WHOIS data for a domain.
func (Whois) Lookup(ctx context.Context, domain string) (*engine.WhoisInfo, error) {
	return WhoisLookup(ctx, domain)
}

// Records implements engine.RecordResolver.
type Records struct{}

// Lookup fetches the supported DNS record sets for a domain.
func (Records) Lookup(ctx context.Context, domain string) (*engine.DNSRecords, error) {
	return LookupRecords(ctx, domain)
}

// Geo implements engine.GeoLocator against ip-api.com.
type Geo struct {
	UserAgent string
}

// Locate resolves an IP to geolocation data.
func (g Geo) Locate(ctx context.Context, ip string) (*engine.GeoInfo, error) {
	return GeoLocate(ctx, ip, g.UserAgent)
}

// Scanner implements engine.PortScanner on top of the probe engine.
type Scanner struct {
	Engine *probe.Engine
}

// Scan runs the full catalog probe against one target.
func (s Scanner) Scan(ctx context.Context, target string) (*probe.Report, error) {
	return s.Engine.Scan(ctx, target)
}
