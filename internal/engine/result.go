// Package engine orchestrates the lookout recon pipeline.
package engine

import (
	"context"
	"time"

	"github.com/soclabs/lookout/internal/probe"
)

// Report is the top-level output of one lookout run.
type Report struct {
	Metadata Metadata      `json:"metadata"`
	Whois    *WhoisInfo    `json:"whois"`
	DNS      *DNSRecords   `json:"dns"`
	Geo      *GeoInfo      `json:"geo"`
	Ports    *probe.Report `json:"ports"`
	Warnings []string      `json:"warnings,omitempty"`
	Summary  Summary       `json:"summary"`
}

// Metadata describes when and against what the report was generated.
type Metadata struct {
	GeneratedAt  time.Time `json:"generated_at"`
	Target       string    `json:"target"`
	AnalysisType string    `json:"analysis_type"`
	Tool         string    `json:"tool"`
	DurationSecs float64   `json:"duration_secs"`
}

// WhoisInfo holds the registration details extracted from a WHOIS response.
type WhoisInfo struct {
	Domain         string   `json:"domain"`
	Registrar      string   `json:"registrar,omitempty"`
	CreatedDate    string   `json:"created_date,omitempty"`
	ExpirationDate string   `json:"expiration_date,omitempty"`
	NameServers    []string `json:"name_servers,omitempty"`
	Country        string   `json:"country,omitempty"`
	Org            string   `json:"org,omitempty"`
}

// DNSRecords holds the record sets found for a domain, one slice per type.
// Absent types stay empty rather than erroring the lookup.
type DNSRecords struct {
	A     []string   `json:"a,omitempty"`
	AAAA  []string   `json:"aaaa,omitempty"`
	MX    []MXRecord `json:"mx,omitempty"`
	TXT   []string   `json:"txt,omitempty"`
	NS    []string   `json:"ns,omitempty"`
	CNAME []string   `json:"cname,omitempty"`
}

// TypesFound counts how many record types returned at least one record.
func (d *DNSRecords) TypesFound() int {
	n := 0
	for _, populated := range []bool{
		len(d.A) > 0,
		len(d.AAAA) > 0,
		len(d.MX) > 0,
		len(d.TXT) > 0,
		len(d.NS) > 0,
		len(d.CNAME) > 0,
	} {
		if populated {
			n++
		}
	}
	return n
}

// MXRecord is a single mail exchanger entry.
type MXRecord struct {
	Preference uint16 `json:"preference"`
	Host       string `json:"host"`
}

// GeoInfo holds IP geolocation data.
type GeoInfo struct {
	IP      string  `json:"ip"`
	Country string  `json:"country,omitempty"`
	Region  string  `json:"region,omitempty"`
	City    string  `json:"city,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	ISP     string  `json:"isp,omitempty"`
	Org     string  `json:"org,omitempty"`
}

// Summary provides aggregate counts for the run.
type Summary struct {
	WhoisCompleted bool `json:"whois_completed"`
	DNSTypesFound  int  `json:"dns_types_found"`
	GeoLocated     bool `json:"geo_located"`
	PortsProbed    int  `json:"ports_probed"`
	OpenPorts      int  `json:"open_ports"`
}

// WhoisClient looks up domain registration data.
type WhoisClient interface {
	Lookup(ctx context.Context, domain string) (*WhoisInfo, error)
}

// RecordResolver queries DNS record sets for a domain.
type RecordResolver interface {
	Lookup(ctx context.Context, domain string) (*DNSRecords, error)
}

// GeoLocator resolves an IP address to geolocation data.
type GeoLocator interface {
	Locate(ctx context.Context, ip string) (*GeoInfo, error)
}

// PortScanner probes the configured port catalog against one target.
type PortScanner interface {
	Scan(ctx context.Context, target string) (*probe.Report, error)
}

// ProgressReporter is called by the engine to report stage progress.
type ProgressReporter interface {
	Stage(num, total int, msg string)
	Detail(msg string)
	Warn(msg string)
}
