// Package ports provides the common-port catalog used for scanning.
package ports

import (
	"fmt"
	"sort"
)

// BannerStrategy selects how the banner reader approaches a service
// once a connection is open.
type BannerStrategy int

const (
	// PassiveRead waits for the service to send a greeting on its own.
	PassiveRead BannerStrategy = iota
	// SendRequest writes a minimal HTTP request line before reading.
	// Used for HTTP-labeled ports, where the server stays silent until asked.
	SendRequest
)

// Spec describes a single catalog entry: a port number, the service
// conventionally found there, and how to coax a banner out of it.
type Spec struct {
	Port     int
	Service  string
	Strategy BannerStrategy
}

// Catalog is an ordered, duplicate-free set of port specs,
// ascending by port number.
type Catalog []Spec

// Common covers the TCP ports most often exposed by internet-facing hosts.
// Sorted ascending for consistent output.
var Common = Catalog{
	{Port: 21, Service: "FTP"},
	{Port: 22, Service: "SSH"},
	{Port: 23, Service: "Telnet"},
	{Port: 25, Service: "SMTP"},
	{Port: 53, Service: "DNS"},
	{Port: 80, Service: "HTTP", Strategy: SendRequest},
	{Port: 110, Service: "POP3"},
	{Port: 111, Service: "RPC"},
	{Port: 135, Service: "RPC"},
	{Port: 139, Service: "NetBIOS"},
	{Port: 143, Service: "IMAP"},
	{Port: 443, Service: "HTTPS", Strategy: SendRequest},
	{Port: 445, Service: "SMB"},
	{Port: 993, Service: "IMAPS"},
	{Port: 995, Service: "POP3S"},
	{Port: 1723, Service: "PPTP"},
	{Port: 3306, Service: "MySQL"},
	{Port: 3389, Service: "RDP"},
	{Port: 5432, Service: "PostgreSQL"},
	{Port: 5900, Service: "VNC"},
	{Port: 6379, Service: "Redis"},
	{Port: 8080, Service: "HTTP-Alt", Strategy: SendRequest},
	{Port: 8443, Service: "HTTPS-Alt", Strategy: SendRequest},
}

// ServiceUnknown labels ports probed outside the known catalog.
const ServiceUnknown = "unknown"

// Validate checks that every port is in range and that no port appears twice.
func (c Catalog) Validate() error {
	seen := make(map[int]bool, len(c))
	for _, s := range c {
		if s.Port < 1 || s.Port > 65535 {
			return fmt.Errorf("port %d out of range (1-65535)", s.Port)
		}
		if seen[s.Port] {
			return fmt.Errorf("duplicate port %d in catalog", s.Port)
		}
		seen[s.Port] = true
	}
	return nil
}

// Lookup returns the spec for a port, if the catalog has one.
func (c Catalog) Lookup(port int) (Spec, bool) {
	for _, s := range c {
		if s.Port == port {
			return s, true
		}
	}
	return Spec{}, false
}

// Sorted returns a copy of the catalog in ascending port order.
func (c Catalog) Sorted() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out
}

// FromPorts builds a catalog for an explicit port list, labeling ports not
// present in Common as unknown. Duplicates are dropped, order is ascending.
func FromPorts(portList []int) (Catalog, error) {
	seen := make(map[int]bool, len(portList))
	var out Catalog
	for _, p := range portList {
		if p < 1 || p > 65535 {
			return nil, fmt.Errorf("port %d out of range (1-65535)", p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true

		if spec, ok := Common.Lookup(p); ok {
			out = append(out, spec)
			continue
		}
		out = append(out, Spec{Port: p, Service: ServiceUnknown})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid ports specified")
	}
	return out.Sorted(), nil
}
