package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/soclabs/lookout/internal/probe"
)

// Mock implementations for testing.

type mockWhois struct {
	info   *WhoisInfo
	err    error
	called bool
}

func (m *mockWhois) Lookup(ctx context.Context, domain string) (*WhoisInfo, error) {
	m.called = true
	return m.info, m.err
}

type mockResolver struct {
	records *DNSRecords
	err     error
	called  bool
}

func (m *mockResolver) Lookup(ctx context.Context, domain string) (*DNSRecords, error) {
	m.called = true
	return m.records, m.err
}

type mockGeo struct {
	info   *GeoInfo
	err    error
	called bool
}

func (m *mockGeo) Locate(ctx context.Context, ip string) (*GeoInfo, error) {
	m.called = true
	return m.info, m.err
}

type mockScanner struct {
	report *probe.Report
	err    error
	called bool
}

func (m *mockScanner) Scan(ctx context.Context, target string) (*probe.Report, error) {
	m.called = true
	return m.report, m.err
}

type noopProgress struct{}

func (p *noopProgress) Stage(num, total int, msg string) {}
func (p *noopProgress) Detail(msg string)                {}
func (p *noopProgress) Warn(msg string)                  {}

func TestRun_DomainMode(t *testing.T) {
	whois := &mockWhois{info: &WhoisInfo{
		Domain:    "example.com",
		Registrar: "Example Registrar Inc.",
	}}
	resolver := &mockResolver{records: &DNSRecords{
		A:  []string{"93.184.216.34"},
		MX: []MXRecord{{Preference: 10, Host: "mail.example.com"}},
		NS: []string{"a.iana-servers.net"},
	}}
	scanner := &mockScanner{}

	stages := Stages{Whois: whois, Records: resolver, Geo: &mockGeo{}, Scanner: scanner}
	cfg := Config{Target: "example.com", Mode: ModeDomain, Tool: "lookout/test"}

	report, err := stages.Run(context.Background(), cfg, &noopProgress{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !whois.called || !resolver.called {
		t.Error("domain mode must run whois and dns stages")
	}
	if scanner.called {
		t.Error("domain mode must not run the port scanner")
	}
	if report.Whois == nil || report.Whois.Registrar != "Example Registrar Inc." {
		t.Errorf("whois section = %+v", report.Whois)
	}
	if report.Summary.DNSTypesFound != 3 {
		t.Errorf("dns types = %d, want 3", report.Summary.DNSTypesFound)
	}
	if !report.Summary.WhoisCompleted {
		t.Error("summary should mark whois completed")
	}
	if report.Metadata.AnalysisType != "domain" {
		t.Errorf("analysis type = %q, want domain", report.Metadata.AnalysisType)
	}
}

func TestRun_IPMode(t *testing.T) {
	geo := &mockGeo{info: &GeoInfo{IP: "8.8.8.8", Country: "United States", ISP: "Google LLC"}}
	scanner := &mockScanner{report: &probe.Report{
		Target: "8.8.8.8",
		Records: []probe.Record{
			{Port: 53, Service: "DNS", Outcome: probe.OutcomeOpen, Banner: probe.BannerUnavailable},
			{Port: 443, Service: "HTTPS", Outcome: probe.OutcomeOpen, Banner: "HTTP/1.1 400 Bad Request"},
			{Port: 3306, Service: "MySQL", Outcome: probe.OutcomeFiltered, Banner: probe.BannerUnavailable},
		},
		OpenCount: 2,
	}}
	whois := &mockWhois{}

	stages := Stages{Whois: whois, Records: &mockResolver{}, Geo: geo, Scanner: scanner}
	cfg := Config{Target: "8.8.8.8", Mode: ModeIP, Tool: "lookout/test"}

	report, err := stages.Run(context.Background(), cfg, &noopProgress{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !geo.called || !scanner.called {
		t.Error("ip mode must run geolocation and port scan stages")
	}
	if whois.called {
		t.Error("ip mode must not run whois")
	}
	if report.Summary.OpenPorts != 2 || report.Summary.PortsProbed != 3 {
		t.Errorf("summary ports = %d/%d, want 2/3", report.Summary.OpenPorts, report.Summary.PortsProbed)
	}
	if !report.Summary.GeoLocated {
		t.Error("summary should mark geolocation done")
	}
	if report.Metadata.DurationSecs < 0 {
		t.Error("duration must not be negative")
	}
}

func TestRun_StageFailureIsContained(t *testing.T) {
	whois := &mockWhois{err: fmt.Errorf("whois server unreachable")}
	resolver := &mockResolver{records: &DNSRecords{A: []string{"192.0.2.1"}}}

	stages := Stages{Whois: whois, Records: resolver, Geo: &mockGeo{}, Scanner: &mockScanner{}}
	cfg := Config{Target: "example.com", Mode: ModeDomain}

	report, err := stages.Run(context.Background(), cfg, &noopProgress{})
	if err != nil {
		t.Fatalf("whois failure must not abort the run: %v", err)
	}

	if report.Whois != nil {
		t.Error("failed whois stage must leave its section nil")
	}
	if report.DNS == nil {
		t.Error("dns stage must still run after whois failure")
	}
	if len(report.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", report.Warnings)
	}
}

func TestRun_ScanPreconditionAborts(t *testing.T) {
	scanner := &mockScanner{err: fmt.Errorf("port catalog is empty")}
	stages := Stages{Whois: &mockWhois{}, Records: &mockResolver{}, Geo: &mockGeo{}, Scanner: scanner}
	cfg := Config{Target: "192.0.2.1", Mode: ModeIP, SkipGeo: true}

	_, err := stages.Run(context.Background(), cfg, &noopProgress{})
	if err == nil {
		t.Fatal("expected error when the scan precondition fails")
	}
}

func TestRun_SkipFlags(t *testing.T) {
	whois := &mockWhois{}
	geo := &mockGeo{}
	scanner := &mockScanner{report: &probe.Report{Target: "192.0.2.1"}}
	resolver := &mockResolver{records: &DNSRecords{}}

	stages := Stages{Whois: whois, Records: resolver, Geo: geo, Scanner: scanner}

	cfg := Config{Target: "example.com", Mode: ModeDomain, SkipWhois: true}
	if _, err := stages.Run(context.Background(), cfg, &noopProgress{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if whois.called {
		t.Error("whois must be skipped")
	}

	cfg = Config{Target: "192.0.2.1", Mode: ModeIP, SkipGeo: true}
	if _, err := stages.Run(context.Background(), cfg, &noopProgress{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geo.called {
		t.Error("geolocation must be skipped")
	}
}

func TestRun_InvalidInput(t *testing.T) {
	stages := Stages{Whois: &mockWhois{}, Records: &mockResolver{}, Geo: &mockGeo{}, Scanner: &mockScanner{}}

	if _, err := stages.Run(context.Background(), Config{Mode: ModeIP}, &noopProgress{}); err == nil {
		t.Error("expected error for empty target")
	}
	if _, err := stages.Run(context.Background(), Config{Target: "x", Mode: "both"}, &noopProgress{}); err == nil {
		t.Error("expected error for unknown mode")
	}
}
