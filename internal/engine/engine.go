package engine

import (
	"context"
	"fmt"
	"time"
)

// Mode selects which recon stages apply to the target.
type Mode string

const (
	// ModeDomain runs WHOIS and DNS record lookups.
	ModeDomain Mode = "domain"
	// ModeIP runs geolocation and the port scan.
	ModeIP Mode = "ip"
)

// Config holds the runtime configuration for a lookout run.
type Config struct {
	Target    string
	Mode      Mode
	SkipWhois bool
	SkipGeo   bool
	Tool      string
}

// Stages holds the injectable stage implementations.
type Stages struct {
	Whois   WhoisClient
	Records RecordResolver
	Geo     GeoLocator
	Scanner PortScanner
}

const stagesPerMode = 2

// Run executes the recon pipeline for one target. Domain targets get WHOIS
// and DNS record lookups; IP targets get geolocation and the port scan.
// Individual stage failures are reported as warnings and leave their report
// section nil; only the port scan's precondition failures abort the run.
func (s Stages) Run(ctx context.Context, cfg Config, progress ProgressReporter) (*Report, error) {
	if cfg.Target == "" {
		return nil, fmt.Errorf("target is required")
	}
	if cfg.Mode != ModeDomain && cfg.Mode != ModeIP {
		return nil, fmt.Errorf("unknown analysis mode %q", cfg.Mode)
	}

	start := time.Now()
	report := &Report{
		Metadata: Metadata{
			GeneratedAt:  start,
			Target:       cfg.Target,
			AnalysisType: string(cfg.Mode),
			Tool:         cfg.Tool,
		},
	}

	switch cfg.Mode {
	case ModeDomain:
		s.runDomain(ctx, cfg, report, progress)
	case ModeIP:
		if err := s.runIP(ctx, cfg, report, progress); err != nil {
			return nil, err
		}
	}

	report.Metadata.DurationSecs = time.Since(start).Seconds()
	report.Summary = buildSummary(report)
	return report, nil
}

func (s Stages) runDomain(ctx context.Context, cfg Config, report *Report, progress ProgressReporter) {
	if cfg.SkipWhois {
		progress.Detail("WHOIS lookup skipped")
	} else {
		progress.Stage(1, stagesPerMode, fmt.Sprintf("Querying WHOIS for %s...", cfg.Target))
		info, err := s.Whois.Lookup(ctx, cfg.Target)
		if err != nil {
			progress.Warn(fmt.Sprintf("WHOIS lookup: %s", err))
			report.Warnings = append(report.Warnings, fmt.Sprintf("whois: %s", err))
		} else {
			report.Whois = info
			progress.Detail(fmt.Sprintf("Registered by %s, expires %s", info.Registrar, info.ExpirationDate))
		}
	}

	progress.Stage(2, stagesPerMode, fmt.Sprintf("Querying DNS records for %s...", cfg.Target))
	records, err := s.Records.Lookup(ctx, cfg.Target)
	if err != nil {
		progress.Warn(fmt.Sprintf("DNS lookup: %s", err))
		report.Warnings = append(report.Warnings, fmt.Sprintf("dns: %s", err))
		return
	}
	report.DNS = records
	progress.Detail(fmt.Sprintf("Found %d record types", records.TypesFound()))
}

func (s Stages) runIP(ctx context.Context, cfg Config, report *Report, progress ProgressReporter) error {
	if cfg.SkipGeo {
		progress.Detail("Geolocation skipped")
	} else {
		progress.Stage(1, stagesPerMode, fmt.Sprintf("Geolocating %s...", cfg.Target))
		geo, err := s.Geo.Locate(ctx, cfg.Target)
		if err != nil {
			progress.Warn(fmt.Sprintf("geolocation: %s", err))
			report.Warnings = append(report.Warnings, fmt.Sprintf("geo: %s", err))
		} else {
			report.Geo = geo
			progress.Detail(fmt.Sprintf("%s, %s (%s)", geo.City, geo.Country, geo.ISP))
		}
	}

	progress.Stage(2, stagesPerMode, fmt.Sprintf("Probing common ports on %s...", cfg.Target))
	scan, err := s.Scanner.Scan(ctx, cfg.Target)
	if err != nil {
		// Scan errors are precondition failures: nothing was dispatched.
		return fmt.Errorf("port scan: %w", err)
	}
	report.Ports = scan
	progress.Detail(fmt.Sprintf("%d of %d ports open", scan.OpenCount, len(scan.Records)))
	return nil
}

func buildSummary(report *Report) Summary {
	var s Summary
	s.WhoisCompleted = report.Whois != nil
	if report.DNS != nil {
		s.DNSTypesFound = report.DNS.TypesFound()
	}
	s.GeoLocated = report.Geo != nil
	if report.Ports != nil {
		s.PortsProbed = len(report.Ports.Records)
		s.OpenPorts = report.Ports.OpenCount
	}
	return s
}
