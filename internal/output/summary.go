package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/soclabs/lookout/internal/engine"
	"github.com/soclabs/lookout/internal/probe"
)

// Version is set via ldflags at build time.
var Version = "dev"

// WriteHeader prints the lookout banner.
func WriteHeader(w io.Writer, noColor bool) {
	if noColor {
		fmt.Fprintf(w, "lookout %s — single-target OSINT recon\n\n", Version)
	} else {
		fmt.Fprintf(w, "\033[1mlookout %s\033[0m — single-target OSINT recon\n\n", Version)
	}
}

// WriteSummary prints the post-run summary.
func WriteSummary(w io.Writer, report *engine.Report, noColor bool) {
	bold := func(s string) string {
		if noColor {
			return s
		}
		return "\033[1m" + s + "\033[0m"
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s (%s)\n", bold("Target:"), report.Metadata.Target, report.Metadata.AnalysisType)

	if report.Whois != nil {
		fmt.Fprintf(w, "%s registered by %s", bold("WHOIS:"), orUnknown(report.Whois.Registrar))
		if report.Whois.ExpirationDate != "" {
			fmt.Fprintf(w, ", expires %s", report.Whois.ExpirationDate)
		}
		fmt.Fprintln(w)
		if len(report.Whois.NameServers) > 0 {
			fmt.Fprintf(w, "  name servers: %s\n", strings.Join(report.Whois.NameServers, ", "))
		}
	}

	if report.DNS != nil {
		fmt.Fprintf(w, "%s %d record types found\n", bold("DNS:"), report.DNS.TypesFound())
		if len(report.DNS.A) > 0 {
			fmt.Fprintf(w, "  A: %s\n", strings.Join(report.DNS.A, ", "))
		}
		for _, mx := range report.DNS.MX {
			fmt.Fprintf(w, "  MX: %d %s\n", mx.Preference, mx.Host)
		}
	}

	if report.Geo != nil {
		fmt.Fprintf(w, "%s %s, %s — %s\n", bold("Location:"),
			orUnknown(report.Geo.City), orUnknown(report.Geo.Country), orUnknown(report.Geo.ISP))
	}

	if report.Ports != nil {
		fmt.Fprintf(w, "%s %d open of %d probed\n", bold("Ports:"),
			report.Ports.OpenCount, len(report.Ports.Records))
		for _, rec := range report.Ports.Records {
			if rec.Outcome != probe.OutcomeOpen {
				continue
			}
			line := fmt.Sprintf("  %d: %s", rec.Port, rec.Service)
			if rec.Banner != probe.BannerUnavailable {
				line += fmt.Sprintf(" — %s", truncate(rec.Banner, 60))
			}
			fmt.Fprintln(w, line)
		}
	}

	for _, warn := range report.Warnings {
		if noColor {
			fmt.Fprintf(w, "! %s\n", warn)
		} else {
			fmt.Fprintf(w, "\033[33m!\033[0m %s\n", warn)
		}
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
