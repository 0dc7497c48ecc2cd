// Package recon implements the individual lookout reconnaissance stages.
package recon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/soclabs/lookout/internal/engine"
)

const whoisTimeout = 10 * time.Second

// WhoisLookup queries the registry for a domain and extracts the fields the
// report cares about. Parse failures for exotic TLD formats surface as
// errors; the pipeline treats them as a warning, not a fatal condition.
func WhoisLookup(ctx context.Context, domain string) (*engine.WhoisInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := whois.NewClient()
	client.SetTimeout(whoisTimeout)
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < whoisTimeout {
			client.SetTimeout(remaining)
		}
	}

	raw, err := client.Whois(domain)
	if err != nil {
		return nil, fmt.Errorf("whois query for %s: %w", domain, err)
	}

	return parseWhoisText(domain, raw)
}

// parseWhoisText maps a raw WHOIS response onto WhoisInfo.
func parseWhoisText(domain, raw string) (*engine.WhoisInfo, error) {
	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("whois parse for %s: %w", domain, err)
	}

	info := &engine.WhoisInfo{Domain: strings.ToLower(domain)}

	if parsed.Domain != nil {
		info.CreatedDate = parsed.Domain.CreatedDate
		info.ExpirationDate = parsed.Domain.ExpirationDate
		for _, ns := range parsed.Domain.NameServers {
			ns = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(ns), "."))
			if ns != "" {
				info.NameServers = append(info.NameServers, ns)
			}
		}
	}
	if parsed.Registrar != nil {
		info.Registrar = parsed.Registrar.Name
	}
	if parsed.Registrant != nil {
		info.Country = parsed.Registrant.Country
		info.Org = parsed.Registrant.Organization
	}

	return info, nil
}
