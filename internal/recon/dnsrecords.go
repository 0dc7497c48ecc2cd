package recon

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/soclabs/lookout/internal/engine"
)

const (
	dnsQueryTimeout = 5 * time.Second
	resolvConfPath  = "/etc/resolv.conf"
	fallbackServer  = "8.8.8.8:53"
)

// recordTypes are the query types the domain report covers.
var recordTypes = []uint16{
	dns.TypeA,
	dns.TypeAAAA,
	dns.TypeMX,
	dns.TypeTXT,
	dns.TypeNS,
	dns.TypeCNAME,
}

// LookupRecords queries each supported record type for the domain against
// the system resolver. A type with no records is simply absent from the
// result; NXDOMAIN on the first query fails the whole lookup since the
// domain does not exist.
func LookupRecords(ctx context.Context, domain string) (*engine.DNSRecords, error) {
	server := systemResolverAddr()
	client := &dns.Client{Timeout: dnsQueryTimeout}

	records := &engine.DNSRecords{}
	for i, qtype := range recordTypes {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(domain), qtype)
		msg.RecursionDesired = true

		resp, _, err := client.ExchangeContext(ctx, msg, server)
		if err != nil {
			// Transport trouble for one type is not fatal to the others.
			continue
		}
		if resp.Rcode == dns.RcodeNameError {
			if i == 0 {
				return nil, fmt.Errorf("domain %s does not exist", domain)
			}
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			continue
		}

		for _, rr := range resp.Answer {
			appendAnswer(records, rr)
		}
	}

	return records, nil
}

// appendAnswer files one resource record into the matching result slice.
// Unhandled record types are ignored.
func appendAnswer(records *engine.DNSRecords, rr dns.RR) {
	switch v := rr.(type) {
	case *dns.A:
		records.A = append(records.A, v.A.String())
	case *dns.AAAA:
		records.AAAA = append(records.AAAA, v.AAAA.String())
	case *dns.MX:
		records.MX = append(records.MX, engine.MXRecord{
			Preference: v.Preference,
			Host:       trimDot(v.Mx),
		})
	case *dns.TXT:
		records.TXT = append(records.TXT, strings.Join(v.Txt, " "))
	case *dns.NS:
		records.NS = append(records.NS, trimDot(v.Ns))
	case *dns.CNAME:
		records.CNAME = append(records.CNAME, trimDot(v.Target))
	}
}

func trimDot(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".")
}

// systemResolverAddr picks the first nameserver from resolv.conf,
// falling back to a public resolver when none can be read.
func systemResolverAddr() string {
	conf, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(conf.Servers) == 0 {
		return fallbackServer
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}
