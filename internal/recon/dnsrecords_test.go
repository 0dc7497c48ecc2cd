package recon

import (
	"testing"

	"github.com/miekg/dns"

	"github.com/soclabs/lookout/internal/engine"
)

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	if err != nil {
		t.Fatalf("bad test record %q: %v", s, err)
	}
	return rr
}

func TestAppendAnswer(t *testing.T) {
	records := &engine.DNSRecords{}

	appendAnswer(records, mustRR(t, "example.com. 3600 IN A 93.184.216.34"))
	appendAnswer(records, mustRR(t, "example.com. 3600 IN AAAA 2606:2800:220:1:248:1893:25c8:1946"))
	appendAnswer(records, mustRR(t, "example.com. 3600 IN MX 10 Mail.Example.COM."))
	appendAnswer(records, mustRR(t, `example.com. 3600 IN TXT "v=spf1" "-all"`))
	appendAnswer(records, mustRR(t, "example.com. 3600 IN NS A.IANA-SERVERS.NET."))
	appendAnswer(records, mustRR(t, "www.example.com. 3600 IN CNAME example.com."))

	if len(records.A) != 1 || records.A[0] != "93.184.216.34" {
		t.Errorf("a records = %v", records.A)
	}
	if len(records.AAAA) != 1 {
		t.Errorf("aaaa records = %v", records.AAAA)
	}
	if len(records.MX) != 1 {
		t.Fatalf("mx records = %v", records.MX)
	}
	if records.MX[0].Preference != 10 || records.MX[0].Host != "mail.example.com" {
		t.Errorf("mx = %+v, want pref 10 host mail.example.com", records.MX[0])
	}
	if len(records.TXT) != 1 || records.TXT[0] != "v=spf1 -all" {
		t.Errorf("txt records = %v, want joined strings", records.TXT)
	}
	if len(records.NS) != 1 || records.NS[0] != "a.iana-servers.net" {
		t.Errorf("ns records = %v, want trimmed lowercase host", records.NS)
	}
	if len(records.CNAME) != 1 || records.CNAME[0] != "example.com" {
		t.Errorf("cname records = %v", records.CNAME)
	}

	if got := records.TypesFound(); got != 6 {
		t.Errorf("types found = %d, want 6", got)
	}
}

func TestAppendAnswer_IgnoresUnhandledTypes(t *testing.T) {
	records := &engine.DNSRecords{}
	appendAnswer(records, mustRR(t, "example.com. 3600 IN SOA ns.example.com. admin.example.com. 1 7200 3600 1209600 3600"))

	if records.TypesFound() != 0 {
		t.Errorf("expected SOA to be ignored, got %+v", records)
	}
}
