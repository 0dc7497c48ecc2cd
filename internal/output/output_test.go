package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soclabs/lookout/internal/engine"
	"github.com/soclabs/lookout/internal/probe"
)

func sampleReport() *engine.Report {
	return &engine.Report{
		Metadata: engine.Metadata{Target: "192.0.2.10", AnalysisType: "ip", Tool: "lookout/test"},
		Geo:      &engine.GeoInfo{IP: "192.0.2.10", Country: "Norway", City: "Oslo", ISP: "Example ISP"},
		Ports: &probe.Report{
			Target: "192.0.2.10",
			Records: []probe.Record{
				{Port: 22, Service: "SSH", Outcome: probe.OutcomeOpen, Banner: "SSH-2.0-OpenSSH_9.6"},
				{Port: 80, Service: "HTTP", Outcome: probe.OutcomeClosed, Banner: probe.BannerUnavailable},
				{Port: 443, Service: "HTTPS", Outcome: probe.OutcomeFiltered, Banner: probe.BannerUnavailable},
			},
			OpenCount: 1,
		},
		Summary: engine.Summary{GeoLocated: true, PortsProbed: 3, OpenPorts: 1},
	}
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded engine.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Metadata.Target != "192.0.2.10" {
		t.Errorf("target = %q", decoded.Metadata.Target)
	}
	if decoded.Ports == nil || decoded.Ports.OpenCount != 1 {
		t.Errorf("ports section lost: %+v", decoded.Ports)
	}
	if decoded.Whois != nil {
		t.Error("whois section should stay null for IP analysis")
	}
}

func TestSaveJSON_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := SaveJSON(path, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "SSH-2.0-OpenSSH_9.6") {
		t.Error("saved report missing banner data")
	}
}

func TestWriteTable_PlainMode(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, sampleReport(), true)

	out := buf.String()
	for _, want := range []string{"Port", "22", "SSH", "open", "closed", "filtered"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummary_ListsOpenPorts(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, sampleReport(), true)

	out := buf.String()
	if !strings.Contains(out, "1 open of 3 probed") {
		t.Errorf("summary missing port counts:\n%s", out)
	}
	if !strings.Contains(out, "22: SSH") {
		t.Errorf("summary missing open port line:\n%s", out)
	}
	if strings.Contains(out, "80: HTTP") {
		t.Errorf("summary must only list open ports:\n%s", out)
	}
	if !strings.Contains(out, "Oslo") {
		t.Errorf("summary missing geolocation:\n%s", out)
	}
}
