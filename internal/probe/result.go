// Package probe implements the concurrent TCP port-probe engine: it fans out
// connection attempts against a single target under a bounded worker pool,
// classifies each outcome, opportunistically grabs service banners, and
// merges everything into one deterministic result set.
package probe

import "sort"

// Outcome classifies what a single connection attempt observed.
type Outcome string

const (
	// OutcomeOpen means the TCP handshake completed.
	OutcomeOpen Outcome = "open"
	// OutcomeClosed means the target actively refused the connection.
	OutcomeClosed Outcome = "closed"
	// OutcomeFiltered means nothing answered within the connect budget,
	// typically a firewall dropping packets.
	OutcomeFiltered Outcome = "filtered"
	// OutcomeError covers any other transport failure; Record.Reason
	// carries the detail.
	OutcomeError Outcome = "error"
)

// BannerUnavailable marks records where no banner could be read.
// Every record carries either real banner text or this marker;
// the field is never silently empty.
const BannerUnavailable = "unavailable"

// Record is the immutable per-port result emitted by exactly one worker task.
type Record struct {
	Port    int     `json:"port"`
	Service string  `json:"service"`
	Outcome Outcome `json:"state"`
	Reason  string  `json:"reason,omitempty"`
	Banner  string  `json:"banner"`
}

// Report is the final result of one scan: one record per catalog entry,
// ascending by port number regardless of completion order.
type Report struct {
	Target    string   `json:"target"`
	Records   []Record `json:"records"`
	OpenCount int      `json:"open_count"`
}

// OpenRecords returns only the records whose port accepted a connection.
func (r *Report) OpenRecords() []Record {
	var open []Record
	for _, rec := range r.Records {
		if rec.Outcome == OutcomeOpen {
			open = append(open, rec)
		}
	}
	return open
}

// aggregate assembles the final report from collected records.
// Pure: no I/O, no concurrency. Records must already be sorted.
func aggregate(target string, records []Record) *Report {
	open := 0
	for _, rec := range records {
		if rec.Outcome == OutcomeOpen {
			open++
		}
	}
	return &Report{
		Target:    target,
		Records:   records,
		OpenCount: open,
	}
}

// sortRecords orders records ascending by port number. Tasks complete in
// arbitrary order; this is the only ordering contract callers get.
func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Port < records[j].Port
	})
}
