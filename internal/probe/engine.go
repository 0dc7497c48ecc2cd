package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/soclabs/lookout/pkg/ports"
)

// Config holds the tunables for one scan engine.
type Config struct {
	Catalog        ports.Catalog
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Concurrency    int
	// RateLimit caps outbound connection attempts per second.
	// Zero or negative means unlimited.
	RateLimit int
	// ScanTimeout bounds the whole scan wall-clock. Zero means the scan is
	// bounded only by the per-connect and per-read timeouts.
	ScanTimeout time.Duration
}

const (
	defaultConnectTimeout = 1 * time.Second
	defaultReadTimeout    = 2 * time.Second
	defaultConcurrency    = 20
)

// Engine coordinates one scan: it dispatches exactly one probe task per
// catalog entry across a bounded worker pool and collects the records.
type Engine struct {
	cfg       Config
	connector Connector
	banner    BannerReader
	limiter   *rate.Limiter
}

// New builds an engine with production connector and banner reader.
// Zero-valued timeouts and concurrency fall back to defaults.
func New(cfg Config) *Engine {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	return &Engine{
		cfg:       cfg,
		connector: &DialConnector{Timeout: cfg.ConnectTimeout},
		banner:    &DeadlineReader{Timeout: cfg.ReadTimeout},
		limiter:   limiter,
	}
}

// NewWithStages builds an engine around injected connector and banner reader
// implementations. Used by tests and callers that stub the network.
func NewWithStages(cfg Config, connector Connector, banner BannerReader) *Engine {
	e := New(cfg)
	if connector != nil {
		e.connector = connector
	}
	if banner != nil {
		e.banner = banner
	}
	return e
}

// Scan probes every catalog entry against target and blocks until each has
// produced a record. The scan is atomic from the caller's point of view:
// there is no partial or streaming result. Failures are contained per port;
// only precondition violations (empty target, bad catalog) return an error.
func (e *Engine) Scan(ctx context.Context, target string) (*Report, error) {
	if target == "" {
		return nil, fmt.Errorf("scan target is required")
	}
	if len(e.cfg.Catalog) == 0 {
		return nil, fmt.Errorf("port catalog is empty")
	}
	if err := e.cfg.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid port catalog: %w", err)
	}

	if e.cfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.ScanTimeout)
		defer cancel()
	}

	work := make(chan ports.Spec, len(e.cfg.Catalog))
	for _, spec := range e.cfg.Catalog {
		work <- spec
	}
	close(work)

	var (
		mu      sync.Mutex
		records = make([]Record, 0, len(e.cfg.Catalog))
	)

	workers := e.cfg.Concurrency
	if workers > len(e.cfg.Catalog) {
		workers = len(e.cfg.Catalog)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for spec := range work {
				rec := e.probeOne(ctx, target, spec)
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	sortRecords(records)
	return aggregate(target, records), nil
}

// probeOne runs the full per-port task: rate gate, connect, optional banner
// read. Every exit path yields exactly one record, a panicking task included.
func (e *Engine) probeOne(ctx context.Context, target string, spec ports.Spec) (rec Record) {
	rec = Record{
		Port:    spec.Port,
		Service: spec.Service,
		Banner:  BannerUnavailable,
	}

	defer func() {
		if r := recover(); r != nil {
			rec.Outcome = OutcomeError
			rec.Reason = fmt.Sprintf("probe panic: %v", r)
			rec.Banner = BannerUnavailable
		}
	}()

	if err := e.limiter.Wait(ctx); err != nil {
		rec.Outcome = OutcomeError
		rec.Reason = err.Error()
		return rec
	}

	conn, outcome, reason := e.connector.Connect(ctx, target, spec.Port)
	rec.Outcome = outcome
	rec.Reason = reason
	if outcome != OutcomeOpen {
		return rec
	}

	defer conn.Close()
	rec.Banner = e.banner.Read(conn, spec)
	return rec
}
