package probe

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Connector attempts a single TCP connection against one (target, port) pair.
// The returned conn is non-nil only when the outcome is OutcomeOpen, and the
// caller owns closing it. Reason is set only for OutcomeError.
//
// One attempt per port per scan; the engine never re-probes.
type Connector interface {
	Connect(ctx context.Context, target string, port int) (conn net.Conn, outcome Outcome, reason string)
}

// DialConnector is the production Connector: a plain TCP connect with a
// bounded handshake timeout.
type DialConnector struct {
	Timeout time.Duration
}

// Connect performs the TCP handshake and classifies the result.
func (d *DialConnector) Connect(ctx context.Context, target string, port int) (net.Conn, Outcome, string) {
	dialer := net.Dialer{Timeout: d.Timeout}
	addr := net.JoinHostPort(target, strconv.Itoa(port))

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		outcome, reason := classifyDialError(err)
		return nil, outcome, reason
	}
	return conn, OutcomeOpen, ""
}

// classifyDialError maps a dial failure onto the outcome taxonomy.
// Refusal and timeout are expected results, not errors; everything else
// is reported with its reason and contained to this port.
func classifyDialError(err error) (Outcome, string) {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return OutcomeFiltered, ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeFiltered, ""
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return OutcomeClosed, ""
	}

	// Fallback for platforms that wrap refusal differently.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") {
		return OutcomeClosed, ""
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") {
		return OutcomeFiltered, ""
	}

	return OutcomeError, err.Error()
}
